package session

import (
	"strings"

	"github.com/muurk/petpal/internal/petpalapi"
)

// FallbackAgeGroups is offered when the catalog could not be fetched
var FallbackAgeGroups = []string{"puppyhood", "adult", "senior"}

// Catalog holds the lookup data fetched once at startup.
type Catalog struct {
	DietaryOptions []string
	AgeGroups      []string
	PopularBreeds  map[string]string
	APIStatus      string
	Loaded         bool
}

// AgeGroupChoices returns the fetched age groups, or the fallback list
func (c Catalog) AgeGroupChoices() []string {
	if len(c.AgeGroups) > 0 {
		return c.AgeGroups
	}
	return FallbackAgeGroups
}

// State is the user-visible session. Controller owns the live copy; every
// other reader works from a Snapshot.
type State struct {
	Mode  Mode
	Phase Phase

	// File is the image picked but not yet analyzed successfully
	File *petpalapi.ImageFile

	Dietary     []string // selection in toggle order
	AgeGroup    string
	RecipeCount int
	DarkMode    bool

	Result  *petpalapi.BreedResult
	Recipes []petpalapi.RecipeCard

	// ResultSeq increases each time a new breed result is applied, so a
	// renderer can start a fresh breed chat.
	ResultSeq   int
	ChatVisible bool

	Loading     bool
	StatusLabel string

	// Generation is bumped on every mode switch. Async outcomes carrying an
	// older value are discarded.
	Generation uint64

	Catalog Catalog
}

// DietaryString returns the selection in wire format, e.g. "grain-free,low-fat"
func (s State) DietaryString() string {
	return petpalapi.JoinDietaryOptions(s.Dietary)
}

// DietarySummary returns "Selected: a, b", or "" when nothing is selected
func (s State) DietarySummary() string {
	if len(s.Dietary) == 0 {
		return ""
	}
	return "Selected: " + strings.Join(s.Dietary, ", ")
}

// HasDietary reports whether option is currently selected
func (s State) HasDietary(option string) bool {
	for _, selected := range s.Dietary {
		if selected == option {
			return true
		}
	}
	return false
}

// HasResult reports whether a breed result is stored
func (s State) HasResult() bool {
	return s.Result != nil
}

// CanAnalyze reports whether the analyze action should be enabled
func (s State) CanAnalyze() bool {
	if s.Loading {
		return false
	}
	switch s.Mode {
	case ModeImage:
		return s.File != nil
	case ModeTextSearch:
		return true
	default:
		return false
	}
}

// CanGenerateMore reports whether the generate-more action should be enabled
func (s State) CanGenerateMore() bool {
	return !s.Loading && s.Result != nil && s.Phase == PhaseResultReady
}

// clone returns a deep copy that shares no slices or maps with s
func (s State) clone() State {
	c := s

	if s.File != nil {
		file := *s.File
		c.File = &file
	}
	if s.Result != nil {
		result := *s.Result
		result.Recipes = append([]petpalapi.RecipeCard(nil), s.Result.Recipes...)
		c.Result = &result
	}

	c.Dietary = append([]string(nil), s.Dietary...)
	c.Recipes = append([]petpalapi.RecipeCard(nil), s.Recipes...)
	c.Catalog.DietaryOptions = append([]string(nil), s.Catalog.DietaryOptions...)
	c.Catalog.AgeGroups = append([]string(nil), s.Catalog.AgeGroups...)

	if s.Catalog.PopularBreeds != nil {
		c.Catalog.PopularBreeds = make(map[string]string, len(s.Catalog.PopularBreeds))
		for k, v := range s.Catalog.PopularBreeds {
			c.Catalog.PopularBreeds[k] = v
		}
	}

	return c
}
