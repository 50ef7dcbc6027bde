package session

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/petpal/internal/petpalapi"
)

// Operation identifies which transport call a Pending performs
type Operation int

const (
	OpAnalyzeImage Operation = iota
	OpSearchBreed
	OpGenerateMore
)

// String returns a human-readable name for the operation
func (o Operation) String() string {
	switch o {
	case OpAnalyzeImage:
		return "analyze_image"
	case OpSearchBreed:
		return "search_breed"
	case OpGenerateMore:
		return "generate_more"
	default:
		return fmt.Sprintf("Operation(%d)", o)
	}
}

// Pending is a transport call captured at the moment the user triggered it.
// Later changes to the session (dietary toggles, age group) do not affect it.
type Pending struct {
	Op         Operation
	Generation uint64
	From       Phase // phase to return to on failure

	api      API
	file     petpalapi.ImageFile
	breed    string
	dietary  string
	ageGroup string
	count    int
}

// Breed returns the breed a search or generate-more call will send
func (p *Pending) Breed() string {
	return p.breed
}

// DietaryOptions returns the comma-joined dietary tags the call will send
func (p *Pending) DietaryOptions() string {
	return p.dietary
}

// AgeGroup returns the age group the call will send
func (p *Pending) AgeGroup() string {
	return p.ageGroup
}

// Outcome is the result of running a Pending. Exactly one of Results,
// Result or Recipes is meaningful, depending on Op, unless Err is set.
type Outcome struct {
	Op         Operation
	Generation uint64
	From       Phase

	Results []petpalapi.BreedResult // OpAnalyzeImage
	Result  *petpalapi.BreedResult  // OpSearchBreed
	Recipes []petpalapi.RecipeCard  // OpGenerateMore

	Err     error
	Elapsed time.Duration
}

// Run performs exactly one transport call. It never touches session state,
// so it is safe to call from a background goroutine.
func (p *Pending) Run(ctx context.Context) Outcome {
	out := Outcome{
		Op:         p.Op,
		Generation: p.Generation,
		From:       p.From,
	}

	start := time.Now()
	switch p.Op {
	case OpAnalyzeImage:
		out.Results, out.Err = p.api.PredictBreedFromImage(ctx, p.file, p.dietary, p.ageGroup)
	case OpSearchBreed:
		out.Result, out.Err = p.api.PredictBreedFromText(ctx, p.breed, p.dietary, p.ageGroup)
	case OpGenerateMore:
		out.Recipes, out.Err = p.api.GenerateMoreRecipes(ctx, petpalapi.RecipeQuery{
			Breed:          p.breed,
			DietaryOptions: p.dietary,
			AgeGroup:       p.ageGroup,
			Count:          p.count,
		})
	default:
		out.Err = fmt.Errorf("unknown operation %d", p.Op)
	}
	out.Elapsed = time.Since(start)

	return out
}
