package petpalapi

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultAgeGroup is sent when the caller does not choose an age group
const DefaultAgeGroup = "adult"

// DefaultRecipeCount is the batch size for recipe generation
const DefaultRecipeCount = 3

// BreedResult is the identification output for one query together with the
// recipe batch generated for it.
type BreedResult struct {
	Breed      string       `json:"breed"`
	Species    string       `json:"species"`
	Confidence float64      `json:"confidence"` // 0..1
	Recipes    []RecipeCard `json:"recipes"`
}

// RecipeCard is one generated recipe. Cards are never modified after decoding.
type RecipeCard struct {
	Title        string        `json:"title"`
	Tags         []string      `json:"tags"`
	Ingredients  string        `json:"ingredients"`
	Instructions string        `json:"instructions"`
	Nutrition    NutritionInfo `json:"nutrition"`
}

// NutritionInfo holds per-recipe nutrition estimates.
// A nil field means the value is unknown and must not be shown as zero.
type NutritionInfo struct {
	Calories       *float64 `json:"calories"`
	Protein        *float64 `json:"protein"`
	Fat            *float64 `json:"fat"`
	Carbs          *float64 `json:"carbs"`
	Micronutrients *string  `json:"micronutrients"`
}

// HasMacros reports whether at least one macro value is known
func (n NutritionInfo) HasMacros() bool {
	return n.Calories != nil || n.Protein != nil || n.Fat != nil || n.Carbs != nil
}

// ChatbotRequest is the JSON body sent to /chatbot
type ChatbotRequest struct {
	Breed    string `json:"breed"`
	Question string `json:"question"`
}

// ChatbotResponse is the answer returned by /chatbot
type ChatbotResponse struct {
	Answer string `json:"answer"`
}

// HealthStatus is the opaque payload returned by /health
type HealthStatus map[string]any

// RecipeQuery holds the parameters shared by /get_recipes and
// /generate_more_recipes.
type RecipeQuery struct {
	Breed          string
	DietaryOptions string // comma-joined tags, empty for none
	AgeGroup       string // defaults to DefaultAgeGroup
	Count          int    // defaults to DefaultRecipeCount
}

// ToFormData converts the query to URL-encoded form fields.
// dietary_options is omitted when empty.
func (q RecipeQuery) ToFormData() url.Values {
	data := breedFormData(q.Breed, q.DietaryOptions, q.AgeGroup)

	count := q.Count
	if count <= 0 {
		count = DefaultRecipeCount
	}
	data.Set("count", strconv.Itoa(count))

	return data
}

// breedFormData builds the fields shared by every breed-scoped form request
func breedFormData(breed, dietaryOptions, ageGroup string) url.Values {
	data := url.Values{}
	data.Set("breed", breed)
	if dietaryOptions != "" {
		data.Set("dietary_options", dietaryOptions)
	}
	data.Set("age_group", normalizeAgeGroup(ageGroup))
	return data
}

func normalizeAgeGroup(ageGroup string) string {
	if ageGroup == "" {
		return DefaultAgeGroup
	}
	return ageGroup
}

// JoinDietaryOptions joins selected dietary tags into the wire format:
// comma-separated with no extra whitespace. An empty selection yields "".
func JoinDietaryOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return strings.Join(options, ",")
}

// SplitDietaryOptions is the inverse of JoinDietaryOptions. Blank entries are
// dropped and surrounding whitespace trimmed.
func SplitDietaryOptions(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

// AgeGroupLabel returns the display label for an age-group token
func AgeGroupLabel(ageGroup string) string {
	switch ageGroup {
	case "puppyhood":
		return "Puppy"
	case "adult":
		return "Adult"
	case "senior":
		return "Senior"
	default:
		return ageGroup
	}
}
