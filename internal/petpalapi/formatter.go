package petpalapi

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatConfidence renders a 0..1 confidence as a percentage with one
// decimal place, e.g. 0.94 -> "94.0%".
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%.1f%%", confidence*100)
}

// Summary returns a one-line summary of the breed result
func (r *BreedResult) Summary() string {
	species := r.Species
	if species == "" {
		species = "dog"
	}
	return fmt.Sprintf("%s (%s) - Confidence: %s, %d recipe(s)",
		r.Breed, species, FormatConfidence(r.Confidence), len(r.Recipes))
}

// FormatHeader returns the breed header block shown above recipe cards
func (r *BreedResult) FormatHeader() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Breed:      %s\n", r.Breed))
	if r.Species != "" {
		b.WriteString(fmt.Sprintf("Species:    %s\n", r.Species))
	}
	b.WriteString(fmt.Sprintf("Confidence: %s\n", FormatConfidence(r.Confidence)))

	return b.String()
}

// FormatDetailed returns the breed header followed by every recipe card
func (r *BreedResult) FormatDetailed() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s ===\n", r.Breed))
	b.WriteString(r.FormatHeader())
	b.WriteString("\n")
	b.WriteString(FormatRecipesDetailed(r.Recipes))

	return b.String()
}

// FormatCompact returns a short multi-line rendering of the breed result
func (r *BreedResult) FormatCompact() string {
	var b strings.Builder

	b.WriteString(r.Summary())
	b.WriteString("\n")
	for i := range r.Recipes {
		b.WriteString("  ")
		b.WriteString(r.Recipes[i].FormatCompact())
		b.WriteString("\n")
	}

	return b.String()
}

// FormatRecipesDetailed renders a batch of recipe cards, separated by blank
// lines. An empty batch renders a placeholder line.
func FormatRecipesDetailed(cards []RecipeCard) string {
	if len(cards) == 0 {
		return "Recipes: (none)\n"
	}

	var b strings.Builder
	for i := range cards {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("--- Recipe %d ---\n", i+1))
		b.WriteString(cards[i].FormatDetailed())
	}
	return b.String()
}

// FormatDetailed returns every field of the recipe card. Unknown nutrition
// values are omitted rather than shown as zero.
func (c *RecipeCard) FormatDetailed() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", c.Title))
	if len(c.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(c.Tags, ", ")))
	}
	if c.Ingredients != "" {
		b.WriteString("\nIngredients:\n")
		b.WriteString(indentBlock(c.Ingredients))
	}
	if c.Instructions != "" {
		b.WriteString("\nInstructions:\n")
		b.WriteString(indentBlock(c.Instructions))
	}

	if lines := c.Nutrition.Lines(); len(lines) > 0 {
		b.WriteString("\nNutrition:\n")
		for _, line := range lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatCompact returns the recipe title, tags and known macros on one line
func (c *RecipeCard) FormatCompact() string {
	parts := []string{c.Title}
	if len(c.Tags) > 0 {
		parts = append(parts, "["+strings.Join(c.Tags, ", ")+"]")
	}
	if c.Nutrition.HasMacros() {
		parts = append(parts, c.Nutrition.MacroSummary())
	}
	return strings.Join(parts, " ")
}

// Lines returns one display line per known nutrition value, in the order
// calories, protein, fat, carbs, micronutrients.
func (n NutritionInfo) Lines() []string {
	var lines []string
	if n.Calories != nil {
		lines = append(lines, "Calories: "+formatAmount(*n.Calories)+" kcal")
	}
	if n.Protein != nil {
		lines = append(lines, "Protein: "+formatAmount(*n.Protein)+"g")
	}
	if n.Fat != nil {
		lines = append(lines, "Fat: "+formatAmount(*n.Fat)+"g")
	}
	if n.Carbs != nil {
		lines = append(lines, "Carbs: "+formatAmount(*n.Carbs)+"g")
	}
	if n.Micronutrients != nil && strings.TrimSpace(*n.Micronutrients) != "" {
		lines = append(lines, "Micronutrients: "+strings.TrimSpace(*n.Micronutrients))
	}
	return lines
}

// MacroSummary returns the known macros joined with " | "
func (n NutritionInfo) MacroSummary() string {
	var parts []string
	if n.Calories != nil {
		parts = append(parts, formatAmount(*n.Calories)+" kcal")
	}
	if n.Protein != nil {
		parts = append(parts, "P "+formatAmount(*n.Protein)+"g")
	}
	if n.Fat != nil {
		parts = append(parts, "F "+formatAmount(*n.Fat)+"g")
	}
	if n.Carbs != nil {
		parts = append(parts, "C "+formatAmount(*n.Carbs)+"g")
	}
	return strings.Join(parts, " | ")
}

// formatAmount drops a trailing ".0" so 350 renders as "350" and 12.5 as "12.5"
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func indentBlock(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(strings.TrimRight(line, " \t"))
		b.WriteString("\n")
	}
	return b.String()
}
