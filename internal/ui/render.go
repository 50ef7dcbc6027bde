package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/petpalapi"
)

// RenderBreedResult renders the breed header box followed by the recipe cards
func RenderBreedResult(r *petpalapi.BreedResult, ageGroup string, width int) string {
	width = clampWidth(width)

	lines := []string{
		"",
		BreedTitleStyle.Render("   🐕 " + r.Breed),
		"",
	}

	details := map[string]string{
		"Confidence": petpalapi.FormatConfidence(r.Confidence),
	}
	if r.Species != "" {
		details["Species"] = r.Species
	}
	if ageGroup != "" {
		details["Age group"] = petpalapi.AgeGroupLabel(ageGroup)
	}
	lines = append(lines, (&Result{Details: details}).renderDetails(), "")

	header := ResultBoxStyle(width, PrimaryColor).Render(strings.Join(lines, "\n"))

	return header + "\n\n" + RenderRecipeList(r.Breed, r.Recipes, width)
}

// RenderRecipeList renders "Personalized Recipes (n)" and one card per recipe
func RenderRecipeList(breed string, cards []petpalapi.RecipeCard, width int) string {
	width = clampWidth(width)

	var b strings.Builder
	b.WriteString(SectionLabelStyle.Render(fmt.Sprintf("  Personalized Recipes (%d)", len(cards))))
	b.WriteString("\n")

	if len(cards) == 0 {
		b.WriteString(StepNoteStyle.Render(
			fmt.Sprintf("  No recipes yet. Try: petpal recipes %q", breed)))
		return b.String()
	}

	for i := range cards {
		b.WriteString(RenderRecipeCard(&cards[i], width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderRecipeCard renders one recipe. Unknown nutrition values are left out.
func RenderRecipeCard(card *petpalapi.RecipeCard, width int) string {
	var parts []string

	parts = append(parts, RecipeTitleStyle.Render(card.Title))

	if len(card.Tags) > 0 {
		tags := make([]string, len(card.Tags))
		for i, tag := range card.Tags {
			tags[i] = RecipeTagStyle.Render("#" + tag)
		}
		parts = append(parts, strings.Join(tags, " "))
	}

	if text := strings.TrimSpace(card.Ingredients); text != "" {
		parts = append(parts, "", SectionLabelStyle.Render("Ingredients:"), BodyStyle.Render(text))
	}
	if text := strings.TrimSpace(card.Instructions); text != "" {
		parts = append(parts, "", SectionLabelStyle.Render("Instructions:"), BodyStyle.Render(text))
	}
	if lines := card.Nutrition.Lines(); len(lines) > 0 {
		parts = append(parts, "", SectionLabelStyle.Render("Nutrition:"))
		for _, line := range lines {
			parts = append(parts, "  "+BodyStyle.Render(line))
		}
	}

	return CardBoxStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// RenderMarkdown renders assistant markdown for the terminal. The raw text
// is returned, indented, if glamour cannot render it.
func RenderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(clampWidth(width)-4),
	)
	if err != nil {
		return "  " + content
	}

	out, err := r.Render(content)
	if err != nil {
		return "  " + content
	}
	return strings.Trim(out, "\n")
}
