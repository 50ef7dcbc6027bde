package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

// renderResult renders the breed header, the recipe cards and the
// generate-more action for the stored result.
func renderResult(s Styles, state session.State, width int) string {
	if state.Result == nil {
		return ""
	}
	result := state.Result

	var header strings.Builder
	header.WriteString(s.SuccessText.Render("🐕 " + result.Breed))
	header.WriteString("\n")
	if result.Species != "" {
		header.WriteString(fmt.Sprintf("Species:    %s\n", result.Species))
	}
	header.WriteString(fmt.Sprintf("Confidence: %s\n", petpalapi.FormatConfidence(result.Confidence)))
	header.WriteString(fmt.Sprintf("Age group:  %s", petpalapi.AgeGroupLabel(state.AgeGroup)))

	var b strings.Builder
	b.WriteString(s.ResultBox.Width(width - 4).Render(header.String()))
	b.WriteString("\n")

	b.WriteString(s.Section.Render(fmt.Sprintf("Personalized Recipes (%d)", len(state.Recipes))))
	b.WriteString("\n")

	if len(state.Recipes) == 0 {
		b.WriteString(s.Muted.Render("No recipes yet."))
		b.WriteString("\n")
	}
	for i := range state.Recipes {
		b.WriteString(renderRecipeCard(s, &state.Recipes[i], width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderGenerateAction(s, state))
	b.WriteString("\n")

	return b.String()
}

// GenerateActionLabel names the generate-more action for the current batch
func GenerateActionLabel(state session.State) string {
	if len(state.Recipes) == 0 {
		return "Generate Recipes"
	}
	return "Generate More Recipes"
}

func renderGenerateAction(s Styles, state session.State) string {
	label := "ctrl+g  " + GenerateActionLabel(state)
	if !state.CanGenerateMore() {
		return s.Muted.Render(label)
	}
	return s.SelectedMenuItem.Render(label)
}

// renderRecipeCard renders one card. Unknown nutrition values are left out.
func renderRecipeCard(s Styles, card *petpalapi.RecipeCard, width int) string {
	var b strings.Builder

	b.WriteString(s.CardTitle.Render(card.Title))
	if len(card.Tags) > 0 {
		tags := make([]string, len(card.Tags))
		for i, tag := range card.Tags {
			tags[i] = "#" + tag
		}
		b.WriteString("\n")
		b.WriteString(s.Tag.Render(strings.Join(tags, " ")))
	}

	if card.Ingredients != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Ingredients"))
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(card.Ingredients, "\n"))
	}
	if card.Instructions != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Instructions"))
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(card.Instructions, "\n"))
	}

	if lines := card.Nutrition.Lines(); len(lines) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Nutrition"))
		for _, line := range lines {
			b.WriteString("\n")
			b.WriteString(s.Muted.Render("• " + line))
		}
	}

	return s.Card.Width(width - 4).Render(b.String())
}
