package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/muurk/petpal/internal/session"
)

// maxSuggestions caps the breed list shown under the search field
const maxSuggestions = 8

// BreedSearchModel is the breed-name entry for the text tab. Popular breeds
// from the catalog are offered as suggestions and filtered as the user types.
type BreedSearchModel struct {
	Input       textinput.Model
	Suggestions []string
	Cursor      int // -1 when no suggestion is highlighted

	popular []string
}

// NewBreedSearch creates the search input
func NewBreedSearch() BreedSearchModel {
	input := textinput.New()
	input.Placeholder = "Enter dog breed name (e.g., Golden Retriever)"
	input.Prompt = "🔍 "
	input.CharLimit = 100
	input.Width = 60

	return BreedSearchModel{Input: input, Cursor: -1}
}

// SetPopular replaces the breed list suggestions are drawn from
func (m *BreedSearchModel) SetPopular(breeds map[string]string) {
	names := make([]string, 0, len(breeds))
	for name := range breeds {
		names = append(names, name)
	}
	sort.Strings(names)
	m.popular = names
	m.refresh()
}

// Update forwards key input to the field and refilters suggestions
func (m BreedSearchModel) Update(msg tea.Msg) (BreedSearchModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "down":
			if len(m.Suggestions) > 0 {
				m.Cursor = (m.Cursor + 1) % len(m.Suggestions)
			}
			return m, nil
		case "up":
			if len(m.Suggestions) > 0 {
				if m.Cursor <= 0 {
					m.Cursor = len(m.Suggestions) - 1
				} else {
					m.Cursor--
				}
			}
			return m, nil
		}
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// Query returns the breed to search: the highlighted suggestion when there
// is one, otherwise the typed text.
func (m BreedSearchModel) Query() string {
	if m.Cursor >= 0 && m.Cursor < len(m.Suggestions) {
		return m.Suggestions[m.Cursor]
	}
	return strings.TrimSpace(m.Input.Value())
}

// Accept copies the searched breed into the field, as clicking a popular
// breed does, and clears the highlight.
func (m *BreedSearchModel) Accept(breed string) {
	m.Input.SetValue(breed)
	m.Input.CursorEnd()
	m.Cursor = -1
	m.refresh()
}

func (m *BreedSearchModel) refresh() {
	m.Suggestions = FilterBreeds(m.popular, m.Input.Value())
	if m.Cursor >= len(m.Suggestions) {
		m.Cursor = -1
	}
}

// FilterBreeds returns breeds matching query, best match first. An empty
// query returns the first breeds unfiltered. Matching is fuzzy and
// case-insensitive, falling back to a substring match.
func FilterBreeds(breeds []string, query string) []string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return limit(breeds, maxSuggestions)
	}

	ranks := fuzzy.RankFindNormalizedFold(trimmed, breeds)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		matches := make([]string, 0, len(ranks))
		for _, rank := range ranks {
			matches = append(matches, rank.Target)
		}
		return limit(matches, maxSuggestions)
	}

	lower := strings.ToLower(trimmed)
	var matches []string
	for _, breed := range breeds {
		if strings.Contains(strings.ToLower(breed), lower) {
			matches = append(matches, breed)
		}
	}
	return limit(matches, maxSuggestions)
}

func limit(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string(nil), list...)
}

// View renders the field and the suggestion list
func (m BreedSearchModel) View(s Styles, state session.State, width int) string {
	var b strings.Builder

	b.WriteString(s.Section.Render("Search by Breed"))
	b.WriteString("\n\n")

	m.Input.Width = width - 8
	b.WriteString(m.Input.View())
	b.WriteString("\n")

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		label := "Popular Breeds:"
		if strings.TrimSpace(m.Input.Value()) != "" {
			label = "Matching Breeds:"
		}
		b.WriteString(s.Muted.Render(label))
		b.WriteString("\n")
		for i, breed := range m.Suggestions {
			b.WriteString(s.RenderMenuItem(breed, i == m.Cursor))
			b.WriteString("\n")
		}
	} else if !state.Catalog.Loaded {
		b.WriteString(s.Muted.Render("Popular breeds unavailable"))
		b.WriteString("\n")
	}

	return b.String()
}
