package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

// PrefItemKind distinguishes the two rows of the preferences panel
type PrefItemKind int

const (
	PrefAgeGroup PrefItemKind = iota
	PrefDietary
)

// PrefItem is one selectable chip
type PrefItem struct {
	Kind  PrefItemKind
	Value string
}

// PreferencesModel is the age-group selector and dietary chips. The cursor
// walks age groups first, then dietary options.
type PreferencesModel struct {
	Cursor int
	Items  []PrefItem
}

// Sync rebuilds the chip list from the catalog, keeping the cursor in range
func (m *PreferencesModel) Sync(state session.State) {
	items := make([]PrefItem, 0, len(state.Catalog.DietaryOptions)+3)
	for _, group := range state.Catalog.AgeGroupChoices() {
		items = append(items, PrefItem{Kind: PrefAgeGroup, Value: group})
	}
	for _, option := range state.Catalog.DietaryOptions {
		items = append(items, PrefItem{Kind: PrefDietary, Value: option})
	}
	m.Items = items

	if m.Cursor >= len(items) {
		m.Cursor = len(items) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// Update moves the cursor. It returns the item to activate when the user
// presses space or enter, or nil.
func (m PreferencesModel) Update(msg tea.Msg) (PreferencesModel, *PrefItem) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "up", "k", "h":
		m.Cursor--
		if m.Cursor < 0 {
			m.Cursor = len(m.Items) - 1
		}
	case "right", "down", "j", "l":
		m.Cursor++
		if m.Cursor >= len(m.Items) {
			m.Cursor = 0
		}
	case " ", "enter":
		item := m.Items[m.Cursor]
		return m, &item
	}

	return m, nil
}

// View renders both rows. The cursor is drawn only while focused.
func (m PreferencesModel) View(s Styles, state session.State, focused bool, width int) string {
	var b strings.Builder

	var ages, diets []string
	for i, item := range m.Items {
		current := focused && i == m.Cursor
		switch item.Kind {
		case PrefAgeGroup:
			ages = append(ages, renderChip(s, petpalapi.AgeGroupLabel(item.Value), state.AgeGroup == item.Value, current))
		case PrefDietary:
			diets = append(diets, renderChip(s, item.Value, state.HasDietary(item.Value), current))
		}
	}

	b.WriteString(s.Section.Render("Dog's Age Group"))
	b.WriteString("\n")
	b.WriteString(wrapChips(ages, width))
	b.WriteString("\n")

	b.WriteString(s.Section.Render("Dietary Preferences"))
	b.WriteString("\n")
	if len(diets) == 0 {
		b.WriteString(s.Muted.Render("No dietary options available"))
	} else {
		b.WriteString(wrapChips(diets, width))
	}
	b.WriteString("\n")

	if summary := state.DietarySummary(); summary != "" {
		b.WriteString(s.Tag.Render(summary))
		b.WriteString("\n")
	}

	return b.String()
}

func renderChip(s Styles, label string, selected, current bool) string {
	style := s.Chip
	if selected {
		style = s.SelectedChip
		label = "✓ " + label
	}
	if current {
		style = style.Reverse(true)
	}
	return style.Render(label)
}

// wrapChips lays chips out left to right, starting a new row when width is exceeded
func wrapChips(chips []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0

	for _, chip := range chips {
		w := lipgloss.Width(chip)
		if rowWidth > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
