package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

// ImagePickerModel is the path entry for the image tab
type ImagePickerModel struct {
	Input textinput.Model
}

// NewImagePicker creates the path input
func NewImagePicker() ImagePickerModel {
	input := textinput.New()
	input.Placeholder = "~/Pictures/dog.jpg"
	input.Prompt = "📁 "
	input.CharLimit = 4096
	input.Width = 60

	return ImagePickerModel{Input: input}
}

// Update forwards key input to the path field
func (m ImagePickerModel) Update(msg tea.Msg) (ImagePickerModel, tea.Cmd) {
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// Path returns the typed path, or "" when nothing was entered
func (m ImagePickerModel) Path() string {
	return strings.TrimSpace(m.Input.Value())
}

// View renders the input and the currently selected file
func (m ImagePickerModel) View(s Styles, state session.State, width int) string {
	var b strings.Builder

	b.WriteString(s.Section.Render("Upload Dog Image"))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render("Enter the path to a photo of a dog (JPEG, PNG, WebP...)"))
	b.WriteString("\n\n")

	m.Input.Width = width - 8
	b.WriteString(m.Input.View())
	b.WriteString("\n")

	if state.File != nil {
		b.WriteString("\n")
		b.WriteString(s.SuccessText.Render("📷 " + FormatImageFile(*state.File)))
		b.WriteString("\n")
		if state.CanAnalyze() {
			b.WriteString(s.Muted.Render("Press ctrl+r to analyze this image"))
			b.WriteString("\n")
		}
	} else if !state.Loading {
		b.WriteString(s.Muted.Render("Press enter to select the file"))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatImageFile renders "name (type, size)" for a selected image
func FormatImageFile(f petpalapi.ImageFile) string {
	return fmt.Sprintf("%s (%s, %s)", f.Name, f.ContentType, humanize.Bytes(uint64(f.Size())))
}
