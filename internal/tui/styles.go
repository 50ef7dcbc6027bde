package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/urls"
	"github.com/muurk/petpal/internal/version"
)

// Application branding constants
const (
	AppName = "PETPAL"
	Tagline = "AI-powered dog breed identification and personalized nutrition"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
	chromeHeight     = 6   // outer border + header + footer lines
)

// Palette is the set of colors a theme is built from
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Text       lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color
	Background lipgloss.Color
}

// DarkPalette is the default theme
var DarkPalette = Palette{
	Primary:    lipgloss.Color("#7D56F4"), // Purple
	Secondary:  lipgloss.Color("#43BF6D"), // Green
	Accent:     lipgloss.Color("#FF8B94"), // Pink
	Warning:    lipgloss.Color("#FFA500"), // Orange
	Error:      lipgloss.Color("#FF0000"), // Red
	Text:       lipgloss.Color("#FFFFFF"),
	Subtle:     lipgloss.Color("#626262"),
	Border:     lipgloss.Color("#7D56F4"),
	Highlight:  lipgloss.Color("#43BF6D"),
	Background: lipgloss.Color("#1A1A1A"),
}

// LightPalette is used when dark mode is off
var LightPalette = Palette{
	Primary:    lipgloss.Color("#5A3FC0"),
	Secondary:  lipgloss.Color("#1E8A44"),
	Accent:     lipgloss.Color("#C2185B"),
	Warning:    lipgloss.Color("#B36B00"),
	Error:      lipgloss.Color("#C62828"),
	Text:       lipgloss.Color("#1A1A1A"),
	Subtle:     lipgloss.Color("#8A8A8A"),
	Border:     lipgloss.Color("#5A3FC0"),
	Highlight:  lipgloss.Color("#1E8A44"),
	Background: lipgloss.Color("#F5F5F5"),
}

// Styles holds every lipgloss style the screens use, derived from a Palette
type Styles struct {
	Palette Palette
	Dark    bool

	Title            lipgloss.Style
	Subtitle         lipgloss.Style
	Section          lipgloss.Style
	MenuItem         lipgloss.Style
	SelectedMenuItem lipgloss.Style
	Help             lipgloss.Style
	InfoBox          lipgloss.Style
	Spinner          lipgloss.Style
	Status           lipgloss.Style
	Tab              lipgloss.Style
	ActiveTab        lipgloss.Style
	Chip             lipgloss.Style
	SelectedChip     lipgloss.Style
	Card             lipgloss.Style
	CardTitle        lipgloss.Style
	Tag              lipgloss.Style
	Muted            lipgloss.Style
	ResultBox        lipgloss.Style
	ErrorBox         lipgloss.Style
	WarningBox       lipgloss.Style
	SuccessText      lipgloss.Style
	ErrorText        lipgloss.Style
	UserLabel        lipgloss.Style
	BotLabel         lipgloss.Style
	FocusedInput     lipgloss.Style
	BlurredInput     lipgloss.Style
}

// NewStyles builds the style set for a palette
func NewStyles(p Palette, dark bool) Styles {
	return Styles{
		Palette: p,
		Dark:    dark,

		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Italic(true),

		Section: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginTop(1),

		MenuItem: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(p.Text),

		SelectedMenuItem: lipgloss.NewStyle().
			Foreground(p.Highlight).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(p.Subtle),

		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(p.Primary),

		Status: lipgloss.NewStyle().
			Foreground(p.Primary).
			Italic(true),

		Tab: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Bold(true).
			Padding(0, 2),

		Chip: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Subtle).
			Padding(0, 1),

		SelectedChip: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Secondary).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1).
			MarginTop(1),

		CardTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Tag: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(p.Subtle),

		ResultBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Secondary).
			Padding(0, 2),

		ErrorBox: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Padding(1, 2),

		WarningBox: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Warning).
			Padding(1, 2),

		SuccessText: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),

		ErrorText: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		BotLabel: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),

		FocusedInput: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		BlurredInput: lipgloss.NewStyle().
			Foreground(p.Subtle),
	}
}

// StylesFor returns the style set for the current theme
func StylesFor(dark bool) Styles {
	if dark {
		return NewStyles(DarkPalette, true)
	}
	return NewStyles(LightPalette, false)
}

// RenderMenuItem renders a menu item with selection indicator
func (s Styles) RenderMenuItem(text string, selected bool) string {
	if selected {
		return s.SelectedMenuItem.Render("→ " + text)
	}
	return s.MenuItem.Render(text)
}

// BuildHeaderContent creates header content with app name, API status and service URL
func (s Styles) BuildHeaderContent(apiStatus string) string {
	left := lipgloss.NewStyle().
		Foreground(s.Palette.Text).
		Bold(true).
		Render("🐾 " + AppName + " v" + AppVersion())

	right := s.Muted.Render(urls.ServiceHost)
	if apiStatus != "" {
		right = s.Muted.Render(apiStatus + "  " + urls.ServiceHost)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps a screen in the bordered full-terminal
// panel with the application header on top and help text pinned to the bottom.
func (s Styles) RenderApplicationContainer(content, apiStatus, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight <= 0 {
		terminalHeight = 24
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(s.Palette.Border).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(s.Palette.Border).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(s.BuildHeaderContent(apiStatus)),
		contentStyle.Render(content),
		footerStyle.Render(s.Help.Render(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Palette.Border).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}

// RenderModal centers modalContent on an otherwise dimmed screen
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth returns the smaller of requestedWidth and what fits the terminal
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// ContentWidth returns the usable width inside the container, capped at MaxContentWidth
func ContentWidth(terminalWidth int) int {
	w := terminalWidth - 6
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}
