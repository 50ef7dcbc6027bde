package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/muurk/petpal/internal/petpalapi"
)

// Format selects how command results are printed
type Format string

const (
	FormatDetailed Format = "detailed"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
)

// Formats lists the accepted --format values
var Formats = []Format{FormatDetailed, FormatCompact, FormatJSON}

// ParseFormat validates a --format value. Empty means detailed.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatDetailed, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q (expected detailed, compact or json)", s)
}

// Printer provides methods for printing UI components to a writer.
// This is the primary way commands should output results. In JSON format
// the decorative boxes are suppressed so stdout stays machine-readable.
type Printer struct {
	out    io.Writer
	width  int
	format Format
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		format: FormatDetailed,
	}
}

// SetFormat sets the output format
func (p *Printer) SetFormat(f Format) *Printer {
	p.format = f
	return p
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintLines writes multiple lines
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	if p.format == FormatJSON {
		return
	}
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	if p.format == FormatJSON {
		return
	}
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details map[string]string) {
	if p.format == FormatJSON {
		return
	}
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintError prints a failure box with troubleshooting tips for err.
// Failures are printed in every format.
func (p *Printer) PrintError(title string, err error) {
	p.Println(NewErrorResult(title, err).SetWidth(p.width).Render())
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// breedResultJSON adds the requested age group to the wire result
type breedResultJSON struct {
	*petpalapi.BreedResult
	AgeGroup string `json:"age_group,omitempty"`
}

// PrintBreedResult prints an identification result with its recipe batch
func (p *Printer) PrintBreedResult(r *petpalapi.BreedResult, ageGroup string) error {
	switch p.format {
	case FormatJSON:
		return p.PrintJSON(breedResultJSON{BreedResult: r, AgeGroup: ageGroup})
	case FormatCompact:
		p.Print(r.FormatCompact())
	default:
		p.Println(RenderBreedResult(r, ageGroup, p.width))
	}
	return nil
}

// PrintRecipes prints a standalone recipe batch for breed
func (p *Printer) PrintRecipes(breed string, cards []petpalapi.RecipeCard) error {
	switch p.format {
	case FormatJSON:
		if cards == nil {
			cards = []petpalapi.RecipeCard{}
		}
		return p.PrintJSON(struct {
			Breed   string                 `json:"breed"`
			Recipes []petpalapi.RecipeCard `json:"recipes"`
		}{breed, cards})
	case FormatCompact:
		for i := range cards {
			p.Println(cards[i].FormatCompact())
		}
	default:
		p.Println(RenderRecipeList(breed, cards, p.width))
	}
	return nil
}

// PrintAnswer prints an assistant answer. Detailed output renders the
// answer as markdown.
func (p *Printer) PrintAnswer(topic, question, answer string) error {
	switch p.format {
	case FormatJSON:
		return p.PrintJSON(struct {
			Topic    string `json:"topic"`
			Question string `json:"question"`
			Answer   string `json:"answer"`
		}{topic, question, answer})
	case FormatCompact:
		p.Println(strings.TrimSpace(answer))
	default:
		p.Println(SectionLabelStyle.Render("  PetPal (" + topic + "):"))
		p.Println(RenderMarkdown(answer, p.width))
	}
	return nil
}

// PrintList prints a catalog list such as dietary options or age groups
func (p *Printer) PrintList(title string, items []string) error {
	switch p.format {
	case FormatJSON:
		if items == nil {
			items = []string{}
		}
		return p.PrintJSON(items)
	case FormatCompact:
		p.PrintLines(items...)
	default:
		p.Println(SectionLabelStyle.Render(title + ":"))
		for _, item := range items {
			p.Println("  • " + BodyStyle.Render(item))
		}
	}
	return nil
}

// PrintBreedLinks prints the popular breeds catalog, sorted by name
func (p *Printer) PrintBreedLinks(breeds map[string]string) error {
	if p.format == FormatJSON {
		if breeds == nil {
			breeds = map[string]string{}
		}
		return p.PrintJSON(breeds)
	}

	names := sortedKeys(breeds)
	if p.format == FormatCompact {
		p.PrintLines(names...)
		return nil
	}

	p.Println(SectionLabelStyle.Render("Popular Breeds:"))
	for _, name := range names {
		line := "  • " + BodyStyle.Render(name)
		if link := breeds[name]; link != "" && link != name {
			line += " " + StepNoteStyle.Render("("+link+")")
		}
		p.Println(line)
	}
	return nil
}

// PrintHealth prints the service health payload
func (p *Printer) PrintHealth(status petpalapi.HealthStatus) error {
	if p.format == FormatJSON {
		if status == nil {
			status = petpalapi.HealthStatus{}
		}
		return p.PrintJSON(status)
	}

	details := make(map[string]string, len(status))
	for key, value := range status {
		details[key] = fmt.Sprint(value)
	}

	if p.format == FormatCompact {
		for _, key := range sortedKeys(details) {
			p.Println(key + ": " + details[key])
		}
		return nil
	}

	p.PrintSuccess("Service is reachable", details)
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
