package session

import (
	"fmt"
	"sort"
)

// Mode is the active input tab
type Mode int

const (
	// ModeImage identifies a breed from an uploaded photo
	ModeImage Mode = iota
	// ModeTextSearch looks a breed up by name
	ModeTextSearch
	// ModeGeneralChat is free-form chat with no breed result
	ModeGeneralChat
)

// Modes lists every mode in tab order
var Modes = []Mode{ModeImage, ModeTextSearch, ModeGeneralChat}

// String returns a human-readable name for the mode
func (m Mode) String() string {
	switch m {
	case ModeImage:
		return "Image"
	case ModeTextSearch:
		return "TextSearch"
	case ModeGeneralChat:
		return "GeneralChat"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Label returns the tab title for the mode
func (m Mode) Label() string {
	switch m {
	case ModeImage:
		return "Upload Image"
	case ModeTextSearch:
		return "Search by Breed"
	case ModeGeneralChat:
		return "General Chat"
	default:
		return m.String()
	}
}

// Phase is the position of a mode's breed workflow
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFileSelected
	PhaseAnalyzing
	PhaseResultReady
	PhaseGeneratingMore
)

// String returns a human-readable name for the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseFileSelected:
		return "FileSelected"
	case PhaseAnalyzing:
		return "Analyzing"
	case PhaseResultReady:
		return "ResultReady"
	case PhaseGeneratingMore:
		return "GeneratingMore"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Transition is one legal phase change within a mode
type Transition struct {
	Mode Mode
	From Phase
	To   Phase
}

func (t Transition) String() string {
	return fmt.Sprintf("%s: %s -> %s", t.Mode, t.From, t.To)
}

// transitions is the complete table of legal phase changes. Mode switches
// are resets, not transitions, and are not listed. General chat has no
// breed workflow and therefore no entries.
var transitions = map[Transition]struct{}{
	// image: select, then analyze
	{ModeImage, PhaseIdle, PhaseFileSelected}:          {},
	{ModeImage, PhaseFileSelected, PhaseFileSelected}:  {}, // swap image
	{ModeImage, PhaseResultReady, PhaseFileSelected}:   {}, // new image after a result
	{ModeImage, PhaseFileSelected, PhaseAnalyzing}:     {},
	{ModeImage, PhaseAnalyzing, PhaseResultReady}:      {},
	{ModeImage, PhaseAnalyzing, PhaseFileSelected}:     {}, // empty result or failure
	{ModeImage, PhaseResultReady, PhaseGeneratingMore}: {},
	{ModeImage, PhaseGeneratingMore, PhaseResultReady}: {},

	// text search: submit goes straight to analyzing
	{ModeTextSearch, PhaseIdle, PhaseAnalyzing}:             {},
	{ModeTextSearch, PhaseResultReady, PhaseAnalyzing}:      {}, // new search after a result
	{ModeTextSearch, PhaseAnalyzing, PhaseResultReady}:      {},
	{ModeTextSearch, PhaseAnalyzing, PhaseIdle}:             {}, // failure before any result
	{ModeTextSearch, PhaseResultReady, PhaseGeneratingMore}: {},
	{ModeTextSearch, PhaseGeneratingMore, PhaseResultReady}: {},
}

// CanTransition reports whether from -> to is legal in mode
func CanTransition(mode Mode, from, to Phase) bool {
	_, ok := transitions[Transition{Mode: mode, From: from, To: to}]
	return ok
}

// Transitions returns the legal transition table in a stable order
func Transitions() []Transition {
	list := make([]Transition, 0, len(transitions))
	for t := range transitions {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Mode != b.Mode {
			return a.Mode < b.Mode
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return list
}
