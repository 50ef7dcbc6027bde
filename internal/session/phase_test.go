package session

import "testing"

func TestTransitionTable(t *testing.T) {
	legal := []Transition{
		{ModeImage, PhaseIdle, PhaseFileSelected},
		{ModeImage, PhaseFileSelected, PhaseFileSelected},
		{ModeImage, PhaseResultReady, PhaseFileSelected},
		{ModeImage, PhaseFileSelected, PhaseAnalyzing},
		{ModeImage, PhaseAnalyzing, PhaseResultReady},
		{ModeImage, PhaseAnalyzing, PhaseFileSelected},
		{ModeImage, PhaseResultReady, PhaseGeneratingMore},
		{ModeImage, PhaseGeneratingMore, PhaseResultReady},
		{ModeTextSearch, PhaseIdle, PhaseAnalyzing},
		{ModeTextSearch, PhaseResultReady, PhaseAnalyzing},
		{ModeTextSearch, PhaseAnalyzing, PhaseResultReady},
		{ModeTextSearch, PhaseAnalyzing, PhaseIdle},
		{ModeTextSearch, PhaseResultReady, PhaseGeneratingMore},
		{ModeTextSearch, PhaseGeneratingMore, PhaseResultReady},
	}

	if got := len(Transitions()); got != len(legal) {
		t.Errorf("Transitions() has %d entries, want %d", got, len(legal))
	}

	isLegal := make(map[Transition]bool, len(legal))
	for _, tr := range legal {
		isLegal[tr] = true
	}

	phases := []Phase{PhaseIdle, PhaseFileSelected, PhaseAnalyzing, PhaseResultReady, PhaseGeneratingMore}
	for _, mode := range Modes {
		for _, from := range phases {
			for _, to := range phases {
				tr := Transition{mode, from, to}
				if got := CanTransition(mode, from, to); got != isLegal[tr] {
					t.Errorf("CanTransition(%s) = %v, want %v", tr, got, isLegal[tr])
				}
			}
		}
	}
}

func TestTextModeSkipsFileSelected(t *testing.T) {
	for _, tr := range Transitions() {
		if tr.Mode == ModeTextSearch && (tr.From == PhaseFileSelected || tr.To == PhaseFileSelected) {
			t.Errorf("text mode must not use FileSelected: %s", tr)
		}
		if tr.Mode == ModeGeneralChat {
			t.Errorf("general chat has no workflow: %s", tr)
		}
	}
}

func TestTransitions_Ordered(t *testing.T) {
	list := Transitions()
	for i := 1; i < len(list); i++ {
		a, b := list[i-1], list[i]
		if a.Mode > b.Mode || (a.Mode == b.Mode && a.From > b.From) {
			t.Errorf("Transitions() not ordered at %d: %s before %s", i, a, b)
		}
	}
}

func TestStringers(t *testing.T) {
	if ModeGeneralChat.String() != "GeneralChat" || ModeImage.Label() != "Upload Image" {
		t.Error("mode names changed")
	}
	if PhaseGeneratingMore.String() != "GeneratingMore" {
		t.Error("phase names changed")
	}
	if NoticeEmptyResult.String() != "EmptyResult" {
		t.Error("notice kind names changed")
	}
	if OpGenerateMore.String() != "generate_more" {
		t.Error("operation names changed")
	}
}
