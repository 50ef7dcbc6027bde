package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

func sampleResult() *petpalapi.BreedResult {
	cal := 350.0
	return &petpalapi.BreedResult{
		Breed:      "Beagle",
		Species:    "dog",
		Confidence: 0.94,
		Recipes: []petpalapi.RecipeCard{{
			Title:        "Chicken Rice",
			Tags:         []string{"grain-free"},
			Ingredients:  "chicken\nrice",
			Instructions: "boil",
			Nutrition:    petpalapi.NutritionInfo{Calories: &cal},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatDetailed, false},
		{"detailed", FormatDetailed, false},
		{"COMPACT", FormatCompact, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader("Breed Identification", "petpal identify", map[string]string{
		"Image":     "rex.jpg",
		"Age group": "Adult",
		"Dietary":   "",
	}).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"BREED IDENTIFICATION", "petpal identify", "Image:", "rex.jpg", "Age group:"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if strings.Contains(out, "Dietary:") {
		t.Error("empty parameter should be skipped")
	}
	if strings.Index(out, "Age group:") > strings.Index(out, "Image:") {
		t.Error("parameters should be listed in key order")
	}
}

func TestNewNoticeResult(t *testing.T) {
	precondition := NewNoticeResult(session.Notice{Kind: session.NoticePrecondition, Message: session.MsgEnterBreed})
	if precondition.Type != ResultWarning {
		t.Errorf("precondition Type = %v, want ResultWarning", precondition.Type)
	}

	reqErr := &petpalapi.RequestError{Type: petpalapi.ErrTypeNetwork, Operation: "predict_dog_breed_text", Message: "connection refused"}
	transport := NewNoticeResult(session.Notice{Kind: session.NoticeTransport, Message: "Error: connection refused", Err: reqErr})
	if transport.Type != ResultFailure {
		t.Errorf("transport Type = %v, want ResultFailure", transport.Type)
	}
	if len(transport.Troubleshooting) != len(petpalapi.GetTroubleshootingHint(reqErr)) {
		t.Errorf("troubleshooting = %v", transport.Troubleshooting)
	}
}

func TestResultRender_Failure(t *testing.T) {
	reqErr := &petpalapi.RequestError{Type: petpalapi.ErrTypeTimeout, Operation: "get_recipes", Message: "deadline exceeded"}
	out := NewErrorResult("Recipes failed", reqErr).SetWidth(80).Render()

	for _, want := range []string{"FAILED", "Recipes failed", "Troubleshooting:", "Try again"} {
		if !strings.Contains(out, want) {
			t.Errorf("failure box missing %q", want)
		}
	}
}

func TestPrinter_BreedResultJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetFormat(FormatJSON)

	if err := p.PrintBreedResult(sampleResult(), "senior"); err != nil {
		t.Fatalf("PrintBreedResult() error = %v", err)
	}

	var got struct {
		Breed      string  `json:"breed"`
		Confidence float64 `json:"confidence"`
		AgeGroup   string  `json:"age_group"`
		Recipes    []struct {
			Nutrition map[string]any `json:"nutrition"`
		} `json:"recipes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.Breed != "Beagle" || got.AgeGroup != "senior" || got.Confidence != 0.94 {
		t.Errorf("decoded = %+v", got)
	}
	if len(got.Recipes) != 1 || got.Recipes[0].Nutrition["protein"] != nil {
		t.Errorf("unknown protein should encode as null, got %v", got.Recipes)
	}
}

func TestPrinter_JSONSuppressesBoxes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetFormat(FormatJSON)

	p.PrintHeader("Catalog", "petpal catalog", nil)
	p.PrintSuccess("done", nil)
	if err := p.PrintList("Dietary Options", nil); err != nil {
		t.Fatal(err)
	}

	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want only []", got)
	}
}

func TestPrinter_Compact(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetFormat(FormatCompact)

	if err := p.PrintBreedResult(sampleResult(), ""); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Beagle (dog) - Confidence: 94.0%, 1 recipe(s)") {
		t.Errorf("compact summary missing:\n%s", out)
	}
	if !strings.Contains(out, "Chicken Rice [grain-free] 350 kcal") {
		t.Errorf("compact recipe missing:\n%s", out)
	}
}

func TestPrinter_BreedLinksSorted(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetFormat(FormatCompact)

	if err := p.PrintBreedLinks(map[string]string{"Pug": "pug", "Beagle": "beagle"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Beagle\nPug\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRenderRecipeCard_OmitsUnknownNutrition(t *testing.T) {
	out := RenderRecipeCard(&sampleResult().Recipes[0], 80)

	if !strings.Contains(out, "Calories: 350 kcal") {
		t.Error("known calories missing")
	}
	if strings.Contains(out, "Protein") {
		t.Error("unknown protein must not be rendered")
	}
	if !strings.Contains(out, "#grain-free") {
		t.Error("tag missing")
	}
}

func TestRenderRecipeList_Empty(t *testing.T) {
	out := RenderRecipeList("Beagle", nil, 80)
	if !strings.Contains(out, "Personalized Recipes (0)") || !strings.Contains(out, "No recipes yet") {
		t.Errorf("empty list = %q", out)
	}
}

func TestRunner_Steps(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:   "Breed Search",
		Command: "petpal search",
		Steps:   []string{"Searching breed", "Rendering"},
		Output:  &buf,
	}).SetWidth(80)

	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) error {
		onStep(1, StepRunning, "")
		onStep(1, StepComplete, "Beagle")
		onStep(2, StepSkipped, "")
		onStep(9, StepComplete, "") // out of range, ignored
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	steps := r.Steps()
	if steps[0].Status != StepComplete || steps[0].Message != "Beagle" || steps[1].Status != StepSkipped {
		t.Errorf("steps = %+v", steps)
	}
	out := buf.String()
	if !strings.Contains(out, "[1/2] Searching breed") || !strings.Contains(out, "(Beagle)") {
		t.Errorf("step line missing:\n%s", out)
	}
	if strings.Contains(out, "FAILED") {
		t.Error("success must not print a failure box")
	}
}

func TestRunner_NoticeFailure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{Title: "Breed Search", Command: "petpal search", Output: &buf}).SetWidth(80)

	notice := session.Notice{Kind: session.NoticePrecondition, Message: session.MsgEnterBreed}
	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) error {
		return NoticeErr(notice)
	})

	var noticeErr *NoticeError
	if !errors.As(err, &noticeErr) || noticeErr.Notice.Message != session.MsgEnterBreed {
		t.Fatalf("Run() error = %v, want NoticeError", err)
	}
	out := buf.String()
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, session.MsgEnterBreed) {
		t.Errorf("notice box missing:\n%s", out)
	}
}

func TestNoticeErr_Zero(t *testing.T) {
	if err := NoticeErr(session.Notice{}); err != nil {
		t.Errorf("NoticeErr(zero) = %v, want nil", err)
	}
}
