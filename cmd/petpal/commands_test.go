package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/muurk/petpal/internal/session"
	"github.com/muurk/petpal/internal/ui"
)

const mockBreedResponse = `{"breed":"Beagle","species":"dog","confidence":0.94,"recipes":[{"title":"Chicken Rice","tags":["grain-free"],"ingredients":"chicken","instructions":"boil","nutrition":{"calories":350}}]}`

// fakeService serves canned PetPal responses and records form requests
type fakeService struct {
	calls    atomic.Int32
	lastForm map[string]string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		_ = r.ParseForm()
		f.lastForm = map[string]string{}
		for k := range r.PostForm {
			f.lastForm[k] = r.PostForm.Get(k)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/predict_dog_breed_text":
		w.Write([]byte(mockBreedResponse))
	case "/get_recipes", "/generate_more_recipes":
		w.Write([]byte(`[{"title":"A"},{"title":"B"}]`))
	case "/chatbot":
		w.Write([]byte(`{"answer":"About an hour a day."}`))
	case "/dietary_options":
		w.Write([]byte(`["grain-free","low-fat"]`))
	case "/age_groups":
		w.Write([]byte(`["puppyhood","adult","senior"]`))
	case "/popular_breeds":
		w.Write([]byte(`{"Beagle":"beagle","Pug":"pug"}`))
	case "/health":
		w.Write([]byte(`{"status":"ok"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// resetFlags restores every flag to its default between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI against srv with a throwaway config path
func execute(t *testing.T, srv *httptest.Server, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	full := append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	if srv != nil {
		full = append(full, "--api-url", srv.URL)
	}
	rootCmd.SetArgs(full)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSearch_JSON(t *testing.T) {
	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	stdout, stderr, err := execute(t, srv, "search", "beagle", "--format", "json", "--age", "senior")
	if err != nil {
		t.Fatalf("search error = %v\n%s", err, stderr)
	}

	var got struct {
		Breed    string `json:"breed"`
		AgeGroup string `json:"age_group"`
		Recipes  []any  `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if got.Breed != "Beagle" || got.AgeGroup != "senior" || len(got.Recipes) != 1 {
		t.Errorf("decoded = %+v", got)
	}
	if fake.lastForm["breed"] != "beagle" || fake.lastForm["age_group"] != "senior" {
		t.Errorf("form = %v", fake.lastForm)
	}
	if !strings.Contains(stderr, "BREED SEARCH") {
		t.Error("progress should go to stderr in json format")
	}
}

func TestSearch_BlankBreedMakesNoCall(t *testing.T) {
	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	stdout, _, err := execute(t, srv, "search", "   ")

	var noticeErr *ui.NoticeError
	if !errors.As(err, &noticeErr) || noticeErr.Notice.Message != session.MsgEnterBreed {
		t.Fatalf("error = %v, want enter-breed notice", err)
	}
	if fake.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", fake.calls.Load())
	}
	if !strings.Contains(stdout, session.MsgEnterBreed) {
		t.Errorf("notice not printed:\n%s", stdout)
	}
}

func TestIdentify_MissingFile(t *testing.T) {
	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, _, err := execute(t, srv, "identify", filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Fatal("expected error for missing image")
	}
	if fake.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", fake.calls.Load())
	}
}

func TestRecipes_MoreWithDietary(t *testing.T) {
	fake := &fakeService{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	stdout, _, err := execute(t, srv, "recipes", "beagle", "--more", "--count", "2",
		"--diet", "grain-free", "--diet", "low-fat,high-protein", "--format", "compact")
	if err != nil {
		t.Fatalf("recipes error = %v", err)
	}

	if got := fake.lastForm["dietary_options"]; got != "grain-free,low-fat,high-protein" {
		t.Errorf("dietary_options = %q", got)
	}
	if fake.lastForm["count"] != "2" {
		t.Errorf("count = %q, want 2", fake.lastForm["count"])
	}
	if !strings.Contains(stdout, "A\nB\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRecipes_CountOutOfRange(t *testing.T) {
	_, _, err := execute(t, nil, "recipes", "beagle", "--count", "99")
	if err == nil || !strings.Contains(err.Error(), "--count") {
		t.Errorf("error = %v, want --count validation", err)
	}
}

func TestAsk_General(t *testing.T) {
	srv := httptest.NewServer(&fakeService{})
	defer srv.Close()

	stdout, _, err := execute(t, srv, "ask", "general", "How", "much", "exercise?", "--format", "json")
	if err != nil {
		t.Fatalf("ask error = %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if got["topic"] != "General" || got["question"] != "How much exercise?" || got["answer"] != "About an hour a day." {
		t.Errorf("answer = %v", got)
	}
}

func TestCatalog_All(t *testing.T) {
	srv := httptest.NewServer(&fakeService{})
	defer srv.Close()

	stdout, _, err := execute(t, srv, "catalog", "--format", "json")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}

	var got struct {
		DietaryOptions []string          `json:"dietary_options"`
		AgeGroups      []string          `json:"age_groups"`
		PopularBreeds  map[string]string `json:"popular_breeds"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if len(got.DietaryOptions) != 2 || len(got.AgeGroups) != 3 || len(got.PopularBreeds) != 2 {
		t.Errorf("catalog = %+v", got)
	}
}

func TestCatalog_InvalidKind(t *testing.T) {
	if _, _, err := execute(t, nil, "catalog", "cats"); err == nil {
		t.Error("expected error for unknown catalog")
	}
}

func TestConfigInitAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petpal", "config.yaml")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	resetFlags(rootCmd)
	out.Reset()
	rootCmd.SetArgs([]string{"config", "path", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("config path = %q, want %q", out.String(), path)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	if err := rootCmd.Execute(); err == nil {
		t.Error("second init without --force should fail")
	}
}
