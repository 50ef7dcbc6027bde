package petpalapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// Minimal PNG header, enough for MIME sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

const mockBreedResponse = `{"breed":"Golden Retriever","species":"dog","confidence":0.94,"recipes":[{"title":"Chicken & Rice Bowl","tags":["grain-free"],"ingredients":"chicken\nrice","instructions":"boil","nutrition":{"calories":350,"protein":25,"fat":null,"carbs":null,"micronutrients":null}}]}`

func TestNewClient(t *testing.T) {
	client := NewClient()

	if client.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", client.BaseURL, DefaultBaseURL)
	}

	if client.ImageTimeout != 60*time.Second {
		t.Errorf("ImageTimeout = %v, want 60s", client.ImageTimeout)
	}

	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}

	if !strings.HasPrefix(client.UserAgent, "petpal/") {
		t.Errorf("UserAgent = %s, want petpal/ prefix", client.UserAgent)
	}
}

func TestNewClientWithURL_TrimsSlash(t *testing.T) {
	client := NewClientWithURL("http://localhost:7860/")

	if client.BaseURL != "http://localhost:7860" {
		t.Errorf("BaseURL = %s, want http://localhost:7860", client.BaseURL)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient()
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestPredictBreedFromImage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict_dog_breed_image" {
			t.Errorf("request = %s %s, want POST /predict_dog_breed_image", r.Method, r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}

		if got := r.FormValue("dietary_options"); got != "grain-free,low-fat" {
			t.Errorf("dietary_options = %q, want grain-free,low-fat", got)
		}
		if got := r.FormValue("age_group"); got != "puppyhood" {
			t.Errorf("age_group = %q, want puppyhood", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			return
		}
		defer file.Close()

		if header.Filename != "rex.png" {
			t.Errorf("filename = %s, want rex.png", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("part Content-Type = %s, want image/png", ct)
		}

		data, _ := io.ReadAll(file)
		if len(data) != len(pngHeader) {
			t.Errorf("uploaded %d bytes, want %d", len(data), len(pngHeader))
		}

		w.Write([]byte("[" + mockBreedResponse + "]"))
	}))
	defer server.Close()

	img, err := NewImageFile("/tmp/rex.png", pngHeader)
	if err != nil {
		t.Fatalf("NewImageFile() error = %v", err)
	}

	client := NewClientWithURL(server.URL)
	results, err := client.PredictBreedFromImage(context.Background(), img, "grain-free,low-fat", "puppyhood")
	if err != nil {
		t.Fatalf("PredictBreedFromImage() error = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Breed != "Golden Retriever" {
		t.Errorf("Breed = %s, want Golden Retriever", results[0].Breed)
	}
	if len(results[0].Recipes) != 1 {
		t.Errorf("got %d recipes, want 1", len(results[0].Recipes))
	}
}

func TestPredictBreedFromImage_OmitsEmptyDietary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}
		if _, ok := r.MultipartForm.Value["dietary_options"]; ok {
			t.Error("dietary_options should be omitted when empty")
		}
		if got := r.FormValue("age_group"); got != "adult" {
			t.Errorf("age_group = %q, want adult", got)
		}
		w.Write([]byte("null"))
	}))
	defer server.Close()

	img := ImageFile{Name: "x.png", ContentType: "image/png", Data: pngHeader}

	client := NewClientWithURL(server.URL)
	results, err := client.PredictBreedFromImage(context.Background(), img, "", "")
	if err != nil {
		t.Fatalf("PredictBreedFromImage() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil slice", results)
	}
}

func TestPredictBreedFromImage_EmptyFile(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.PredictBreedFromImage(context.Background(), ImageFile{Name: "empty.png"}, "", "")

	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
	if called {
		t.Error("server should not be called for an empty image")
	}
}

func TestPredictBreedFromImage_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	client.SetImageTimeout(50 * time.Millisecond)

	img := ImageFile{Name: "x.png", ContentType: "image/png", Data: pngHeader}
	_, err := client.PredictBreedFromImage(context.Background(), img, "", "")

	if !IsTimeoutError(err) {
		t.Errorf("error = %v, want timeout error", err)
	}
}

func TestPredictBreedFromText_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict_dog_breed_text" {
			t.Errorf("path = %s, want /predict_dog_breed_text", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s, want form encoding", ct)
		}
		r.ParseForm()
		if got := r.PostForm.Get("breed"); got != "Golden Retriever" {
			t.Errorf("breed = %q, want Golden Retriever", got)
		}
		if got := r.PostForm.Get("dietary_options"); got != "grain-free,low-fat" {
			t.Errorf("dietary_options = %q, want grain-free,low-fat", got)
		}
		if got := r.PostForm.Get("age_group"); got != "adult" {
			t.Errorf("age_group = %q, want adult", got)
		}
		w.Write([]byte(mockBreedResponse))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	result, err := client.PredictBreedFromText(context.Background(), "Golden Retriever", "grain-free,low-fat", "adult")
	if err != nil {
		t.Fatalf("PredictBreedFromText() error = %v", err)
	}

	if FormatConfidence(result.Confidence) != "94.0%" {
		t.Errorf("confidence = %s, want 94.0%%", FormatConfidence(result.Confidence))
	}

	n := result.Recipes[0].Nutrition
	if n.Calories == nil || *n.Calories != 350 {
		t.Errorf("Calories = %v, want 350", n.Calories)
	}
	if n.Fat != nil {
		t.Errorf("Fat = %v, want nil (unknown)", *n.Fat)
	}
}

func TestGetRecipes_FormFields(t *testing.T) {
	tests := []struct {
		name      string
		query     RecipeQuery
		wantCount string
		wantAge   string
		wantDiet  bool
	}{
		{"defaults", RecipeQuery{Breed: "Poodle"}, "3", "adult", false},
		{"explicit", RecipeQuery{Breed: "Poodle", DietaryOptions: "high-protein", AgeGroup: "senior", Count: 5}, "5", "senior", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/get_recipes" {
					t.Errorf("path = %s, want /get_recipes", r.URL.Path)
				}
				r.ParseForm()
				if got := r.PostForm.Get("count"); got != tt.wantCount {
					t.Errorf("count = %q, want %q", got, tt.wantCount)
				}
				if got := r.PostForm.Get("age_group"); got != tt.wantAge {
					t.Errorf("age_group = %q, want %q", got, tt.wantAge)
				}
				if _, ok := r.PostForm["dietary_options"]; ok != tt.wantDiet {
					t.Errorf("dietary_options present = %v, want %v", ok, tt.wantDiet)
				}
				w.Write([]byte(`[{"title":"A"},{"title":"B"}]`))
			}))
			defer server.Close()

			client := NewClientWithURL(server.URL)
			cards, err := client.GetRecipes(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("GetRecipes() error = %v", err)
			}
			if len(cards) != 2 {
				t.Errorf("got %d cards, want 2", len(cards))
			}
		})
	}
}

func TestGenerateMoreRecipes_Endpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_more_recipes" {
			t.Errorf("path = %s, want /generate_more_recipes", r.URL.Path)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	cards, err := client.GenerateMoreRecipes(context.Background(), RecipeQuery{Breed: "Beagle"})
	if err != nil {
		t.Fatalf("GenerateMoreRecipes() error = %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Errorf("cards = %v, want empty non-nil slice", cards)
	}
}

func TestAskChatbot_JSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		var req ChatbotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode error = %v", err)
			return
		}
		if req.Breed != "Beagle" || req.Question != "How much exercise?" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"answer":"About an hour a day."}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	resp, err := client.AskChatbot(context.Background(), "Beagle", "How much exercise?")
	if err != nil {
		t.Fatalf("AskChatbot() error = %v", err)
	}
	if resp.Answer != "About an hour a day." {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		switch r.URL.Path {
		case "/dietary_options":
			w.Write([]byte(`["grain-free","low-fat"]`))
		case "/age_groups":
			w.Write([]byte(`["puppyhood","adult","senior"]`))
		case "/popular_breeds":
			w.Write([]byte(`{"Beagle":"Friendly hound"}`))
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	ctx := context.Background()

	options, err := client.GetDietaryOptions(ctx)
	if err != nil || len(options) != 2 {
		t.Errorf("GetDietaryOptions() = %v, %v", options, err)
	}

	groups, err := client.GetAgeGroups(ctx)
	if err != nil || len(groups) != 3 {
		t.Errorf("GetAgeGroups() = %v, %v", groups, err)
	}

	breeds, err := client.GetPopularBreeds(ctx)
	if err != nil || breeds["Beagle"] != "Friendly hound" {
		t.Errorf("GetPopularBreeds() = %v, %v", breeds, err)
	}

	health, err := client.HealthCheck(ctx)
	if err != nil || health["status"] != "ok" {
		t.Errorf("HealthCheck() = %v, %v", health, err)
	}
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("X-Request-ID header missing")
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "petpal/") {
			t.Errorf("User-Agent = %s, want petpal/ prefix", ua)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	if _, err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
}

func TestHTTPError_Detail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Unknown breed"}`, "Unknown breed"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"bad age"}]}`, "field required; bad age"},
		{"no detail", http.StatusInternalServerError, `internal error`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClientWithURL(server.URL)
			_, err := client.PredictBreedFromText(context.Background(), "x", "", "")

			if !IsHTTPError(err) {
				t.Fatalf("error = %v, want HTTP error", err)
			}

			var reqErr *RequestError
			errors.As(err, &reqErr)
			if reqErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", reqErr.StatusCode, tt.status)
			}
			if reqErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", reqErr.Detail, tt.wantDetail)
			}
			if reqErr.RequestID == "" {
				t.Error("RequestID should be set")
			}
		})
	}
}

func TestParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.GetRecipes(context.Background(), RecipeQuery{Breed: "Beagle"})

	if !IsParseError(err) {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestNetworkError_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClientWithURL(url)
	_, err := client.GetDietaryOptions(context.Background())

	if !IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
}
