package petpalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/petpal/internal/logging"
	"github.com/muurk/petpal/internal/urls"
	"github.com/muurk/petpal/internal/version"
)

const (
	// DefaultBaseURL is the hosted PetPal inference service
	DefaultBaseURL = urls.ServiceURL

	// DefaultImageTimeout bounds the image analysis call only
	DefaultImageTimeout = 60 * time.Second

	// RequestIDHeader carries a per-request UUID for log correlation
	RequestIDHeader = "X-Request-ID"
)

// Remote operation names, matching the service paths
const (
	OpPredictImage   = "predict_dog_breed_image"
	OpPredictText    = "predict_dog_breed_text"
	OpGetRecipes     = "get_recipes"
	OpMoreRecipes    = "generate_more_recipes"
	OpChatbot        = "chatbot"
	OpDietaryOptions = "dietary_options"
	OpAgeGroups      = "age_groups"
	OpPopularBreeds  = "popular_breeds"
	OpHealth         = "health"
)

// Client is an HTTP client for the PetPal inference service.
// Every method performs exactly one round trip: there is no retry and no
// response caching.
type Client struct {
	// BaseURL is the service root, e.g. "https://priaansh-petpal.hf.space"
	BaseURL string

	// HTTPClient is the underlying HTTP client. Its Timeout (zero by default)
	// applies to every call.
	HTTPClient *http.Client

	// ImageTimeout bounds PredictBreedFromImage; zero disables it
	ImageTimeout time.Duration

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the hosted service
func NewClient() *Client {
	return NewClientWithURL(DefaultBaseURL)
}

// NewClientWithURL creates a client for the service at baseURL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{},
		ImageTimeout: DefaultImageTimeout,
		UserAgent:    version.UserAgent(),
	}
}

// SetTimeout sets the default timeout applied to every request
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetImageTimeout sets the timeout used only for image analysis
func (c *Client) SetImageTimeout(timeout time.Duration) {
	c.ImageTimeout = timeout
}

// PredictBreedFromImage uploads an image and returns breed candidates, each
// with its recipe batch. An empty slice means no breed was detected; it is
// not an error.
func (c *Client) PredictBreedFromImage(ctx context.Context, file ImageFile, dietaryOptions, ageGroup string) ([]BreedResult, error) {
	if len(file.Data) == 0 {
		return nil, ErrEmptyImage
	}

	if c.ImageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ImageTimeout)
		defer cancel()
	}

	body, contentType, err := buildImageForm(file, dietaryOptions, ageGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	logging.Debug("Uploading image",
		zap.String("file_name", file.Name),
		zap.String("content_type", file.ContentType),
		zap.Int("size", file.Size()),
		zap.String("dietary_options", dietaryOptions),
		zap.String("age_group", normalizeAgeGroup(ageGroup)),
	)

	var results []BreedResult
	if err := c.do(ctx, OpPredictImage, http.MethodPost, body, contentType, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []BreedResult{}
	}
	return results, nil
}

// PredictBreedFromText looks up a breed by name and returns it with recipes
func (c *Client) PredictBreedFromText(ctx context.Context, breed, dietaryOptions, ageGroup string) (*BreedResult, error) {
	form := breedFormData(breed, dietaryOptions, ageGroup)

	var result BreedResult
	if err := c.postForm(ctx, OpPredictText, form.Encode(), &result); err != nil {
		return nil, err
	}
	if result.Recipes == nil {
		result.Recipes = []RecipeCard{}
	}
	return &result, nil
}

// GetRecipes fetches one batch of recipes for a breed
func (c *Client) GetRecipes(ctx context.Context, query RecipeQuery) ([]RecipeCard, error) {
	return c.recipes(ctx, OpGetRecipes, query)
}

// GenerateMoreRecipes asks the service for a freshly generated batch.
// The client contract is identical to GetRecipes; only the endpoint differs.
func (c *Client) GenerateMoreRecipes(ctx context.Context, query RecipeQuery) ([]RecipeCard, error) {
	return c.recipes(ctx, OpMoreRecipes, query)
}

func (c *Client) recipes(ctx context.Context, op string, query RecipeQuery) ([]RecipeCard, error) {
	var cards []RecipeCard
	if err := c.postForm(ctx, op, query.ToFormData().Encode(), &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []RecipeCard{}
	}
	return cards, nil
}

// AskChatbot sends one question about a breed. No conversation history is
// sent; each call stands alone.
func (c *Client) AskChatbot(ctx context.Context, breed, question string) (*ChatbotResponse, error) {
	payload, err := json.Marshal(ChatbotRequest{Breed: breed, Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chatbot request: %w", err)
	}

	var resp ChatbotResponse
	if err := c.do(ctx, OpChatbot, http.MethodPost, bytes.NewReader(payload), "application/json", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetDietaryOptions lists the dietary tags the service understands
func (c *Client) GetDietaryOptions(ctx context.Context) ([]string, error) {
	var options []string
	if err := c.get(ctx, OpDietaryOptions, &options); err != nil {
		return nil, err
	}
	return options, nil
}

// GetAgeGroups lists the age-group tokens the service understands
func (c *Client) GetAgeGroups(ctx context.Context) ([]string, error) {
	var groups []string
	if err := c.get(ctx, OpAgeGroups, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetPopularBreeds returns popular breed names mapped to short descriptions
func (c *Client) GetPopularBreeds(ctx context.Context) (map[string]string, error) {
	breeds := map[string]string{}
	if err := c.get(ctx, OpPopularBreeds, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}

// HealthCheck returns the service's health payload. It is diagnostic only.
func (c *Client) HealthCheck(ctx context.Context) (HealthStatus, error) {
	status := HealthStatus{}
	if err := c.get(ctx, OpHealth, &status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, op string, out any) error {
	return c.do(ctx, op, http.MethodGet, nil, "", out)
}

func (c *Client) postForm(ctx context.Context, op, encoded string, out any) error {
	return c.do(ctx, op, http.MethodPost, strings.NewReader(encoded), "application/x-www-form-urlencoded", out)
}

// do performs a single request against BaseURL/op and decodes a JSON
// response into out.
func (c *Client) do(ctx context.Context, op, method string, body io.Reader, contentType string, out any) error {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/"+op, body)
	if err != nil {
		return &RequestError{
			Type:      ErrTypeNetwork,
			Operation: op,
			Message:   "failed to create request",
			RequestID: requestID,
			Err:       err,
		}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogAPIRequest(requestID, method, op)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		reqErr := classifyTransportError(op, err)
		reqErr.RequestID = requestID
		logging.LogAPIFailure(requestID, op, reqErr.Type.String(), err)
		return reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		reqErr := classifyTransportError(op, err)
		reqErr.Message = "failed to read response body"
		reqErr.RequestID = requestID
		logging.LogAPIFailure(requestID, op, reqErr.Type.String(), err)
		return reqErr
	}

	logging.LogAPIResponse(requestID, op, resp.StatusCode, len(data), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := newHTTPError(op, resp.StatusCode, data)
		reqErr.RequestID = requestID
		return reqErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		reqErr := newParseError(op, err)
		reqErr.RequestID = requestID
		return reqErr
	}

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildImageForm encodes the multipart body for image analysis. The file
// part carries the sniffed content type rather than application/octet-stream.
func buildImageForm(file ImageFile, dietaryOptions, ageGroup string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := file.Name
	if name == "" {
		name = "image"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}

	if dietaryOptions != "" {
		if err := w.WriteField("dietary_options", dietaryOptions); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("age_group", normalizeAgeGroup(ageGroup)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
