package classifier

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is where the recommendation service listens unless
	// configured otherwise.
	DefaultEndpoint = "http://localhost:8081/api/v1/recommend"

	// DefaultTimeout bounds a single prediction call.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody limits how much of an error response ends up in logs
	// and error messages.
	maxErrorBody = 512
)

// HTTPClient calls the scene-classification service over HTTP.
type HTTPClient struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *HTTPClient) { c.token = token }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = timeout }
}

// NewHTTPClient creates a classifier client for the given endpoint.
// An empty endpoint falls back to DefaultEndpoint.
func NewHTTPClient(endpoint string, logger *slog.Logger, opts ...Option) *HTTPClient {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	c := &HTTPClient{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// predictionInputs is the request payload understood by the service.
type predictionInputs struct {
	Genre    string   `json:"genre"`
	Tags     []string `json:"tags,omitempty"`
	TagsText string   `json:"tags_text,omitempty"`
	Text     string   `json:"text,omitempty"`
	Prompt   string   `json:"prompt"`
}

type predictionRequest struct {
	Inputs predictionInputs `json:"inputs"`
}

// PredictFromTags implements Client.
func (c *HTTPClient) PredictFromTags(ctx context.Context, genre string, tags []string) (ScenePrediction, error) {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			normalized = append(normalized, t)
		}
	}

	inputs := predictionInputs{
		Genre:    genre,
		Tags:     normalized,
		TagsText: strings.Join(normalized, ", "),
		Prompt:   buildTagsPrompt(genre, normalized),
	}
	return c.predict(ctx, inputs)
}

// PredictFromText implements Client.
func (c *HTTPClient) PredictFromText(ctx context.Context, genre string, text string) (ScenePrediction, error) {
	trimmed := strings.TrimSpace(text)
	inputs := predictionInputs{
		Genre:  genre,
		Text:   trimmed,
		Prompt: buildTextPrompt(genre, trimmed),
	}
	return c.predict(ctx, inputs)
}

func (c *HTTPClient) predict(ctx context.Context, inputs predictionInputs) (ScenePrediction, error) {
	body, err := json.Marshal(predictionRequest{Inputs: inputs})
	if err != nil {
		return ScenePrediction{}, fmt.Errorf("%w: encode request: %v", ErrPrediction, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return ScenePrediction{}, fmt.Errorf("%w: create request: %v", ErrPrediction, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("classifier request",
		"endpoint", c.endpoint,
		"genre", inputs.Genre,
		"tags", len(inputs.Tags),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return ScenePrediction{}, fmt.Errorf("%w: %s unreachable: %v", ErrPrediction, c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ScenePrediction{}, fmt.Errorf("%w: read response: %v", ErrPrediction, err)
	}

	if resp.StatusCode != http.StatusOK {
		return ScenePrediction{}, fmt.Errorf("%w: service returned status %d: %s",
			ErrPrediction, resp.StatusCode, truncate(string(raw), maxErrorBody))
	}

	prediction, err := decodePrediction(raw)
	if err != nil {
		return ScenePrediction{}, err
	}

	c.logger.Debug("classifier prediction",
		"genre", inputs.Genre,
		"scene", prediction.Scene,
	)
	return prediction, nil
}

func buildTagsPrompt(genre string, tags []string) string {
	var parts []string
	if g := strings.TrimSpace(genre); g != "" {
		parts = append(parts, "Genre: "+g)
	}
	if len(tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}
	if len(parts) == 0 {
		return "Tabletop music scene"
	}
	return strings.Join(parts, ". ")
}

func buildTextPrompt(genre string, text string) string {
	var parts []string
	if g := strings.TrimSpace(genre); g != "" {
		parts = append(parts, "Genre: "+g)
	}
	if text != "" {
		parts = append(parts, "Scene description: "+text)
	}
	if len(parts) == 0 {
		return "Tabletop music scene"
	}
	return strings.Join(parts, ". ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
