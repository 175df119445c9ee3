// Package youtube wraps the YouTube Data API v3 for embeddable-video search.
//
// The client is intentionally minimal: it performs a search.list request to
// retrieve candidate video IDs with videoEmbeddable=true and then verifies
// the playable status via videos.list. Only IDs confirmed playable in the
// embedded player are returned to callers.
//
// The API key is never exposed to clients of the backend; it stays inside
// outgoing requests to Google.
package youtube

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	searchBaseURL = "https://www.googleapis.com/youtube/v3/search"
	videosBaseURL = "https://www.googleapis.com/youtube/v3/videos"

	// DefaultMaxResults is how many verified IDs a search returns unless
	// the caller asks for fewer.
	DefaultMaxResults = 15

	// apiBatchLimit is the maximum number of IDs videos.list accepts per call.
	apiBatchLimit = 50
)

// ErrSearch is wrapped around every transport or API failure.
var ErrSearch = errors.New("youtube: search failed")

// Client provides access to the YouTube Data API for embeddable video lookup.
type Client struct {
	apiKey      string
	regionCode  string
	maxResults  int
	searchURL   string
	videosURL   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRegion sets the region code used when evaluating region restrictions.
func WithRegion(code string) Option {
	return func(c *Client) { c.regionCode = strings.ToUpper(strings.TrimSpace(code)) }
}

// WithMaxResults caps how many verified IDs a search returns.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = min(n, apiBatchLimit)
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a YouTube client. The API key must be non-empty.
// Rate limited to stay well inside the default Data API quota.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key must be provided", ErrSearch)
	}
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		maxResults: DefaultMaxResults,
		searchURL:  searchBaseURL,
		videosURL:  videosBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// 1 request per second with a small burst; a scene change costs
		// two calls (search.list + videos.list).
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 4),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// FindCandidates searches for videos matching the query and returns the IDs
// confirmed playable in the embedded player, in search-ranking order,
// deduplicated, truncated to limit (or the client default when limit <= 0).
// An empty query returns no IDs and makes no API calls.
func (c *Client) FindCandidates(ctx context.Context, query string, limit int) ([]string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 || limit > apiBatchLimit {
		limit = c.maxResults
	}

	candidates, err := c.searchCandidates(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	playable, err := c.verifyPlayable(ctx, candidates)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(playable))
	ordered := make([]string, 0, limit)
	for _, id := range candidates {
		if _, ok := playable[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
		if len(ordered) >= limit {
			break
		}
	}

	c.logger.Debug("youtube search",
		"query", q,
		"candidates", len(candidates),
		"playable", len(ordered),
	)
	return ordered, nil
}

// searchCandidates runs search.list and returns raw candidate IDs. It asks
// for twice the limit so that post-verification filtering still fills the
// requested count.
func (c *Client) searchCandidates(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("type", "video")
	params.Set("videoEmbeddable", "true")
	params.Set("maxResults", strconv.Itoa(min(max(1, limit*2), apiBatchLimit)))
	params.Set("q", query)

	var resp searchResponse
	if err := c.getJSON(ctx, c.searchURL, params, &resp); err != nil {
		return nil, fmt.Errorf("search.list: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// verifyPlayable runs videos.list over the candidates in API-sized batches
// and returns the set of IDs that are embeddable, public or unlisted, and
// not restricted away from the configured region.
func (c *Client) verifyPlayable(ctx context.Context, ids []string) (map[string]struct{}, error) {
	playable := make(map[string]struct{}, len(ids))
	for start := 0; start < len(ids); start += apiBatchLimit {
		batch := ids[start:min(start+apiBatchLimit, len(ids))]

		params := url.Values{}
		params.Set("part", "status,contentDetails")
		params.Set("id", strings.Join(batch, ","))

		var resp videosResponse
		if err := c.getJSON(ctx, c.videosURL, params, &resp); err != nil {
			return nil, fmt.Errorf("videos.list: %w", err)
		}

		for _, item := range resp.Items {
			if item.ID == "" {
				continue
			}
			if !item.Status.Embeddable {
				continue
			}
			switch item.Status.PrivacyStatus {
			case "", "public", "unlisted":
			default:
				continue
			}
			if !c.regionAllowed(item.ContentDetails.RegionRestriction) {
				continue
			}
			playable[item.ID] = struct{}{}
		}
	}
	return playable, nil
}

// regionAllowed evaluates a video's regionRestriction block against the
// configured region. Without a configured region, any restriction makes the
// video ineligible since playback cannot be guaranteed.
func (c *Client) regionAllowed(r *regionRestriction) bool {
	if r == nil {
		return true
	}

	if c.regionCode != "" {
		for _, code := range r.Blocked {
			if strings.EqualFold(code, c.regionCode) {
				return false
			}
		}
	} else if len(r.Blocked) > 0 {
		return false
	}

	if r.Allowed != nil {
		if c.regionCode == "" {
			return false
		}
		for _, code := range r.Allowed {
			if strings.EqualFold(code, c.regionCode) {
				return true
			}
		}
		return false
	}

	return true
}

func (c *Client) getJSON(ctx context.Context, baseURL string, params url.Values, out any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit: %v", ErrSearch, err)
	}

	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrSearch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSearch, resp.StatusCode)
	}

	var envelope struct {
		Error *apiError `json:"error"`
	}
	// Read the body once; the API wraps errors in a 200-compatible shape on
	// some quota failures, so probe for an error object first.
	raw, err := readAll(resp)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrSearch, err)
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		msg := envelope.Error.Message
		if msg == "" {
			msg = "API returned an error"
		}
		return fmt.Errorf("%w: %s", ErrSearch, msg)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: parse response: %v", ErrSearch, err)
	}
	return nil
}
