// Package domain defines the core types shared across the SceneTune server.
package domain

// PlaylistLink is a ready-to-open playlist search URL at an external provider.
type PlaylistLink struct {
	Provider    string `json:"provider" doc:"Provider name (e.g., YouTube)"`
	URL         string `json:"url" doc:"Fully built search URL"`
	Description string `json:"description,omitempty" doc:"Optional UI description"`
}

// Hysteresis carries the anti-flapping settings returned to the frontend.
// The values are opaque to the server; CacheTTLSec additionally drives the
// in-process result caches.
type Hysteresis struct {
	MinConfidence float64 `json:"min_confidence" koanf:"min_confidence" validate:"gte=0,lte=1"`
	WindowSec     int     `json:"window_sec" koanf:"window_sec" validate:"gte=1"`
	CooldownSec   int     `json:"cooldown_sec" koanf:"cooldown_sec" validate:"gte=0"`
	CacheTTLSec   int     `json:"cache_ttl_sec" koanf:"cache_ttl_sec" validate:"gte=0"`
}

// SearchResult is the assembled answer for a (genre, scene) lookup.
// Immutable once constructed; cached entries are evicted by TTL only.
type SearchResult struct {
	Genre      string         `json:"genre" doc:"Canonical genre id"`
	Scene      string         `json:"scene" doc:"Canonical scene id"`
	Query      string         `json:"query" doc:"Search query used for provider links"`
	Playlists  []PlaylistLink `json:"playlists" doc:"Provider playlist search links"`
	Videos     []string       `json:"videos,omitempty" doc:"Optional video ids for the embedded player"`
	Hysteresis Hysteresis     `json:"hysteresis" doc:"Display/debounce settings snapshot"`
}

// RecommendationResult extends SearchResult with the classifier's verdict and
// the input that produced it.
type RecommendationResult struct {
	SearchResult
	Tags       []string `json:"tags,omitempty" doc:"Normalized tags the decision was based on"`
	Text       string   `json:"text,omitempty" doc:"Raw text input when operating in free-text mode"`
	Confidence *float64 `json:"confidence,omitempty" doc:"Classifier confidence in [0,1]"`
	Reason     string   `json:"reason,omitempty" doc:"Classifier explanation, when available"`
}

// SceneInfo is a UI-facing snapshot of a configured scene.
type SceneInfo struct {
	ID          string         `json:"id" doc:"Canonical scene id"`
	Name        string         `json:"name" doc:"Human-readable scene name"`
	Query       string         `json:"query" doc:"Configured search query"`
	Volume      *int           `json:"volume,omitempty" doc:"Recommended volume (0-100)"`
	Crossfade   *int           `json:"crossfade,omitempty" doc:"Crossfade length in seconds"`
	CooldownSec *int           `json:"cooldown_sec,omitempty" doc:"Recommended debounce value"`
	Providers   []ProviderInfo `json:"providers" doc:"Configured playlist providers"`
}

// ProviderInfo describes a configured playlist provider.
type ProviderInfo struct {
	Name        string `json:"name" doc:"Provider name"`
	URLTemplate string `json:"url_template" doc:"URL template with a {query} placeholder"`
	Description string `json:"description,omitempty" doc:"Optional UI description"`
}
