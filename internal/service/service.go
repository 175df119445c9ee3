// Package service contains MusicService, the orchestrator behind every API
// route: catalog lookups, the two result caches, classifier invocation, scene
// resolution and the dynamic-fallback path.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scenetuneapp/scenetune-server/internal/cache"
	"github.com/scenetuneapp/scenetune-server/internal/catalog"
	"github.com/scenetuneapp/scenetune-server/internal/classifier"
	"github.com/scenetuneapp/scenetune-server/internal/domain"
	apperrors "github.com/scenetuneapp/scenetune-server/internal/errors"
	"github.com/scenetuneapp/scenetune-server/internal/resolver"
)

// DefaultVideoLimit bounds the optional video enrichment batch.
const DefaultVideoLimit = 15

// VideoSearcher is the optional video-search collaborator. Failures are
// non-fatal to the orchestrator.
type VideoSearcher interface {
	FindCandidates(ctx context.Context, query string, limit int) ([]string, error)
}

// searchKey identifies one cached SearchResult. Both parts are lowercase.
type searchKey struct {
	Genre string
	Scene string
}

// recommendKey identifies one cached RecommendationResult. Key is "tags:"
// plus a digest of the sorted normalized tag list, or "text:" plus the
// SHA-256 of the trimmed input text.
type recommendKey struct {
	Genre string
	Key   string
}

// MusicService is the entry point for all scene and recommendation logic.
// The classifier and video searcher are explicit optional dependencies;
// absence is a normal state, not an error, until a recommendation is asked
// for.
type MusicService struct {
	catalog    *catalog.Catalog
	classifier classifier.Client
	videos     VideoSearcher
	videoLimit int
	logger     *slog.Logger

	searchCache    *cache.TTLCache[searchKey, domain.SearchResult]
	recommendCache *cache.TTLCache[recommendKey, domain.RecommendationResult]

	titleCaser cases.Caser
}

// Option configures a MusicService.
type Option func(*MusicService)

// WithClassifier wires the scene-classification client.
func WithClassifier(c classifier.Client) Option {
	return func(s *MusicService) { s.classifier = c }
}

// WithVideoSearch wires the optional video-search collaborator. A limit <= 0
// falls back to DefaultVideoLimit.
func WithVideoSearch(v VideoSearcher, limit int) Option {
	return func(s *MusicService) {
		s.videos = v
		if limit > 0 {
			s.videoLimit = limit
		}
	}
}

// New creates a MusicService around a loaded catalog. Both caches share the
// catalog's hysteresis TTL.
func New(cat *catalog.Catalog, logger *slog.Logger, opts ...Option) *MusicService {
	ttl := time.Duration(cat.Hysteresis().CacheTTLSec) * time.Second

	s := &MusicService{
		catalog:        cat,
		videoLimit:     DefaultVideoLimit,
		logger:         logger,
		searchCache:    cache.New[searchKey, domain.SearchResult](ttl),
		recommendCache: cache.New[recommendKey, domain.RecommendationResult](ttl),
		titleCaser:     cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search resolves a (genre, scene) pair to its playlist links. Results are
// served from the search cache within the TTL window; a miss rebuilds and
// re-caches the result.
func (s *MusicService) Search(ctx context.Context, genre, scene string) (domain.SearchResult, error) {
	key := searchKey{
		Genre: strings.ToLower(strings.TrimSpace(genre)),
		Scene: strings.ToLower(strings.TrimSpace(scene)),
	}
	if cached, ok := s.searchCache.Get(key); ok {
		return cached, nil
	}

	sceneCfg, status := s.catalog.LookupScene(key.Genre, key.Scene)
	switch status {
	case catalog.GenreMissing:
		return domain.SearchResult{}, apperrors.GenreNotFoundf("unknown genre: %s", genre)
	case catalog.SceneMissing:
		return domain.SearchResult{}, apperrors.SceneNotFoundf("unknown scene %q in genre %q", scene, key.Genre)
	}

	result := domain.SearchResult{
		Genre:      key.Genre,
		Scene:      key.Scene,
		Query:      sceneCfg.Query,
		Playlists:  buildLinks(sceneCfg.Providers, sceneCfg.Query),
		Videos:     s.resolveVideos(ctx, sceneCfg.Videos, sceneCfg.Query),
		Hysteresis: s.catalog.Hysteresis(),
	}
	s.searchCache.Set(key, result)
	return result, nil
}

// Recommend turns a set of free-form tags into a recommendation: classifier
// prediction, canonical resolution, dynamic fallback when nothing matches.
func (s *MusicService) Recommend(ctx context.Context, genre string, tags []string) (domain.RecommendationResult, error) {
	genreID := strings.ToLower(strings.TrimSpace(genre))
	entry, ok := s.catalog.Entry(genreID)
	if !ok {
		return domain.RecommendationResult{}, apperrors.GenreNotFoundf("unknown genre: %s", genre)
	}

	normalized := normalizeTags(tags)
	if len(normalized) == 0 {
		return domain.RecommendationResult{}, apperrors.RecommendationUnavailable("at least one tag is required")
	}
	if s.classifier == nil {
		return domain.RecommendationResult{}, apperrors.RecommendationUnavailable("recommendation service is not configured")
	}

	key := recommendKey{Genre: genreID, Key: tagsCacheKey(normalized)}
	if cached, ok := s.recommendCache.Get(key); ok {
		return cached, nil
	}

	prediction, err := s.classifier.PredictFromTags(ctx, genreID, normalized)
	if err != nil {
		return domain.RecommendationResult{}, apperrors.Wrap(err, apperrors.CodeRecommendationUnavailable, "scene prediction failed")
	}

	base, err := s.resolvePrediction(ctx, entry, genreID, prediction)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	result := domain.RecommendationResult{
		SearchResult: base,
		Tags:         normalized,
		Confidence:   prediction.Confidence,
		Reason:       prediction.Reason,
	}
	s.recommendCache.Set(key, result)
	return result, nil
}

// RecommendFromText interprets free-form natural language directly. Canonical
// resolution is deliberately skipped here: distinct phrases must not collapse
// onto one canned scene, so the dynamic fallback always builds the result.
func (s *MusicService) RecommendFromText(ctx context.Context, genre, text string) (domain.RecommendationResult, error) {
	genreID := strings.ToLower(strings.TrimSpace(genre))
	entry, ok := s.catalog.Entry(genreID)
	if !ok {
		return domain.RecommendationResult{}, apperrors.GenreNotFoundf("unknown genre: %s", genre)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.RecommendationResult{}, apperrors.RecommendationUnavailable("text input is empty")
	}
	if s.classifier == nil {
		return domain.RecommendationResult{}, apperrors.RecommendationUnavailable("recommendation service is not configured")
	}

	key := recommendKey{Genre: genreID, Key: textCacheKey(trimmed)}
	if cached, ok := s.recommendCache.Get(key); ok {
		return cached, nil
	}

	prediction, err := s.classifier.PredictFromText(ctx, genreID, trimmed)
	if err != nil {
		return domain.RecommendationResult{}, apperrors.Wrap(err, apperrors.CodeRecommendationUnavailable, "scene prediction failed")
	}

	base, err := s.buildFallback(ctx, entry, genreID, prediction)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	result := domain.RecommendationResult{
		SearchResult: base,
		Text:         trimmed,
		Confidence:   prediction.Confidence,
		Reason:       prediction.Reason,
	}
	s.recommendCache.Set(key, result)
	return result, nil
}

// Genres returns all configured genre ids in sorted order.
func (s *MusicService) Genres() []string {
	return s.catalog.Genres()
}

// Scenes returns the sorted scene ids of one genre.
func (s *MusicService) Scenes(genre string) ([]string, error) {
	entry, ok := s.catalog.Entry(genre)
	if !ok {
		return nil, apperrors.GenreNotFoundf("unknown genre: %s", genre)
	}
	return entry.SceneIDs(), nil
}

// AllScenes returns the scene ids of every genre. The UI uses this to
// pre-populate selector widgets without one request per genre.
func (s *MusicService) AllScenes() map[string][]string {
	out := make(map[string][]string, len(s.catalog.Genres()))
	for _, genre := range s.catalog.Genres() {
		entry, _ := s.catalog.Entry(genre)
		out[genre] = entry.SceneIDs()
	}
	return out
}

// DescribeScenes returns a per-genre snapshot of scene metadata, sorted by
// display name. The library view embeds it directly.
func (s *MusicService) DescribeScenes() map[string][]domain.SceneInfo {
	out := make(map[string][]domain.SceneInfo, len(s.catalog.Genres()))
	for _, genre := range s.catalog.Genres() {
		entry, _ := s.catalog.Entry(genre)

		infos := make([]domain.SceneInfo, 0, len(entry.SceneIDs()))
		for _, sceneID := range entry.SceneIDs() {
			sceneCfg, _ := entry.Scene(sceneID)

			providers := make([]domain.ProviderInfo, 0, len(sceneCfg.Providers))
			for _, p := range sceneCfg.Providers {
				providers = append(providers, p.Info())
			}

			infos = append(infos, domain.SceneInfo{
				ID:          sceneID,
				Name:        s.displayName(sceneID),
				Query:       sceneCfg.Query,
				Volume:      sceneCfg.Volume,
				Crossfade:   sceneCfg.Crossfade,
				CooldownSec: sceneCfg.CooldownSec,
				Providers:   providers,
			})
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
		out[genre] = infos
	}
	return out
}

// HysteresisSettings returns the global display/debounce configuration.
func (s *MusicService) HysteresisSettings() domain.Hysteresis {
	return s.catalog.Hysteresis()
}

// ClearCaches drops both result caches. Exposed for operational tooling.
func (s *MusicService) ClearCaches() {
	s.searchCache.Clear()
	s.recommendCache.Clear()
}

// resolvePrediction maps a classifier verdict onto a SearchResult: canonical
// scenes go through the shared search-and-cache path, everything else through
// the genre's dynamic fallback.
func (s *MusicService) resolvePrediction(ctx context.Context, entry *catalog.GenreEntry, genreID string, prediction classifier.ScenePrediction) (domain.SearchResult, error) {
	if sceneID, ok := resolver.Resolve(prediction.Scene, entry.SceneIDs()); ok {
		return s.Search(ctx, genreID, sceneID)
	}
	return s.buildFallback(ctx, entry, genreID, prediction)
}

// buildFallback synthesizes a SearchResult for a scene the catalog does not
// know. The raw prediction text becomes the search query; links come from the
// genre's fallback templates. Never stored in the search cache.
func (s *MusicService) buildFallback(ctx context.Context, entry *catalog.GenreEntry, genreID string, prediction classifier.ScenePrediction) (domain.SearchResult, error) {
	fallback, ok := entry.DynamicFallback()
	if !ok {
		return domain.SearchResult{}, apperrors.RecommendationUnavailablef(
			"classifier returned scene %q and genre %q has no dynamic fallback", prediction.Scene, genreID)
	}

	sceneID := resolver.Normalize(prediction.Scene)
	if sceneID == "" {
		return domain.SearchResult{}, apperrors.RecommendationUnavailablef(
			"classifier returned unusable scene %q", prediction.Scene)
	}

	query := strings.TrimSpace(prediction.Scene)
	return domain.SearchResult{
		Genre:      genreID,
		Scene:      sceneID,
		Query:      query,
		Playlists:  buildLinks(fallback.Providers, query),
		Videos:     s.resolveVideos(ctx, nil, query),
		Hysteresis: s.catalog.Hysteresis(),
	}, nil
}

// resolveVideos picks the fixed video list when the catalog pins one,
// otherwise asks the optional video searcher for a single best-effort batch.
// Search failures are logged and swallowed.
func (s *MusicService) resolveVideos(ctx context.Context, fixed []string, query string) []string {
	if len(fixed) > 0 {
		out := make([]string, len(fixed))
		copy(out, fixed)
		return out
	}
	if s.videos == nil {
		return nil
	}

	ids, err := s.videos.FindCandidates(ctx, query, s.videoLimit)
	if err != nil {
		s.logger.Warn("video search failed, continuing without videos",
			"query", query,
			"error", err,
		)
		return nil
	}
	return ids
}

func (s *MusicService) displayName(sceneID string) string {
	return s.titleCaser.String(strings.ReplaceAll(sceneID, "_", " "))
}

func buildLinks(providers []catalog.ProviderTemplate, query string) []domain.PlaylistLink {
	links := make([]domain.PlaylistLink, 0, len(providers))
	for _, p := range providers {
		links = append(links, p.BuildLink(query))
	}
	return links
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// tagsCacheKey digests a sorted normalized tag list. Tags are length-prefixed
// before hashing so no tag content can imitate a list boundary: ["a,b"] and
// ["a","b"] produce different keys.
func tagsCacheKey(tags []string) string {
	h := sha256.New()
	for _, tag := range tags {
		fmt.Fprintf(h, "%d:", len(tag))
		h.Write([]byte(tag))
	}
	return "tags:" + hex.EncodeToString(h.Sum(nil))
}

func textCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "text:" + hex.EncodeToString(sum[:])
}
