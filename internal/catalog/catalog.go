// Package catalog holds the static genre/scene configuration: which scenes a
// genre knows, how to build playlist search links for them, and what to do
// when a predicted scene is not in the catalog.
//
// The catalog is loaded once at startup and read-only afterwards, so it is
// safe for unsynchronized concurrent reads.
package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/scenetuneapp/scenetune-server/internal/domain"
	"github.com/scenetuneapp/scenetune-server/internal/resolver"
	"github.com/scenetuneapp/scenetune-server/internal/validation"
)

// QueryPlaceholder is the substitution marker every provider URL template
// must contain.
const QueryPlaceholder = "{query}"

// DefaultCacheTTLSec is used when the hysteresis block omits cache_ttl_sec.
const DefaultCacheTTLSec = 600

// ProviderTemplate describes one playlist provider and how to build a search
// link for it.
type ProviderTemplate struct {
	Name        string `koanf:"name" json:"name" validate:"required"`
	URLTemplate string `koanf:"url_template" json:"url_template" validate:"required"`
	Description string `koanf:"description" json:"description,omitempty"`
}

// BuildLink substitutes the URL-escaped query into the template.
func (p ProviderTemplate) BuildLink(query string) domain.PlaylistLink {
	return domain.PlaylistLink{
		Provider:    p.Name,
		URL:         strings.ReplaceAll(p.URLTemplate, QueryPlaceholder, url.QueryEscape(query)),
		Description: p.Description,
	}
}

// Info converts the template to its UI-facing form.
func (p ProviderTemplate) Info() domain.ProviderInfo {
	return domain.ProviderInfo{
		Name:        p.Name,
		URLTemplate: p.URLTemplate,
		Description: p.Description,
	}
}

// Scene is an explicitly configured scene inside a genre.
type Scene struct {
	Query       string             `koanf:"query" validate:"required"`
	Volume      *int               `koanf:"volume" validate:"omitempty,gte=0,lte=100"`
	Crossfade   *int               `koanf:"crossfade" validate:"omitempty,gte=0,lte=30"`
	CooldownSec *int               `koanf:"cooldown_sec" validate:"omitempty,gte=0"`
	Videos      []string           `koanf:"videos"`
	Providers   []ProviderTemplate `koanf:"providers" validate:"dive"`
}

// DynamicFallback carries the defaults used to synthesize a result when the
// classifier's scene has no canonical match in the genre.
type DynamicFallback struct {
	Volume      *int               `koanf:"volume" validate:"omitempty,gte=0,lte=100"`
	Crossfade   *int               `koanf:"crossfade" validate:"omitempty,gte=0,lte=30"`
	CooldownSec *int               `koanf:"cooldown_sec" validate:"omitempty,gte=0"`
	Providers   []ProviderTemplate `koanf:"providers" validate:"dive"`
}

// GenreEntry is the scene catalog for a single genre.
type GenreEntry struct {
	scenes   map[string]Scene
	sceneIDs []string // sorted; resolver matching depends on a stable order
	fallback *DynamicFallback
}

// Scene returns the descriptor for a canonical scene id.
func (e *GenreEntry) Scene(id string) (Scene, bool) {
	s, ok := e.scenes[strings.ToLower(id)]
	return s, ok
}

// SceneIDs returns the genre's canonical scene ids in sorted order.
func (e *GenreEntry) SceneIDs() []string {
	return e.sceneIDs
}

// DynamicFallback returns the genre's fallback defaults, if configured.
func (e *GenreEntry) DynamicFallback() (DynamicFallback, bool) {
	if e.fallback == nil {
		return DynamicFallback{}, false
	}
	return *e.fallback, true
}

// LookupStatus is the three-way outcome of a (genre, scene) lookup.
type LookupStatus int

// Lookup outcomes.
const (
	Found LookupStatus = iota
	GenreMissing
	SceneMissing
)

// Catalog maps lowercase genre ids to their scene catalogs plus the global
// hysteresis settings.
type Catalog struct {
	genres     map[string]*GenreEntry
	genreIDs   []string // sorted
	hysteresis domain.Hysteresis
}

// Genres returns all genre ids in sorted order.
func (c *Catalog) Genres() []string {
	return c.genreIDs
}

// Entry returns the catalog entry for a genre. Lookup is case-insensitive.
func (c *Catalog) Entry(genre string) (*GenreEntry, bool) {
	e, ok := c.genres[strings.ToLower(strings.TrimSpace(genre))]
	return e, ok
}

// LookupScene resolves a (genre, scene) pair to a scene descriptor, reporting
// exactly which part of the lookup failed.
func (c *Catalog) LookupScene(genre, scene string) (Scene, LookupStatus) {
	entry, ok := c.Entry(genre)
	if !ok {
		return Scene{}, GenreMissing
	}
	s, ok := entry.Scene(scene)
	if !ok {
		return Scene{}, SceneMissing
	}
	return s, Found
}

// Hysteresis returns the global display/debounce settings.
func (c *Catalog) Hysteresis() domain.Hysteresis {
	return c.hysteresis
}

// fileSchema mirrors the on-disk YAML layout.
type fileSchema struct {
	Genres     map[string]genreSchema `koanf:"genres"`
	Hysteresis domain.Hysteresis      `koanf:"hysteresis"`
}

type genreSchema struct {
	Scenes          map[string]Scene `koanf:"scenes"`
	DynamicDefaults *DynamicFallback `koanf:"dynamic_defaults"`
}

// Load reads and validates the catalog YAML at path.
func Load(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog file %s: %w", path, err)
	}
	return fromKoanf(k)
}

// Parse builds a catalog from raw YAML bytes. Tests and embedded defaults use
// this instead of Load.
func Parse(data []byte) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Catalog, error) {
	raw := fileSchema{
		Hysteresis: domain.Hysteresis{CacheTTLSec: DefaultCacheTTLSec},
	}
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	v := validation.New()
	if err := v.Validate(raw.Hysteresis); err != nil {
		return nil, fmt.Errorf("hysteresis: %w", err)
	}
	if len(raw.Genres) == 0 {
		return nil, fmt.Errorf("catalog defines no genres")
	}

	c := &Catalog{
		genres:     make(map[string]*GenreEntry, len(raw.Genres)),
		hysteresis: raw.Hysteresis,
	}

	for rawGenre, g := range raw.Genres {
		genreID := strings.ToLower(strings.TrimSpace(rawGenre))
		if genreID == "" {
			return nil, fmt.Errorf("genre %q: empty id", rawGenre)
		}

		entry := &GenreEntry{
			scenes:   make(map[string]Scene, len(g.Scenes)),
			fallback: g.DynamicDefaults,
		}

		for rawScene, scene := range g.Scenes {
			sceneID := resolver.Normalize(rawScene)
			if sceneID == "" {
				return nil, fmt.Errorf("genre %q: scene %q normalizes to an empty id", genreID, rawScene)
			}
			if _, dup := entry.scenes[sceneID]; dup {
				return nil, fmt.Errorf("genre %q: duplicate scene id %q", genreID, sceneID)
			}
			if err := v.Validate(scene); err != nil {
				return nil, fmt.Errorf("genre %q scene %q: %w", genreID, sceneID, err)
			}
			if err := checkTemplates(scene.Providers); err != nil {
				return nil, fmt.Errorf("genre %q scene %q: %w", genreID, sceneID, err)
			}
			entry.scenes[sceneID] = scene
			entry.sceneIDs = append(entry.sceneIDs, sceneID)
		}
		sort.Strings(entry.sceneIDs)

		if g.DynamicDefaults != nil {
			if err := v.Validate(*g.DynamicDefaults); err != nil {
				return nil, fmt.Errorf("genre %q dynamic defaults: %w", genreID, err)
			}
			if err := checkTemplates(g.DynamicDefaults.Providers); err != nil {
				return nil, fmt.Errorf("genre %q dynamic defaults: %w", genreID, err)
			}
		}

		// A genre with no explicit scenes is only usable through its
		// dynamic fallback.
		if len(entry.scenes) == 0 && entry.fallback == nil {
			return nil, fmt.Errorf("genre %q: no scenes and no dynamic defaults", genreID)
		}

		c.genres[genreID] = entry
		c.genreIDs = append(c.genreIDs, genreID)
	}
	sort.Strings(c.genreIDs)

	return c, nil
}

func checkTemplates(providers []ProviderTemplate) error {
	for _, p := range providers {
		if !strings.Contains(p.URLTemplate, QueryPlaceholder) {
			return fmt.Errorf("provider %q: url_template must contain the %s placeholder", p.Name, QueryPlaceholder)
		}
	}
	return nil
}
