package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/scenetuneapp/scenetune-server/internal/catalog"
	"github.com/scenetuneapp/scenetune-server/internal/config"
	"github.com/scenetuneapp/scenetune-server/internal/logger"
)

// ProvideCatalog loads the genre/scene catalog from disk.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
	}

	log.Info("Catalog loaded",
		"path", cfg.Catalog.Path,
		"genres", len(cat.Genres()),
		"cache_ttl_sec", cat.Hysteresis().CacheTTLSec,
	)

	return cat, nil
}
