// Package di provides dependency injection configuration for the SceneTune server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/scenetuneapp/scenetune-server/internal/catalog"
	"github.com/scenetuneapp/scenetune-server/internal/config"
	"github.com/scenetuneapp/scenetune-server/internal/di/providers"
	"github.com/scenetuneapp/scenetune-server/internal/logger"
	"github.com/scenetuneapp/scenetune-server/internal/player"
	"github.com/scenetuneapp/scenetune-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Catalog and upstream clients
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideClassifierClient)
	do.Provide(injector, providers.ProvideYouTubeClient)

	// Business services
	do.Provide(injector, providers.ProvideMusicService)
	do.Provide(injector, providers.ProvidePlayerReportService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*providers.ClassifierHandle](injector)
	_ = do.MustInvoke[*providers.YouTubeHandle](injector)
	_ = do.MustInvoke[*service.MusicService](injector)
	_ = do.MustInvoke[*player.ReportService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
