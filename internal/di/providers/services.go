package providers

import (
	"github.com/samber/do/v2"

	"github.com/scenetuneapp/scenetune-server/internal/catalog"
	"github.com/scenetuneapp/scenetune-server/internal/config"
	"github.com/scenetuneapp/scenetune-server/internal/logger"
	"github.com/scenetuneapp/scenetune-server/internal/player"
	"github.com/scenetuneapp/scenetune-server/internal/service"
)

// ProvideMusicService provides the scene search and recommendation service.
func ProvideMusicService(i do.Injector) (*service.MusicService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	cat := do.MustInvoke[*catalog.Catalog](i)
	classifierHandle := do.MustInvoke[*ClassifierHandle](i)
	youtubeHandle := do.MustInvoke[*YouTubeHandle](i)

	opts := []service.Option{}
	if classifierHandle.Client != nil {
		opts = append(opts, service.WithClassifier(classifierHandle.Client))
	}
	if youtubeHandle.Client != nil {
		opts = append(opts, service.WithVideoSearch(youtubeHandle.Client, cfg.YouTube.MaxResults))
	}

	return service.New(cat, log.Logger, opts...), nil
}

// ProvidePlayerReportService provides the player error report sink.
func ProvidePlayerReportService(i do.Injector) (*player.ReportService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return player.NewReportService(log.Logger), nil
}
