package providers

import (
	"github.com/samber/do/v2"

	"github.com/scenetuneapp/scenetune-server/internal/classifier"
	"github.com/scenetuneapp/scenetune-server/internal/config"
	"github.com/scenetuneapp/scenetune-server/internal/logger"
	"github.com/scenetuneapp/scenetune-server/internal/youtube"
)

// ClassifierHandle wraps the scene classifier client. Client is nil when no
// endpoint is configured; recommendations then fail with a
// service-unavailable error instead of at startup.
type ClassifierHandle struct {
	Client *classifier.HTTPClient
}

// ProvideClassifierClient provides the scene classification client.
func ProvideClassifierClient(i do.Injector) (*ClassifierHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Classifier.Endpoint == "" {
		log.Warn("No classifier endpoint configured, recommendations disabled")
		return &ClassifierHandle{}, nil
	}

	opts := []classifier.Option{classifier.WithTimeout(cfg.Classifier.Timeout)}
	if cfg.Classifier.Token != "" {
		opts = append(opts, classifier.WithToken(cfg.Classifier.Token))
	}

	client := classifier.NewHTTPClient(cfg.Classifier.Endpoint, log.Logger, opts...)
	log.Info("Classifier client configured", "endpoint", cfg.Classifier.Endpoint)

	return &ClassifierHandle{Client: client}, nil
}

// YouTubeHandle wraps the YouTube search client. Client is nil when no API
// key is configured; recommendation results then carry no video IDs.
type YouTubeHandle struct {
	Client *youtube.Client
}

// ProvideYouTubeClient provides the YouTube Data API client.
func ProvideYouTubeClient(i do.Injector) (*YouTubeHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.YouTube.APIKey == "" {
		log.Info("No YouTube API key configured, video enrichment disabled")
		return &YouTubeHandle{}, nil
	}

	opts := []youtube.Option{youtube.WithMaxResults(cfg.YouTube.MaxResults)}
	if cfg.YouTube.Region != "" {
		opts = append(opts, youtube.WithRegion(cfg.YouTube.Region))
	}

	client, err := youtube.NewClient(cfg.YouTube.APIKey, log.Logger, opts...)
	if err != nil {
		return nil, err
	}

	log.Info("YouTube client configured",
		"region", cfg.YouTube.Region,
		"max_results", cfg.YouTube.MaxResults,
	)

	return &YouTubeHandle{Client: client}, nil
}
