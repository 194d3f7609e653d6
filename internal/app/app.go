// Package app assembles the shortener components from a Config.
package app

import (
	"url-shortener-api/internal/cache"
	"url-shortener-api/internal/codec"
	"url-shortener-api/internal/config"
	"url-shortener-api/internal/handlers"
	"url-shortener-api/internal/metrics"
	"url-shortener-api/internal/realtime"
	"url-shortener-api/internal/routes"
	"url-shortener-api/internal/sequence"
	"url-shortener-api/internal/shortener"

	"github.com/gin-gonic/gin"
)

const metricsNamespace = "shortener"

// App owns every long-lived component. Nothing here is a process-wide singleton.
type App struct {
	Config   config.Config
	Sequence *sequence.Source
	Links    *cache.ExpiringCache[string, string]
	Service  *shortener.Service
	Hub      *realtime.Hub
	Metrics  *metrics.Metrics
	Router   *gin.Engine

	stopJanitor func()
}

// New builds an App and starts the cache janitor if one is configured.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := codec.New(cfg.Token.Alphabet)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Hub:     realtime.NewHub(),
		Metrics: metrics.NewMetrics(metricsNamespace),
	}

	if cfg.Sequence.Start != nil {
		a.Sequence = sequence.NewSource(*cfg.Sequence.Start)
	} else {
		a.Sequence = sequence.NewRandomSource(cfg.Sequence.SeedMin, cfg.Sequence.SeedMax)
	}

	a.Links = cache.NewExpiringCache(cache.Options[string, string]{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.TTL,
		OnEvicted: func(token, _ string, reason cache.EvictionReason) {
			a.Metrics.Evicted(reason)
			a.Hub.Evicted(token, reason)
		},
	})
	a.Metrics.TrackCacheSize(metricsNamespace, a.Links.Len)

	a.Service = shortener.NewService(a.Sequence, enc, a.Links, cfg.Token.Width, a.Metrics, a.Hub)

	a.Router = routes.SetupRoutes(routes.Deps{
		Links:   handlers.NewLinkHandler(a.Service, cfg.Server.BaseURL),
		Hub:     a.Hub,
		Metrics: a.Metrics.Handler(),
	})

	a.stopJanitor = a.Links.StartJanitor(cfg.Cache.SweepInterval)
	return a, nil
}

// Close stops background work and drops event subscribers. It is safe to call
// more than once.
func (a *App) Close() {
	a.stopJanitor()
	a.Hub.Close()
}
