package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/cms"
	"github.com/pribylovaa/spacetraveling/internal/config"
	"github.com/pribylovaa/spacetraveling/internal/feed"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	"github.com/pribylovaa/spacetraveling/internal/service"
	"github.com/pribylovaa/spacetraveling/internal/view"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// app — собранные зависимости процесса.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	store cache.Store
	svc   *service.Service
	view  *view.Renderer
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (*app, error) {
	const op = "main.newApp"

	client, err := cms.New(cms.Options{
		Endpoint:    cfg.CMS.Endpoint,
		AccessToken: cfg.CMS.AccessToken,
	}, &http.Client{Timeout: cfg.Timeouts.CMS})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, err := newStore(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := view.New(view.Options{
		Title:  "Posts | " + cfg.Site.Title,
		Locale: cfg.Site.Locale,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("dependencies_initialized",
		slog.String("cache", cfg.Cache.Backend),
		slog.String("locale", v.Locale().Lang()),
	)

	return &app{
		cfg:   cfg,
		log:   log,
		store: store,
		svc:   service.New(client, store, m, service.OptionsFromConfig(cfg)),
		view:  v,
	}, nil
}

// Close останавливает фоновые задачи сервиса и закрывает кэш.
func (a *app) Close() {
	a.svc.Close()

	if err := a.store.Close(); err != nil {
		a.log.Warn("cache_close_failed", slog.String("err", err.Error()))
	}
}

// feedChannel — описание ленты RSS из конфигурации сайта.
func (a *app) feedChannel() feed.Channel {
	return feed.Channel{
		Title:       a.cfg.Site.Title,
		BaseURL:     a.cfg.Site.BaseURL,
		Description: "Posts | " + a.cfg.Site.Title,
		Language:    a.view.Locale().Lang(),
	}
}

func newStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		return cache.NewRedis(ctx, cfg.RedisURL, cfg.Prefix)
	default:
		return cache.NewMemorySize(cfg.MemoryEntries)
	}
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
