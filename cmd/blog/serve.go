package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/config"
	bloghttp "github.com/pribylovaa/spacetraveling/internal/http"
	"github.com/pribylovaa/spacetraveling/internal/http/handlers"
	"github.com/pribylovaa/spacetraveling/internal/listing"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	logctx "github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting blog", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	a, err := newApp(rootCtx, cfg, log, metrics.New(nil))
	if err != nil {
		log.Error("app_init_failed", slog.String("err", err.Error()))
		return err
	}
	defer a.Close()

	sessions := listing.NewStore(cfg.Listing.SessionTTL)
	go sessions.Run(logctx.Into(rootCtx, log))

	if mem, ok := a.store.(*cache.Memory); ok {
		go mem.Run(logctx.Into(rootCtx, log), cfg.Cache.PostRevalidate)
	}

	h := handlers.New(a.svc, sessions, a.view)
	h.Feed = a.feedChannel()
	siteHandler := bloghttp.NewRouter(h, bloghttp.Options{
		Logger:     log,
		Timeout:    cfg.Timeouts.Request,
		PostMaxAge: cfg.Cache.PostRevalidate,
		FeedMaxAge: cfg.Cache.ListingRevalidate,
	})

	var health bloghttp.Health

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", health.Live)
	mux.HandleFunc("/healthz", health.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", siteHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return fmt.Errorf("listen %s: %w", httpAddr, err)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	// Страницы, не собранные заранее, отдаются через fallback,
	// поэтому сервер принимает запросы уже во время сборки.
	go func() {
		if cfg.Site.Prebuild {
			start := time.Now()
			uids, err := a.svc.Prebuild(logctx.Into(rootCtx, log))
			if err != nil {
				log.Warn("prebuild_failed", slog.String("err", err.Error()))
			} else {
				log.Info("prebuild_done", slog.Int("posts", len(uids)), slog.Duration("dur", time.Since(start)))
			}
		}

		health.SetReady(true)
		log.Info("blog_ready")
	}()

	var serveErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	health.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")

	return serveErr
}
