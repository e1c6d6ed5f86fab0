package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/spacetraveling/internal/config"
	"github.com/pribylovaa/spacetraveling/internal/export"
	logctx "github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

var outDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static HTML",
	Long: `build fetches every post from the CMS and writes index.html,
post/<uid>/index.html and the static assets into the output directory
(--out, default from config: public).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.MustLoad(configPath)
		if outDir != "" {
			cfg.Build.OutputDir = outDir
		}

		log := setupLogger(cfg.Env)
		slog.SetDefault(log)
		ctx := logctx.Into(cmd.Context(), log)

		a, err := newApp(ctx, cfg, log, nil)
		if err != nil {
			log.Error("app_init_failed", slog.String("err", err.Error()))
			return err
		}
		defer a.Close()

		start := time.Now()
		res, err := export.Site(ctx, a.svc, a.view, export.Options{
			OutputDir:   cfg.Build.OutputDir,
			Concurrency: cfg.Site.PrebuildConcurrency,
			Feed:        a.feedChannel(),
		})
		if err != nil {
			log.Error("build_failed", slog.String("err", err.Error()))
			return err
		}

		log.Info("build_done",
			slog.String("out", cfg.Build.OutputDir),
			slog.Int("posts", len(res.Posts)),
			slog.Int("skipped", len(res.Skipped)),
			slog.Duration("dur", time.Since(start)),
		)

		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&outDir, "out", "", "output directory")
}
