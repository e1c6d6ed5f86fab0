package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Prebuild заранее собирает первую страницу списка и все посты в кэш.
// Возвращает slug'и, собранные успешно. Ошибка отдельного поста
// логируется и не прерывает сборку остальных.
func (s *Service) Prebuild(ctx context.Context) ([]string, error) {
	const op = "service.Prebuild"

	lg := log.From(ctx).With(slog.String("op", op))
	start := time.Now()

	if _, err := s.refreshListing(ctx); err != nil {
		return nil, fmt.Errorf("%s: listing: %w", op, err)
	}

	uids, err := cmsCall(ctx, s, "uids", func(ctx context.Context) ([]string, error) {
		return s.cms.UIDs(ctx, s.opts.DocumentType)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: uids: %w", op, err)
	}

	ok := make([]bool, len(uids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.PrebuildConcurrency)

	for i, uid := range uids {
		g.Go(func() error {
			res, err := s.refreshPost(gctx, uid)
			if err != nil {
				lg.Warn("prebuild_post_failed", slog.String("uid", uid), slog.String("err", err.Error()))
				return nil
			}
			if res.State != models.StateResolved {
				return nil
			}

			ok[i] = true

			return nil
		})
	}

	_ = g.Wait()

	built := make([]string, 0, len(uids))
	for i, uid := range uids {
		if ok[i] {
			built = append(built, uid)
		}
	}

	if err := ctx.Err(); err != nil {
		return built, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("prebuild_done",
		slog.Int("posts", len(uids)),
		slog.Int("built", len(built)),
		slog.Duration("took", time.Since(start)),
	)

	return built, nil
}
