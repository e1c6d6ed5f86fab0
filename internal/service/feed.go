package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// FeedPosts возвращает все краткие записи для ленты RSS.
// Кэшируется с тем же интервалом перевыборки, что и первая страница списка.
func (s *Service) FeedPosts(ctx context.Context) ([]models.PostSummary, error) {
	const op = "service.FeedPosts"

	if e, ok := s.lookup(ctx, kindFeed, feedKey); ok {
		var posts []models.PostSummary
		if err := json.Unmarshal(e.Payload, &posts); err == nil {
			if s.isStale(e, s.opts.ListingRevalidate) {
				s.metrics.CacheLookup(kindFeed, metrics.CacheStale)
				s.background(ctx, kindFeed, feedKey, func(ctx context.Context) error {
					_, err := s.refreshFeed(ctx)
					return err
				})
			} else {
				s.metrics.CacheLookup(kindFeed, metrics.CacheHit)
			}

			return posts, nil
		}

		log.From(ctx).Warn("cache_payload_corrupted", slog.String("key", feedKey))
	}

	s.metrics.CacheLookup(kindFeed, metrics.CacheMiss)

	v, err := shared(ctx, s, feedKey, s.refreshFeed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *Service) refreshFeed(ctx context.Context) ([]models.PostSummary, error) {
	const op = "service.refreshFeed"

	posts, err := s.AllSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	entry := &cache.Entry{StoredAt: s.now(), Payload: payload}
	if err := s.cache.Set(ctx, feedKey, entry, s.opts.Retention); err != nil {
		log.From(ctx).Warn("cache_set_failed",
			slog.String("op", op),
			slog.String("key", feedKey),
			slog.String("err", err.Error()),
		)
	}

	return posts, nil
}
