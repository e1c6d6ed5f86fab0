package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/listing"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// HomePage возвращает первую страницу списка.
//
// Особенности:
//   - свежая запись кэша отдаётся как есть;
//   - устаревшая (старше ListingRevalidate) отдаётся и перевыбирается в фоне;
//   - промах -> синхронная выборка, параллельные промахи схлопываются.
func (s *Service) HomePage(ctx context.Context) (*models.SummaryPage, error) {
	const op = "service.HomePage"

	if e, ok := s.lookup(ctx, kindListing, listingKey); ok {
		var page models.SummaryPage
		if err := json.Unmarshal(e.Payload, &page); err == nil {
			if s.isStale(e, s.opts.ListingRevalidate) {
				s.metrics.CacheLookup(kindListing, metrics.CacheStale)
				s.background(ctx, kindListing, listingKey, func(ctx context.Context) error {
					_, err := s.refreshListing(ctx)
					return err
				})
			} else {
				s.metrics.CacheLookup(kindListing, metrics.CacheHit)
			}

			return &page, nil
		}

		log.From(ctx).Warn("cache_payload_corrupted", slog.String("key", listingKey))
	}

	s.metrics.CacheLookup(kindListing, metrics.CacheMiss)

	v, err := shared(ctx, s, listingKey, s.refreshListing)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

// refreshListing выбирает первую страницу из CMS и кладёт её в кэш.
func (s *Service) refreshListing(ctx context.Context) (*models.SummaryPage, error) {
	const op = "service.refreshListing"

	page, err := cmsCall(ctx, s, "query", func(ctx context.Context) (*models.SummaryPage, error) {
		return s.cms.Query(ctx, models.QueryOptions{
			DocumentType: s.opts.DocumentType,
			PageSize:     s.opts.PageSize,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal: %w", op, err)
	}

	entry := &cache.Entry{StoredAt: s.now(), Payload: payload}
	if err := s.cache.Set(ctx, listingKey, entry, s.opts.Retention); err != nil {
		// Страница получена, отдаём её даже без кэша.
		log.From(ctx).Warn("cache_set_failed",
			slog.String("op", op),
			slog.String("key", listingKey),
			slog.String("err", err.Error()),
		)
	}

	return page, nil
}

// NextPage — загрузчик страницы по курсору для listing.Session.
func (s *Service) NextPage(ctx context.Context, cursor string) (*models.SummaryPage, error) {
	const op = "service.NextPage"

	page, err := cmsCall(ctx, s, "next_page", func(ctx context.Context) (*models.SummaryPage, error) {
		return s.cms.NextPage(ctx, cursor)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// LoadMore догружает следующую страницу в сессию списка.
// Возвращает число добавленных записей.
func (s *Service) LoadMore(ctx context.Context, sess *listing.Session) (int, error) {
	const op = "service.LoadMore"

	if sess == nil {
		return 0, fmt.Errorf("%s: %w: nil session", op, ErrInvalidArgument)
	}

	ctx = log.With(ctx, slog.String("session", sess.ID.String()))
	lg := log.From(ctx).With(slog.String("op", op))

	n, err := sess.LoadNext(ctx, s.NextPage)
	switch {
	case errors.Is(err, listing.ErrInFlight):
		s.metrics.LoadMore(metrics.LoadInFlight)
		lg.Debug("load_more_in_flight")
		return 0, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		s.metrics.LoadMore(metrics.LoadFailed)
		lg.Warn("load_more_failed", slog.String("err", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	case n == 0 && !sess.View().HasMore:
		s.metrics.LoadMore(metrics.LoadEmpty)
	default:
		s.metrics.LoadMore(metrics.LoadOK)
	}

	lg.Debug("load_more_done", slog.Int("added", n))

	return n, nil
}

// AllSummaries обходит весь список от первой страницы до последней.
// Используется статическим экспортом.
func (s *Service) AllSummaries(ctx context.Context) ([]models.PostSummary, error) {
	const op = "service.AllSummaries"

	first, err := s.refreshListing(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess := listing.NewSession(first)
	for sess.Cursor() != "" {
		if _, err := sess.LoadNext(ctx, s.NextPage); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return sess.View().Posts, nil
}
