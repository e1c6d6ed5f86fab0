package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
)

// ResolvePost разрешает пост по slug.
//
// Особенности:
//   - свежая запись кэша -> StateResolved или StateNotFound;
//   - устаревшая (старше PostRevalidate) отдаётся, перевыборка идёт в фоне;
//   - записи нет -> запускается фоновое разрешение, ответ StatePending;
//   - если фоновое разрешение упало, следующий запрос получит StateFailed
//     (один раз), а последующий начнёт разрешение заново;
//   - фоновых выборок не больше ResolveConcurrency; сверх предела ответ
//     StatePending без выборки, клиент повторит запрос;
//   - неотданная ошибка забывается через PostRevalidate.
//
// Ошибка возвращается только для пустого slug или отменённого ctx.
func (s *Service) ResolvePost(ctx context.Context, slug string) (models.Resolution, error) {
	const op = "service.ResolvePost"

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return models.Resolution{}, fmt.Errorf("%s: %w: empty slug", op, ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return models.Resolution{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx = log.With(ctx, slog.String("slug", slug))
	key := postKey(slug)

	if err := s.takeFailure(key); err != nil {
		s.metrics.Resolution(models.StateFailed.String())
		return models.Resolution{State: models.StateFailed, Err: err}, nil
	}

	if e, ok := s.lookup(ctx, kindPost, key); ok {
		res, err := decodeResolution(e)
		if err == nil {
			if s.isStale(e, s.opts.PostRevalidate) {
				s.metrics.CacheLookup(kindPost, metrics.CacheStale)
				s.resolveInBackground(ctx, key, func(ctx context.Context) error {
					_, err := s.refreshPost(ctx, slug)
					return err
				})
			} else {
				s.metrics.CacheLookup(kindPost, metrics.CacheHit)
			}

			s.metrics.Resolution(res.State.String())
			return res, nil
		}

		log.From(ctx).Warn("cache_payload_corrupted",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
	}

	s.metrics.CacheLookup(kindPost, metrics.CacheMiss)

	s.resolveInBackground(ctx, key, func(ctx context.Context) error {
		if _, err := s.refreshPost(ctx, slug); err != nil {
			s.recordFailure(key, err)
			return err
		}
		return nil
	})

	s.metrics.Resolution(models.StatePending.String())

	return models.Resolution{State: models.StatePending}, nil
}

// FetchPost синхронно выбирает пост из CMS и обновляет кэш.
// Нет документа -> ErrNotFound.
func (s *Service) FetchPost(ctx context.Context, slug string) (*models.Post, error) {
	const op = "service.FetchPost"

	ctx = log.With(ctx, slog.String("slug", slug))
	res, err := s.refreshPost(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if res.State == models.StateNotFound {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrNotFound, slug)
	}

	return res.Post, nil
}

// refreshPost выбирает пост из CMS и сохраняет результат, включая
// подтверждённое отсутствие документа.
func (s *Service) refreshPost(ctx context.Context, slug string) (models.Resolution, error) {
	const op = "service.refreshPost"

	post, err := cmsCall(ctx, s, "post_by_uid", func(ctx context.Context) (*models.Post, error) {
		return s.cms.PostByUID(ctx, s.opts.DocumentType, slug)
	})

	entry := &cache.Entry{StoredAt: s.now()}
	res := models.Resolution{State: models.StateResolved, Post: post}

	switch {
	case errors.Is(err, ErrNotFound):
		entry.NotFound = true
		res = models.Resolution{State: models.StateNotFound}
	case err != nil:
		return models.Resolution{}, fmt.Errorf("%s: %w", op, err)
	default:
		payload, err := json.Marshal(post)
		if err != nil {
			return models.Resolution{}, fmt.Errorf("%s: marshal: %w", op, err)
		}
		entry.Payload = payload
	}

	if err := s.cache.Set(ctx, postKey(slug), entry, s.opts.Retention); err != nil {
		return models.Resolution{}, fmt.Errorf("%s: cache_set: %w", op, err)
	}

	return res, nil
}

func decodeResolution(e *cache.Entry) (models.Resolution, error) {
	if e.NotFound {
		return models.Resolution{State: models.StateNotFound}, nil
	}

	var post models.Post
	if err := json.Unmarshal(e.Payload, &post); err != nil {
		return models.Resolution{}, err
	}

	return models.Resolution{State: models.StateResolved, Post: &post}, nil
}

// resolveInBackground запускает выборку поста, если есть свободный слот.
func (s *Service) resolveInBackground(ctx context.Context, key string, fn func(ctx context.Context) error) bool {
	select {
	case s.resolving <- struct{}{}:
	default:
		log.From(ctx).Debug("resolve_deferred", slog.String("key", key))
		return false
	}

	release := func() { <-s.resolving }

	started := s.background(ctx, kindPost, key, func(ctx context.Context) error {
		defer release()
		return fn(ctx)
	})
	if !started {
		release()
	}

	return started
}

func (s *Service) recordFailure(key string, err error) {
	s.failures.Add(key, failure{err: err, at: s.now()})
}

// takeFailure возвращает и забывает ошибку фонового разрешения key.
// Ошибка старше PostRevalidate считается устаревшей.
func (s *Service) takeFailure(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.failures.Peek(key)
	if !ok {
		return nil
	}
	s.failures.Remove(key)

	if s.now().Sub(f.at) >= s.opts.PostRevalidate {
		return nil
	}

	return f.err
}
