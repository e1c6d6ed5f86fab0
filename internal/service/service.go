// service содержит бизнес-логику блога: первая страница списка, догрузка,
// разрешение постов по slug и фоновая перевыборка устаревших страниц.
package service

//go:generate mockgen -source=service.go -destination=../../mocks/mock_cms.go -package=mocks CMS

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pribylovaa/spacetraveling/internal/cache"
	"github.com/pribylovaa/spacetraveling/internal/cms"
	"github.com/pribylovaa/spacetraveling/internal/config"
	"github.com/pribylovaa/spacetraveling/internal/metrics"
	"github.com/pribylovaa/spacetraveling/internal/models"
	"github.com/pribylovaa/spacetraveling/internal/pkg/log"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotFound — в CMS нет такого документа.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstream — CMS недоступна или ответила ошибкой.
	// Транспорт: 502.
	ErrUpstream = errors.New("cms unavailable")
)

// Виды страниц для ключей кэша и меток метрик.
const (
	kindListing = "listing"
	kindPost    = "post"
	kindFeed    = "feed"
)

const (
	listingKey = "listing:first"
	feedKey    = "listing:all"
)

// maxFailures — сколько неотданных ошибок фонового разрешения хранится одновременно.
const maxFailures = 1024

func postKey(slug string) string { return "post:" + slug }

// CMS — контракт клиента CMS, нужный сервису.
type CMS interface {
	Query(ctx context.Context, opts models.QueryOptions) (*models.SummaryPage, error)
	PostByUID(ctx context.Context, docType, uid string) (*models.Post, error)
	NextPage(ctx context.Context, cursor string) (*models.SummaryPage, error)
	UIDs(ctx context.Context, docType string) ([]string, error)
}

// Options — параметры сервиса, собранные из конфигурации.
type Options struct {
	DocumentType string
	PageSize     int

	ListingRevalidate time.Duration
	PostRevalidate    time.Duration
	Retention         time.Duration

	CMSTimeout          time.Duration
	BackgroundTimeout   time.Duration
	PrebuildConcurrency int
	// ResolveConcurrency — предел одновременных фоновых выборок постов.
	ResolveConcurrency int
}

// OptionsFromConfig переносит нужные поля конфигурации в Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DocumentType:        cfg.CMS.DocumentType,
		PageSize:            cfg.CMS.PageSize,
		ListingRevalidate:   cfg.Cache.ListingRevalidate,
		PostRevalidate:      cfg.Cache.PostRevalidate,
		Retention:           cfg.Cache.Retention,
		CMSTimeout:          cfg.Timeouts.CMS,
		BackgroundTimeout:   cfg.Timeouts.Background,
		PrebuildConcurrency: cfg.Site.PrebuildConcurrency,
		ResolveConcurrency:  cfg.Site.ResolveConcurrency,
	}
}

// Service — бизнес-логика блога.
type Service struct {
	cms     CMS
	cache   cache.Store
	metrics *metrics.Metrics
	opts    Options
	now     func() time.Time

	group singleflight.Group

	// life — базовый контекст фоновых задач; отменяется в Close.
	life   context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup

	// resolving — семафор фоновых выборок постов.
	resolving chan struct{}

	mu       sync.Mutex
	inflight map[string]struct{}
	// failures — ошибки фонового разрешения, ещё не отданные клиенту.
	failures *lru.Cache[string, failure]
}

type failure struct {
	err error
	at  time.Time
}

// New создаёт сервис. m может быть nil.
func New(c CMS, store cache.Store, m *metrics.Metrics, opts Options) *Service {
	if opts.DocumentType == "" {
		opts.DocumentType = "posts"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 1
	}
	if opts.ListingRevalidate <= 0 {
		opts.ListingRevalidate = 24 * time.Hour
	}
	if opts.PostRevalidate <= 0 {
		opts.PostRevalidate = 5 * time.Minute
	}
	if opts.Retention < opts.ListingRevalidate {
		opts.Retention = 7 * opts.ListingRevalidate
	}
	if opts.CMSTimeout <= 0 {
		opts.CMSTimeout = 10 * time.Second
	}
	if opts.BackgroundTimeout <= 0 {
		opts.BackgroundTimeout = 30 * time.Second
	}
	if opts.PrebuildConcurrency <= 0 {
		opts.PrebuildConcurrency = 4
	}
	if opts.ResolveConcurrency <= 0 {
		opts.ResolveConcurrency = 16
	}

	// Ошибка возможна только при size <= 0.
	failures, _ := lru.New[string, failure](maxFailures)

	life, cancel := context.WithCancel(context.Background())

	return &Service{
		cms:       c,
		cache:     store,
		metrics:   m,
		opts:      opts,
		now:       time.Now,
		life:      life,
		cancel:    cancel,
		resolving: make(chan struct{}, opts.ResolveConcurrency),
		inflight:  make(map[string]struct{}),
		failures:  failures,
	}
}

// Wait блокируется до завершения всех запущенных фоновых задач.
func (s *Service) Wait() { s.bg.Wait() }

// Close отменяет фоновые задачи и ждёт их завершения.
func (s *Service) Close() {
	s.cancel()
	s.bg.Wait()
}

// background запускает fn в фоне, не более одной задачи на key.
// Контекст задачи не зависит от запроса, но несёт его логгер.
// Возвращает false, если задача по key уже выполняется.
func (s *Service) background(ctx context.Context, kind, key string, fn func(ctx context.Context) error) bool {
	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return false
	}
	s.inflight[key] = struct{}{}
	s.bg.Add(1)
	s.mu.Unlock()

	lg := log.From(ctx).With(slog.String("kind", kind), slog.String("key", key))

	go func() {
		defer s.bg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
		}()

		bctx, cancel := context.WithTimeout(log.Into(s.life, lg), s.opts.BackgroundTimeout)
		defer cancel()

		start := time.Now()
		err := fn(bctx)
		s.metrics.Revalidation(kind, err)

		if err != nil {
			lg.Warn("revalidate_failed",
				slog.Duration("took", time.Since(start)),
				slog.String("err", err.Error()),
			)
			return
		}

		lg.Debug("revalidated", slog.Duration("took", time.Since(start)))
	}()

	return true
}

// shared выполняет fn один раз для всех одновременных вызовов с key.
// fn работает в контексте сервиса с логгером первого вызова, поэтому
// отмена одного запроса не обрывает выборку для остальных.
func shared[T any](ctx context.Context, s *Service, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	lg := log.From(ctx)

	ch := s.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(log.Into(s.life, lg), s.opts.BackgroundTimeout)
		defer cancel()

		return fn(sctx)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}

// lookup читает запись кэша. Ошибка кэша логируется и считается промахом.
func (s *Service) lookup(ctx context.Context, kind, key string) (*cache.Entry, bool) {
	e, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheLookup(kind, metrics.CacheError)
		log.From(ctx).Warn("cache_get_failed",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)
		return nil, false
	}

	return e, ok
}

func (s *Service) isStale(e *cache.Entry, ttl time.Duration) bool {
	return e.Age(s.now()) >= ttl
}

// cmsCall выполняет обращение к CMS с таймаутом и метриками.
func cmsCall[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	cctx, cancel := context.WithTimeout(ctx, s.opts.CMSTimeout)
	defer cancel()

	start := time.Now()
	v, err := fn(cctx)

	counted := err
	if errors.Is(err, cms.ErrNotFound) {
		counted = nil
	}
	s.metrics.CMSRequest(op, counted, time.Since(start).Seconds())

	return v, mapCMSError(err)
}

// mapCMSError переводит ошибки клиента CMS в ошибки сервиса.
func mapCMSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cms.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, cms.ErrForeignCursor), errors.Is(err, cms.ErrInvalidOptions):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
