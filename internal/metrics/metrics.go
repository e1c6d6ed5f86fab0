// metrics — счётчики Prometheus блога.
//
// Все методы безопасны для nil-получателя: сервис можно собрать без метрик.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// Результаты обращений к кэшу.
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Итоги догрузки списка.
const (
	LoadOK       = "ok"
	LoadEmpty    = "no_more"
	LoadInFlight = "in_flight"
	LoadFailed   = "failed"
)

// Metrics — набор коллекторов блога.
type Metrics struct {
	cmsRequests  *prometheus.CounterVec
	cmsDuration  *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	loadMore     *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	revalidation *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (nil -> prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		cmsRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cms_requests_total",
			Help:      "CMS calls by operation and result.",
		}, []string{"op", "result"}),
		cmsDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cms_request_duration_seconds",
			Help:      "CMS call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_lookups_total",
			Help:      "Render cache lookups by page kind and result.",
		}, []string{"kind", "result"}),
		loadMore: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_load_more_total",
			Help:      "Listing load-more attempts by outcome.",
		}, []string{"outcome"}),
		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_resolutions_total",
			Help:      "Post resolutions by resulting state.",
		}, []string{"state"}),
		revalidation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revalidations_total",
			Help:      "Background revalidations by page kind and result.",
		}, []string{"kind", "result"}),
	}
}

// CMSRequest учитывает вызов CMS; seconds — длительность.
func (m *Metrics) CMSRequest(op string, err error, seconds float64) {
	if m == nil {
		return
	}

	m.cmsRequests.WithLabelValues(op, result(err)).Inc()
	m.cmsDuration.WithLabelValues(op).Observe(seconds)
}

// CacheLookup учитывает обращение к кэшу рендеринга.
func (m *Metrics) CacheLookup(kind, res string) {
	if m == nil {
		return
	}

	m.cache.WithLabelValues(kind, res).Inc()
}

// LoadMore учитывает итог догрузки списка.
func (m *Metrics) LoadMore(outcome string) {
	if m == nil {
		return
	}

	m.loadMore.WithLabelValues(outcome).Inc()
}

// Resolution учитывает состояние разрешения поста.
func (m *Metrics) Resolution(state string) {
	if m == nil {
		return
	}

	m.resolutions.WithLabelValues(state).Inc()
}

// Revalidation учитывает фоновую перевыборку.
func (m *Metrics) Revalidation(kind string, err error) {
	if m == nil {
		return
	}

	m.revalidation.WithLabelValues(kind, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
