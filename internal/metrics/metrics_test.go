package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.CMSRequest("query", nil, 0.01)
	m.CMSRequest("query", errors.New("boom"), 0.02)
	m.CacheLookup("post", CacheHit)
	m.CacheLookup("post", CacheHit)
	m.LoadMore(LoadInFlight)
	m.Resolution("pending")
	m.Revalidation("listing", nil)

	require.Equal(t, 1.0, testutil.ToFloat64(m.cmsRequests.WithLabelValues("query", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cmsRequests.WithLabelValues("query", "error")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("post", CacheHit)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.loadMore.WithLabelValues(LoadInFlight)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("pending")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.revalidation.WithLabelValues("listing", "ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.CMSRequest("query", nil, 0)
		m.CacheLookup("post", CacheMiss)
		m.LoadMore(LoadOK)
		m.Resolution("resolved")
		m.Revalidation("post", nil)
	})
}
