package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"url-shortener-api/internal/cache"
)

func TestMetrics_Observer(t *testing.T) {
	m := NewMetrics("shortener")
	m.Shortened("00000001", "http://a")
	m.Shortened("00000002", "http://b")
	m.Recovered("00000001", true)
	m.Recovered("zzzzzzzz", false)
	m.Recovered("zzzzzzzy", false)
	m.Exhausted(1 << 50)
	m.Evicted(cache.ReasonCapacity)

	require.Equal(t, 2.0, testutil.ToFloat64(m.LinksShortened))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Recovers.WithLabelValues("hit")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Recovers.WithLabelValues("miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CapacityExhausted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictions.WithLabelValues("capacity")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("shortener")
	m.TrackCacheSize("shortener", func() int { return 3 })
	m.Shortened("00000001", "http://a")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "shortener_links_shortened_total 1")
	require.Contains(t, w.Body.String(), "shortener_cache_entries 3")
}
