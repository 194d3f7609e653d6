// Package metrics exposes Prometheus metrics for the shortener and its link cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"url-shortener-api/internal/cache"
)

// Metrics holds all Prometheus metrics for one application instance. Each
// instance owns its registry so several can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	LinksShortened    prometheus.Counter
	CapacityExhausted prometheus.Counter
	Recovers          *prometheus.CounterVec
	CacheEvictions    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with the given namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		LinksShortened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_shortened_total",
			Help:      "Total number of URLs shortened",
		}),
		CapacityExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capacity_exhausted_total",
			Help:      "Total number of shorten calls rejected because the token space is exhausted",
		}),
		Recovers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recover_total",
			Help:      "Total recover lookups by result",
		}, []string{"result"}),
		CacheEvictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total cache entries removed by reason",
		}, []string{"reason"}),
	}
}

// TrackCacheSize registers a gauge reporting the live entry count.
func (m *Metrics) TrackCacheSize(namespace string, size func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Current number of live cache entries",
	}, func() float64 { return float64(size()) })
}

// Shortened implements shortener.Observer.
func (m *Metrics) Shortened(string, string) {
	m.LinksShortened.Inc()
}

// Recovered implements shortener.Observer.
func (m *Metrics) Recovered(_ string, found bool) {
	if found {
		m.Recovers.WithLabelValues("hit").Inc()
		return
	}
	m.Recovers.WithLabelValues("miss").Inc()
}

// Exhausted implements shortener.Observer.
func (m *Metrics) Exhausted(uint64) {
	m.CapacityExhausted.Inc()
}

// Evicted records a cache eviction.
func (m *Metrics) Evicted(reason cache.EvictionReason) {
	m.CacheEvictions.WithLabelValues(string(reason)).Inc()
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
