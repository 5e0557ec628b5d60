package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Cart metrics
	CartOperations *prometheus.CounterVec
	CartRejections *prometheus.CounterVec
	Checkouts      *prometheus.CounterVec

	// Upstream API metrics
	UpstreamDuration *prometheus.HistogramVec

	// Catalog cache metrics
	CatalogCacheLookups *prometheus.CounterVec
}

// New registers every collector on reg using prefix as the metric namespace.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		CartOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_cart_operations_total",
				Help: "Total number of accepted cart operations",
			},
			[]string{"operation"},
		),
		CartRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_cart_rejections_total",
				Help: "Total number of rejected cart operations",
			},
			[]string{"operation", "reason"},
		),
		Checkouts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkouts_total",
				Help: "Total number of checkout attempts",
			},
			[]string{"result"},
		),
		UpstreamDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_upstream_request_duration_seconds",
				Help:    "Duration of calls to the store REST API in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CatalogCacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_cache_lookups_total",
				Help: "Catalog list cache lookups",
			},
			[]string{"result"},
		),
	}
}

// NewNop registers on a throwaway registry. Used by tests.
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}

// TrackUpstream returns a function that records the duration of an upstream call
func (m *Metrics) TrackUpstream(operation string) func() {
	start := time.Now()
	return func() {
		m.UpstreamDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordCartOperation(operation string) {
	m.CartOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordCartRejection(operation, reason string) {
	m.CartRejections.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) RecordCheckout(result string) {
	m.Checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CatalogCacheLookups.WithLabelValues(result).Inc()
}
