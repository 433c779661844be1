package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/observability"
)

// Metrics backs the observability hooks with Prometheus collectors.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	SolveDuration   *prometheus.HistogramVec
	SolvesTotal     *prometheus.CounterVec
	FrontierSize    prometheus.Histogram
	CoverSize       prometheus.Histogram
	CacheEvents     *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bilateral_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bilateral_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		SolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bilateral_enumerate_duration_seconds",
				Help:    "Time spent enumerating candidate covers",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"outcome"},
		),
		SolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bilateral_enumerations_total",
				Help: "Enumerations by outcome",
			},
			[]string{"outcome"},
		),
		FrontierSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bilateral_frontier_size",
				Help:    "Candidate covers left after enumeration",
				Buckets: prometheus.ExponentialBuckets(1, 4, 12),
			},
		),
		CoverSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bilateral_cover_size",
				Help:    "Size of the selected minimum cover",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bilateral_cache_events_total",
				Help: "Cache lookups and writes by entry kind",
			},
			[]string{"kind", "event"},
		),
		CacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bilateral_cache_written_bytes_total",
				Help: "Bytes written to the cache by entry kind",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(
		m.RequestDuration, m.RequestsTotal,
		m.SolveDuration, m.SolvesTotal, m.FrontierSize, m.CoverSize,
		m.CacheEvents, m.CacheBytes,
	)
	return m
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeResourceLimit:
		return "resource_limit"
	case errs.ErrCodeTimeout:
		return "timeout"
	}
	return "error"
}

func (m *Metrics) OnEnumerateStart(context.Context, int) {}

func (m *Metrics) OnEnumerateComplete(_ context.Context, _, frontier int, d time.Duration, err error) {
	o := outcome(err)
	m.SolvesTotal.WithLabelValues(o).Inc()
	m.SolveDuration.WithLabelValues(o).Observe(d.Seconds())
	if err == nil {
		m.FrontierSize.Observe(float64(frontier))
	}
}

func (m *Metrics) OnSelect(_ context.Context, size int, _ bool) {
	m.CoverSize.Observe(float64(size))
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.CacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.CacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.CacheEvents.WithLabelValues(kind, "set").Inc()
	m.CacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.RequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
	m.RequestsTotal.WithLabelValues(method, route, code).Inc()
}

var (
	_ observability.SolverHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
