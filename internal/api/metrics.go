package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abduldattijo/investment-data-app/internal/match"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so tests can build several servers in one process.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MatchesTotal    *prometheus.CounterVec
	MatchDuration   prometheus.Histogram
	ProfilesLoaded  prometheus.Gauge
}

// NewMetrics registers the server collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcmatch_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vcmatch_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		MatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vcmatch_matches_total",
			Help: "Match requests by ranking path",
		}, []string{"path"}),
		MatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcmatch_match_duration_seconds",
			Help:    "Time spent ranking investors",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		ProfilesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vcmatch_profiles_loaded",
			Help: "Investor profiles served",
		}),
	}
}

// ObserveMatch records one ranking call. It is passed to match.WithObserver.
func (m *Metrics) ObserveMatch(path match.Path, d time.Duration) {
	m.MatchesTotal.WithLabelValues(string(path)).Inc()
	m.MatchDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument counts and times requests by their chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
