// Package metrics registers the Prometheus collectors tracking
// per-route request rate and latency, fed by a per-route middleware the
// router attaches to each game route with With() (spec.md SPEC_FULL
// §10.4). Grounded on
// marmos91-dittofs's use of github.com/prometheus/client_golang for
// its own store health surface; this system has no teacher file to
// adapt line-for-line since the teacher carries no metrics system, so
// this is net-new code in the pack's idiom.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a small registrar type constructed once in main and
// injected into the router, mirroring the slog-adjacent "one small
// registrar" shape used elsewhere in this codebase. It keeps the
// registry it registered against so /metrics can gather from the same
// place Observe writes to, rather than the unrelated global default.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New registers the collectors against reg and returns the registrar.
// If reg is nil, a fresh private registry is used (nil is never
// treated as the global DefaultRegisterer, so Handler always gathers
// exactly the collectors New just registered).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clanserver",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and HTTP status.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clanserver",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// Handler serves /metrics by gathering from the same registry Observe
// writes into.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Observe records one completed request for route.
func (m *Metrics) Observe(route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}
