package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics collection on a private registry.
type Metrics struct {
	reqTotal   *prometheus.CounterVec
	reqLatency *prometheus.HistogramVec
	errTotal   *prometheus.CounterVec
	registry   *prometheus.Registry
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	errTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_errors_total",
			Help: "Business failures by error code",
		},
		[]string{"method", "path", "code"},
	)

	registry.MustRegister(reqTotal, reqLatency, errTotal)

	return &Metrics{
		reqTotal:   reqTotal,
		reqLatency: reqLatency,
		errTotal:   errTotal,
		registry:   registry,
	}
}

// RecordRequest observes one completed request.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.reqTotal.WithLabelValues(method, path, code).Inc()
	m.reqLatency.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordError counts a business failure by its domain error code.
func (m *Metrics) RecordError(method, path, code string) {
	if m == nil {
		return
	}
	m.errTotal.WithLabelValues(method, path, code).Inc()
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
