// Package metrics collects Prometheus metrics for the application.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockpile/internal/domain/posting"
)

// Metrics holds the registry and application counters.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	documentsPosted *prometheus.CounterVec
	movesWritten    prometheus.Counter
}

var _ posting.Recorder = (*Metrics)(nil)

// New initializes the registry and base metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpile_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockpile_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	posted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockpile_documents_posted_total",
		Help: "Documents posted by document type.",
	}, []string{"document_type"})

	moves := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stockpile_stock_moves_written_total",
		Help: "Ledger rows written by the posting engine.",
	})

	registry.MustRegister(requests, duration, posted, moves)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		documentsPosted: posted,
		movesWritten:    moves,
	}
}

// DocumentPosted records a successful posting.
func (m *Metrics) DocumentPosted(docType string) {
	if m == nil {
		return
	}
	m.documentsPosted.WithLabelValues(docType).Inc()
}

// MovesWritten records ledger rows written during a posting.
func (m *Metrics) MovesWritten(count int) {
	if m == nil {
		return
	}
	m.movesWritten.Add(float64(count))
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(m.handler)
}

// Middleware records request counts and durations per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}
