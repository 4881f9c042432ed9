package utils

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Outcome counters for the assignment batch operations.
	SyncOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_sync_bookings_total",
			Help: "Bookings processed by assignment sync, by outcome.",
		},
		[]string{"outcome"},
	)
	ReconcileOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_reconcile_records_total",
			Help: "Assignments examined by booking date reconciliation, by outcome.",
		},
		[]string{"outcome"},
	)
	MigrationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_migration_entries_total",
			Help: "Legacy identity migration entries applied, by outcome.",
		},
		[]string{"outcome"},
	)
	CleanupOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_legacy_cleanup_total",
			Help: "Legacy assignment ids handled by cleanup, by outcome.",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

// InitMetrics registers the collectors in the default registry.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal, httpRequestDuration,
			SyncOutcomes, ReconcileOutcomes, MigrationOutcomes, CleanupOutcomes,
		)
	})
}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// CountOutcome adds n to the outcome label of vec when n is positive.
func CountOutcome(vec *prometheus.CounterVec, outcome string, n int) {
	if n > 0 {
		vec.WithLabelValues(outcome).Add(float64(n))
	}
}

// InstrumentHTTP records request count and latency per matched route.
func InstrumentHTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
