// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPResponseSize  *prometheus.HistogramVec

	// Translator Metrics
	TranslateRequestsTotal *prometheus.CounterVec
	UnsupportedExpressions prometheus.Counter

	// Schedule Metrics
	SchedulesActive   prometheus.Gauge
	ScheduleTriggers  *prometheus.CounterVec
	TriggerDispatchDuration prometheus.Histogram

	// Database Metrics
	DBConnectionsActive prometheus.Gauge
	DBQueryErrors       *prometheus.CounterVec

	// Redis Metrics
	RedisOperationErrors *prometheus.CounterVec

	// Worker Metrics
	WorkerRunsTotal   *prometheus.CounterVec
	WorkerRunDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path", "status"},
		),

		TranslateRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "translate_requests_total",
				Help: "Total number of schedule translation requests",
			},
			[]string{"operation", "result"},
		),
		UnsupportedExpressions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "translate_unsupported_expressions_total",
				Help: "Total number of expressions outside the recognized subset",
			},
		),

		SchedulesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "schedules_enabled",
				Help: "Number of enabled task schedules",
			},
		),
		ScheduleTriggers: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "schedule_triggers_total",
				Help: "Total number of schedule trigger dispatches",
			},
			[]string{"status"},
		),
		TriggerDispatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "schedule_trigger_dispatch_duration_seconds",
				Help:    "Time spent dispatching a due schedule",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),

		DBConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBQueryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Total number of database query errors",
			},
			[]string{"query_type"},
		),

		RedisOperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redis_operations_errors_total",
				Help: "Total number of Redis operation errors",
			},
			[]string{"operation"},
		),

		WorkerRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_worker_runs_total",
				Help: "Total number of scheduler worker sweeps",
			},
			[]string{"status"},
		),
		WorkerRunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scheduler_worker_run_duration_seconds",
				Help:    "Duration of a scheduler worker sweep",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
	}
}
