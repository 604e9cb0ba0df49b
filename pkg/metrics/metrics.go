package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	RecordsMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_materialized_count",
			Help: "Total number of daily records created on first access",
		},
		[]string{"outcome"}, // outcome: created, race_lost
	)

	ReminderChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_check_count",
			Help: "Total number of per-user reminder evaluations",
		},
		[]string{"result"}, // result: sent, skipped, failed
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func IncrementRecordsMaterialized(outcome string) {
	RecordsMaterialized.WithLabelValues(outcome).Inc()
}

func IncrementReminderCheck(result string) {
	ReminderChecks.WithLabelValues(result).Inc()
}
