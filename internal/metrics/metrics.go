package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Best-effort notification outcomes
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notification emails attempted",
		},
		[]string{"kind", "result"}, // result: sent, failed, skipped
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	ClientLogEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_log_entries_total",
			Help: "Total number of client log entries relayed",
		},
		[]string{"level"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordNotification counts a notification attempt.
func RecordNotification(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	NotificationsSent.WithLabelValues(kind, result).Inc()
}

// RecordNotificationSkipped counts a notification that had nobody to go to.
func RecordNotificationSkipped(kind string) {
	NotificationsSent.WithLabelValues(kind, "skipped").Inc()
}

// IncrementRateLimitHit counts a 429.
func IncrementRateLimitHit(route string) {
	RateLimitHits.WithLabelValues(route).Inc()
}

// IncrementClientLog counts a relayed client log entry.
func IncrementClientLog(level string) {
	ClientLogEntries.WithLabelValues(level).Inc()
}
