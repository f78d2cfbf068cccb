// Package metrics provides Prometheus metrics for blogcms.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogcms",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blogcms",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// CacheLookups counts article cache lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogcms",
			Name:      "article_cache_lookups_total",
			Help:      "Article cache lookups by result",
		},
		[]string{"result"},
	)

	// LoginAttempts counts login attempts by outcome.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogcms",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// UploadsTotal counts media uploads by status.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogcms",
			Name:      "media_uploads_total",
			Help:      "Media uploads by status",
		},
		[]string{"status"},
	)

	// UploadBytes observes stored object sizes.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "blogcms",
			Name:      "media_upload_bytes",
			Help:      "Size of stored media objects",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

func RecordUpload(status string, size int64) {
	UploadsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		UploadBytes.Observe(float64(size))
	}
}
