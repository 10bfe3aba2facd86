package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pigstar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pigstar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TogglesTotal counts relationship toggles by edge kind and resulting state.
	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pigstar_toggles_total",
			Help: "Relationship toggles by kind and resulting state",
		},
		[]string{"kind", "state"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pigstar_notifications_created_total",
			Help: "Notifications written, by type",
		},
		[]string{"type"},
	)

	FeedCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigstar_feed_cache_hits_total",
		Help: "Feed cache hits",
	})

	FeedCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pigstar_feed_cache_misses_total",
		Help: "Feed cache misses",
	})

	MediaOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pigstar_media_operations_total",
			Help: "Media store operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)
