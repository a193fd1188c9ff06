// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Aggregation metrics track the news pipeline itself
var (
	// AggregateDuration measures end-to-end aggregation call duration
	AggregateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregate_duration_seconds",
			Help:    "End-to-end duration of one aggregation call",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// ArticlesAggregatedTotal counts articles surviving normalization per category
	ArticlesAggregatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_aggregated_total",
			Help: "Total number of articles produced by the aggregation pipeline",
		},
		[]string{"category"},
	)

	// FeedFetchDuration measures time to retrieve one category feed
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to retrieve a category feed document",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"category"},
	)

	// FeedFetchErrors counts category pipeline failures by type
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"category", "error_type"},
	)

	// ItemsRejectedTotal counts raw items dropped by the quality floor
	ItemsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_rejected_total",
			Help: "Total number of feed items rejected during normalization",
		},
		[]string{"reason"},
	)
)

// Transport metrics track relay and scrape behaviour
var (
	// RelayAttemptsTotal counts relay attempts by relay name and result
	RelayAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_attempts_total",
			Help: "Total number of relay fetch attempts",
		},
		[]string{"relay", "result"},
	)

	// ImageResolutionsTotal counts image resolutions by winning strategy
	ImageResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_resolutions_total",
			Help: "Total number of image resolutions by winning strategy",
		},
		[]string{"strategy"},
	)

	// ImageResolutionDuration measures time spent resolving one article image
	ImageResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_resolution_duration_seconds",
			Help:    "Time taken to resolve a representative image for one article",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4},
		},
	)

	// CacheLookupsTotal counts response cache lookups by result
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of aggregation cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
