package metrics

import "time"

// RecordAggregate records one completed aggregation call.
func RecordAggregate(duration time.Duration) {
	AggregateDuration.Observe(duration.Seconds())
}

// RecordArticlesAggregated records the number of articles a category
// contributed to an aggregation result.
func RecordArticlesAggregated(category string, count int) {
	if count > 0 {
		ArticlesAggregatedTotal.WithLabelValues(category).Add(float64(count))
	}
}

// RecordFeedFetch records the retrieval duration for one category feed.
func RecordFeedFetch(category string, duration time.Duration) {
	FeedFetchDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordFeedFetchError records a category pipeline failure.
// errorType is a stable low-cardinality identifier such as "fetch_failed" or
// "parse_failed".
func RecordFeedFetchError(category, errorType string) {
	FeedFetchErrors.WithLabelValues(category, errorType).Inc()
}

// RecordItemRejected records a raw item dropped by the normalization quality
// floor, labeled by rejection reason.
func RecordItemRejected(reason string) {
	ItemsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordRelayAttempt records one relay fetch attempt.
// Result should be either "success" or "failure".
func RecordRelayAttempt(relay string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	RelayAttemptsTotal.WithLabelValues(relay, result).Inc()
}

// RecordImageResolved records which cascade strategy produced an article
// image. Strategy "none" means the whole cascade came up empty.
func RecordImageResolved(strategy string, duration time.Duration) {
	ImageResolutionsTotal.WithLabelValues(strategy).Inc()
	ImageResolutionDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records an aggregation cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}
