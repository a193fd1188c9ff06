package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prefetch job metrics.
var (
	prefetchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cardfeed_prefetch_runs_total",
		Help: "Total prefetch job runs by status.",
	}, []string{"status"})

	prefetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cardfeed_prefetch_duration_seconds",
		Help:    "Duration of prefetch job runs.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
	})

	prefetchLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cardfeed_prefetch_last_success_timestamp",
		Help: "Unix timestamp of the last fully successful prefetch run.",
	})
)

func recordRun(status string, duration time.Duration) {
	prefetchRunsTotal.WithLabelValues(status).Inc()
	prefetchDuration.Observe(duration.Seconds())
	if status == "success" {
		prefetchLastSuccess.SetToCurrentTime()
	}
}
