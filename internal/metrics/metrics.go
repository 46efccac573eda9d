// Package metrics exposes pipeline instrumentation to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submissions counts finished pipeline runs by outcome and error kind.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speechpace_submissions_total",
			Help: "Pipeline runs by outcome (success|client_error|server_error) and error kind.",
		},
		[]string{"outcome", "kind"},
	)

	// StageDuration observes how long each pipeline stage took.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "speechpace_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"stage"},
	)

	// AudioDuration observes the measured length of canonical waveforms.
	AudioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speechpace_audio_duration_seconds",
		Help:    "Measured length of processed audio.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// WordsPerMinute observes computed speaking rates.
	WordsPerMinute = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speechpace_words_per_minute",
		Help:    "Computed speaking rate of successful runs.",
		Buckets: prometheus.LinearBuckets(0, 20, 12),
	})

	// CleanupErrors counts temporary files that could not be removed.
	CleanupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "speechpace_cleanup_errors_total",
		Help: "Temporary resources that failed to delete for reasons other than already being gone.",
	})
)

// ObserveStage records one stage timing.
func ObserveStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
