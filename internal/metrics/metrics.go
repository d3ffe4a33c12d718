package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_likes_total",
			Help: "Like attempts by outcome",
		},
		[]string{"outcome"},
	)

	passesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_passes_total",
			Help: "Total number of passes recorded",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_matches_total",
			Help: "Total number of matches created",
		},
	)

	blocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_blocks_total",
			Help: "Total number of blocks recorded",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_compatibility_scores",
			Help:    "Distribution of compatibility scores served in feeds",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	feedBuildSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_feed_build_seconds",
			Help:    "Time spent building a feed",
			Buckets: prometheus.DefBuckets,
		},
	)

	feedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_feed_candidates",
			Help:    "Number of candidates returned per feed",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// Like outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeDuplicate     = "duplicate"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
)

func RecordLike(outcome string)     { likesTotal.WithLabelValues(outcome).Inc() }
func RecordPass()                   { passesTotal.Inc() }
func RecordMatch()                  { matchesTotal.Inc() }
func RecordBlock()                  { blocksTotal.Inc() }
func RecordCompatibility(score int) { compatibilityScores.Observe(float64(score)) }

func RecordFeedBuild(start time.Time, candidates int) {
	feedBuildSeconds.Observe(time.Since(start).Seconds())
	feedCandidates.Observe(float64(candidates))
}
