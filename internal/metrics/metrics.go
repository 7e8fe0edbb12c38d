package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsGenerated counts scored wishlist items per run outcome.
	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_recommendations_generated_total",
			Help: "Total wishlist items scored, by outcome.",
		},
		[]string{"outcome"},
	)

	// ScoringDuration tracks how long a full scoring run takes.
	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wishlist_scoring_duration_seconds",
		Help:    "Duration of a full profile build and scoring pass.",
		Buckets: prometheus.DefBuckets,
	})

	// OptimizerRuns counts budget optimizations by the algorithm chosen.
	OptimizerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_optimizer_runs_total",
			Help: "Total budget optimizer runs, by algorithm (exact or greedy).",
		},
		[]string{"algorithm"},
	)

	// OptimizerSelectedItems observes how many items each optimization picked.
	OptimizerSelectedItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wishlist_optimizer_selected_items",
		Help:    "Number of items selected per budget optimization.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
	})
)
