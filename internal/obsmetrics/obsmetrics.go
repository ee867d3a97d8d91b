// Package obsmetrics registers the Prometheus metrics the optimization
// façade and the solvers record: evaluation counts, search duration and
// returned makespan per method. This is pure ambient observability — no
// search reads these metrics back.
package obsmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Evaluations counts calls into flowshop.Simulate, labeled by the
	// optimization method that triggered them.
	Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowshop",
		Name:      "simulate_evaluations_total",
		Help:      "Number of Simulate calls performed, by optimization method.",
	}, []string{"method"})

	// SearchDuration observes the wall-clock time of a search, labeled by
	// method; facade.Optimize and every solver's Solve each record one.
	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flowshop",
		Name:      "optimize_duration_seconds",
		Help:      "Wall-clock duration of a search, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// BestMakespan observes the makespan a search returned, labeled by
	// method; facade.Optimize and every solver's Solve each record one —
	// useful for tracking solution quality over time in a dashboard rather
	// than only a point-in-time benchmark CSV.
	BestMakespan = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flowshop",
		Name:      "optimize_best_makespan",
		Help:      "Best makespan returned by a search, by method.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"method"})
)
