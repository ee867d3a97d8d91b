// Package search implements spec.md §4.3's random permutation search: a
// seeded Fisher-Yates shuffle re-simulated maxIterations times, keeping
// the strictly-best makespan seen.
package search

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
)

// Random is the seeded uniform random-permutation optimizer.
type Random struct {
	Rng *rand.Rand

	// DisableFallback, when true, makes Solve return ErrSearchAborted
	// instead of falling back to the identity permutation when no
	// iteration ran. Instance validation rejects MaxIterations < 1, so
	// that only happens when ctx is already done before the first
	// iteration. The façade uses the default (false); the benchmark
	// harness does not use Random.
	DisableFallback bool
}

// NewRandom returns a Random search using rng as its sole source of
// randomness; determinism for a fixed (instance, seed, maxIterations) is
// inherited from rng being seeded deterministically by the caller.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{Rng: rng}
}

func (s *Random) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("search: rng must not be nil")
	}

	jobIDs := make([]int, inst.NumJobs)
	for i, j := range inst.Jobs {
		jobIDs[i] = j.ID
	}

	var bestPerm []int
	var bestSchedule []flowshop.TaskLog
	bestMakespan := 0.0
	evaluations := 0

	for iter := 0; iter < inst.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			res, fallbackErr := s.finish(inst, bestPerm, bestSchedule, bestMakespan, evaluations, iter, start, map[string]any{"stopped": "context"})
			if fallbackErr != nil {
				return opt.Result{}, fallbackErr
			}
			return res, err
		}

		perm := append([]int(nil), jobIDs...)
		fisherYatesShuffle(perm, s.Rng)

		result, err := flowshop.Simulate(inst, perm)
		if err != nil {
			return opt.Result{}, err
		}
		evaluations++
		obsmetrics.Evaluations.WithLabelValues("random").Inc()

		if bestPerm == nil || result.Makespan < bestMakespan {
			bestPerm = result.Permutation
			bestSchedule = result.Schedule
			bestMakespan = result.Makespan
		}
	}

	return s.finish(inst, bestPerm, bestSchedule, bestMakespan, evaluations, inst.MaxIterations, start, nil)
}

// finish applies the identity-permutation fallback (or ErrSearchAborted)
// when no iteration produced a result, and otherwise wraps the best
// permutation seen into a Result.
func (s *Random) finish(inst *flowshop.Instance, bestPerm []int, bestSchedule []flowshop.TaskLog, bestMakespan float64, evaluations, iterations int, start time.Time, meta map[string]any) (opt.Result, error) {
	if bestPerm == nil {
		if s.DisableFallback {
			return opt.Result{}, flowshop.ErrSearchAborted
		}
		identity := flowshop.IdentityPermutation(inst)
		result, err := flowshop.Simulate(inst, identity)
		if err != nil {
			return opt.Result{}, err
		}
		evaluations++
		bestPerm = result.Permutation
		bestSchedule = result.Schedule
		bestMakespan = result.Makespan
		if meta == nil {
			meta = map[string]any{}
		}
		meta["fallback"] = "identity"
	}

	obsmetrics.SearchDuration.WithLabelValues("random").Observe(time.Since(start).Seconds())
	obsmetrics.BestMakespan.WithLabelValues("random").Observe(bestMakespan)

	return opt.Result{
		Permutation: bestPerm,
		Makespan:    bestMakespan,
		Schedule:    bestSchedule,
		Evaluations: evaluations,
		Iterations:  iterations,
		Duration:    time.Since(start),
		Meta:        meta,
	}, nil
}

// fisherYatesShuffle draws a uniformly random permutation in place.
func fisherYatesShuffle(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
