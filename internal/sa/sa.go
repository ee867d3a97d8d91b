// Package sa implements simulated annealing over job permutations. It is
// not one of the façade's fixed optimization methods (spec.md §4.6) — it
// is wired in as a benchmark-harness optimizer (SPEC_FULL.md §4), sharing
// the same flowshop.Simulate evaluator as every other method.
package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
)

// Solver implements simulated annealing.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New returns a new SA solver after validating cfg.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("sa: rng must not be nil")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

func (s *Solver) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	n := inst.NumJobs
	jobIDs := make([]int, n)
	for i, j := range inst.Jobs {
		jobIDs[i] = j.ID
	}
	toPermutation := func(indices []int) []int {
		perm := make([]int, n)
		for i, idx := range indices {
			perm[i] = jobIDs[idx]
		}
		return perm
	}
	simulateIndices := func(indices []int) (float64, error) {
		result, err := flowshop.Simulate(inst, toPermutation(indices))
		if err != nil {
			return 0, err
		}
		obsmetrics.Evaluations.WithLabelValues("sa").Inc()
		return result.Makespan, nil
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * n
	}

	curr := make([]int, n)
	cand := make([]int, n)

	initPermutation(curr)
	shufflePermutation(curr, s.Rng)

	currCost, err := simulateIndices(curr)
	if err != nil {
		return opt.Result{}, err
	}
	bestCost := currCost
	best := make([]int, n)
	copy(best, curr)

	evals := 1
	T := s.Cfg.InitialTemp

	finish := func(indices []int, cost float64, evals, iterations int, meta map[string]any) (opt.Result, error) {
		perm := toPermutation(indices)
		final, err := flowshop.Simulate(inst, perm)
		if err != nil {
			return opt.Result{}, err
		}
		res := opt.Result{
			Permutation: perm,
			Makespan:    cost,
			Schedule:    final.Schedule,
			Evaluations: evals,
			Iterations:  iterations,
			Duration:    time.Since(start),
			Meta:        meta,
		}
		obsmetrics.SearchDuration.WithLabelValues("sa").Observe(res.Duration.Seconds())
		obsmetrics.BestMakespan.WithLabelValues("sa").Observe(res.Makespan)
		return res, nil
	}

	for iter := 0; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		if err := ctx.Err(); err != nil {
			res, finishErr := finish(best, bestCost, evals, iter, map[string]any{"stopped": "context", "T": T})
			if finishErr != nil {
				return opt.Result{}, finishErr
			}
			return res, err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodSwap:
			neighborSwap(cand, s.Rng)
		case NeighborhoodInsert:
			neighborInsert(cand, s.Rng)
		default:
			neighborSwap(cand, s.Rng)
		}

		candCost, err := simulateIndices(cand)
		if err != nil {
			return opt.Result{}, err
		}
		evals++

		delta := candCost - currCost
		accept := false
		if delta <= 0 {
			accept = true
		} else {
			p := math.Exp(-delta / T)
			if s.Rng.Float64() < p {
				accept = true
			}
		}

		if accept {
			curr, cand = cand, curr
			currCost = candCost

			if currCost < bestCost {
				bestCost = currCost
				copy(best, curr)
			}
		}

		T *= s.Cfg.Alpha
	}

	return finish(best, bestCost, evals, maxIter, map[string]any{
		"initial_temp": s.Cfg.InitialTemp,
		"final_temp":   s.Cfg.FinalTemp,
		"alpha":        s.Cfg.Alpha,
		"neighborhood": string(s.Cfg.Neighborhood),
	})
}

// initPermutation fills p with [0, 1, ..., n-1] — indices into the
// instance's job slice, mapped to job ids before each Simulate call.
func initPermutation(p []int) {
	for i := range p {
		p[i] = i
	}
}

func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}

// neighborSwap builds a neighbor by swapping two random positions.
func neighborSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}

// neighborInsert builds a neighbor by removing the element at i and
// reinserting it at j.
func neighborInsert(p []int, rng *rand.Rand) {
	n := len(p)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}

	val := p[i]
	if i < j {
		copy(p[i:j], p[i+1:j+1])
		p[j] = val
	} else {
		copy(p[j+1:i+1], p[j:i])
		p[j] = val
	}
}
