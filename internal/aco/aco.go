// Package aco implements ant colony optimization over job permutations —
// a benchmark-harness-only optimizer (SPEC_FULL.md §4), not part of the
// façade's fixed method set.
package aco

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

// Solver implements ant colony optimization.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New returns a new ACO solver after validating cfg.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("aco: rng must not be nil")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

func (s *Solver) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	startTime := time.Now()

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
		obsmetrics.Evaluations.WithLabelValues("aco").Inc()
		return result.Makespan, nil
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerJob * n
	}

	ants := s.Cfg.Ants
	if ants < 1 {
		ants = 1
	}

	// Heuristic desirability: faster total-processing-time jobs look
	// more attractive.
	eta := make([]float64, n)
	for i, job := range inst.Jobs {
		sum := 0.0
		for _, p := range job.ProcessingTimes {
			sum += p
		}
		eta[i] = 1.0 / (sum + 1)
	}

	// Pheromone matrix, n+1 rows: row n is the virtual start node.
	tau := make([]float64, (n+1)*n)
	for i := range tau {
		tau[i] = s.Cfg.Tau0
	}

	perm := make([]int, n)
	available := make([]int, n)
	weights := make([]float64, n)

	bestIndices := make([]int, n)
	bestCost := math.MaxFloat64
	evals := 0

	alpha := s.Cfg.Alpha
	beta := s.Cfg.Beta
	rho := s.Cfg.Rho
	Q := s.Cfg.Q

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
			Duration:    time.Since(startTime),
			Meta:        meta,
		}
		obsmetrics.SearchDuration.WithLabelValues("aco").Observe(res.Duration.Seconds())
		obsmetrics.BestMakespan.WithLabelValues("aco").Observe(res.Makespan)
		return res, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			res, finishErr := finish(bestIndices, bestCost, evals, iter, map[string]any{"stopped": "context"})
			if finishErr != nil {
				return opt.Result{}, finishErr
			}
			return res, err
		}

		iterBestCost := math.MaxFloat64
		iterBestIndices := make([]int, n)

		for a := 0; a < ants; a++ {
			constructPermutation(
				n, tau, eta,
				alpha, beta,
				s.Cfg.CandidateK,
				s.Rng,
				perm, available, weights,
			)

			cost, err := simulateIndices(perm)
			if err != nil {
				return opt.Result{}, err
			}
			evals++

			if cost < iterBestCost {
				iterBestCost = cost
				copy(iterBestIndices, perm)
			}
			if cost < bestCost {
				bestCost = cost
				copy(bestIndices, perm)
			}
		}

		ev := 1.0 - rho
		for i := range tau {
			tau[i] *= ev
			if tau[i] < 1e-12 {
				tau[i] = 1e-12
			}
		}

		dep := Q / iterBestCost
		addPheromonePath(tau, n, iterBestIndices, dep)
	}

	return finish(bestIndices, bestCost, evals, maxIter, map[string]any{
		"ants":        ants,
		"alpha":       alpha,
		"beta":        beta,
		"rho":         rho,
		"Q":           Q,
		"tau0":        s.Cfg.Tau0,
		"candidate_k": s.Cfg.CandidateK,
	})
}

func tauIdx(n, from, to int) int {
	return from*n + to
}

// addPheromonePath deposits pheromone along the full path, from the
// virtual start node through to the last job.
func addPheromonePath(tau []float64, n int, perm []int, delta float64) {
	if len(perm) == 0 {
		return
	}
	start := n
	first := perm[0]
	tau[tauIdx(n, start, first)] += delta
	for i := 0; i < len(perm)-1; i++ {
		from := perm[i]
		to := perm[i+1]
		tau[tauIdx(n, from, to)] += delta
	}
}

// constructPermutation builds one ant's permutation: at each step the
// next job is chosen stochastically by the ACO transition rule.
func constructPermutation(
	n int,
	tau []float64,
	eta []float64,
	alpha float64,
	beta float64,
	candidateK int,
	rng *rand.Rand,
	outPerm []int,
	available []int,
	weights []float64,
) {
	for i := 0; i < n; i++ {
		available[i] = i
	}
	rem := n

	prev := n // virtual start node

	for pos := 0; pos < n; pos++ {
		k := rem
		if candidateK > 0 && candidateK < rem {
			k = candidateK
			for t := 0; t < k; t++ {
				r := t + rng.Intn(rem-t)
				available[t], available[r] = available[r], available[t]
			}
		}

		sumW := 0.0
		for i := 0; i < k; i++ {
			j := available[i]
			t := tau[tauIdx(n, prev, j)]
			w := fastPow(t, alpha) * fastPow(eta[j], beta)
			weights[i] = w
			sumW += w
		}

		var chosenIdx int
		if sumW <= 0 {
			chosenIdx = rng.Intn(k)
		} else {
			r := rng.Float64() * sumW
			acc := 0.0
			chosenIdx = k - 1
			for i := 0; i < k; i++ {
				acc += weights[i]
				if r <= acc {
					chosenIdx = i
					break
				}
			}
		}

		job := available[chosenIdx]
		outPerm[pos] = job
		prev = job

		available[chosenIdx], available[rem-1] =
			available[rem-1], available[chosenIdx]
		rem--
	}
}

// fastPow avoids math.Pow for the exponents ACO actually uses.
func fastPow(x, p float64) float64 {
	if p == 0 {
		return 1.0
	}
	if p == 1 {
		return x
	}
	if p == 2 {
		return x * x
	}
	return math.Pow(x, p)
}
