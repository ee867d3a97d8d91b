// Package bayes implements spec.md §4.4's Bayesian permutation optimizer:
// a continuous [0,1]^NumJobs vector decoded into a permutation by argsort
// (ties broken by ascending Job.id), searched with a Gaussian-process
// expected-improvement surrogate (GP-EI, chosen over TPE — see
// DESIGN.md). The surrogate and its gonum plumbing live in gp.go.
package bayes

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
	"gonum.org/v1/gonum/stat/distuv"
)

// Solver is the GP-EI Bayesian permutation optimizer.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New returns a Solver. A nil rng is seeded from inst.RandomSeed at
// Solve time, or from the wall clock if that is also unset.
func New(cfg Config, rng *rand.Rand) *Solver {
	return &Solver{Cfg: cfg, Rng: rng}
}

func (s *Solver) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	rng := s.Rng
	if rng == nil {
		seed := time.Now().UnixNano()
		if inst.RandomSeed != nil {
			seed = *inst.RandomSeed
		}
		rng = rand.New(rand.NewSource(seed))
	}

	n := inst.NumJobs
	var X [][]float64
	var y []float64

	var bestPerm []int
	var bestSchedule []flowshop.TaskLog
	bestMakespan := 0.0
	evaluations := 0

	evalPoint := func(x []float64) {
		perm := decode(x, inst)
		result, err := flowshop.Simulate(inst, perm)
		if err != nil {
			return
		}
		evaluations++
		obsmetrics.Evaluations.WithLabelValues("bayesian").Inc()
		X = append(X, append([]float64(nil), x...))
		y = append(y, result.Makespan)
		if bestPerm == nil || result.Makespan < bestMakespan {
			bestPerm = result.Permutation
			bestSchedule = result.Schedule
			bestMakespan = result.Makespan
		}
	}

	maxIter := inst.MaxIterations
	initial := s.Cfg.InitialSamples
	if initial > maxIter {
		initial = maxIter
	}

	for i := 0; i < initial; i++ {
		if ctx.Err() != nil {
			break
		}
		evalPoint(randomPoint(n, rng))
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}

	for iter := initial; iter < maxIter; iter++ {
		if ctx.Err() != nil {
			break
		}

		model, ok := fitGP(X, y, s.Cfg)
		if !ok {
			// Singular kernel (near-duplicate samples): fall back to a
			// plain random draw rather than abort the whole search.
			evalPoint(randomPoint(n, rng))
			continue
		}

		bestCandidate := randomPoint(n, rng)
		bestEI := -1.0
		for c := 0; c < s.Cfg.CandidatesPerIteration; c++ {
			candidate := randomPoint(n, rng)
			mean, std := model.predict(candidate)
			ei := expectedImprovement(bestMakespan, mean, std, s.Cfg.ExplorationXi, normal)
			if ei > bestEI {
				bestEI = ei
				bestCandidate = candidate
			}
		}
		evalPoint(bestCandidate)
	}

	if bestPerm == nil {
		if err := ctx.Err(); err != nil {
			return opt.Result{}, err
		}
		return opt.Result{}, flowshop.ErrSearchAborted
	}

	obsmetrics.SearchDuration.WithLabelValues("bayesian").Observe(time.Since(start).Seconds())
	obsmetrics.BestMakespan.WithLabelValues("bayesian").Observe(bestMakespan)

	return opt.Result{
		Permutation: bestPerm,
		Makespan:    bestMakespan,
		Schedule:    bestSchedule,
		Evaluations: evaluations,
		Iterations:  maxIter,
		Duration:    time.Since(start),
	}, nil
}

func randomPoint(n int, rng *rand.Rand) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = rng.Float64()
	}
	return p
}

// expectedImprovement is the closed-form EI for minimization (Mockus'
// formula, Jones et al. 1998), with Lizotte's xi exploration term.
func expectedImprovement(bestY, mean, std, xi float64, normal distuv.Normal) float64 {
	if std <= 0 {
		return 0
	}
	improvement := bestY - mean - xi
	z := improvement / std
	return improvement*normal.CDF(z) + std*normal.Prob(z)
}

// decode maps a continuous point to a permutation by argsort: the job at
// inst.Jobs[i] takes rank determined by x[i], ties broken by ascending
// Job.id (spec.md §4.4).
func decode(x []float64, inst *flowshop.Instance) []int {
	type indexed struct {
		idx int
		val float64
	}
	pairs := make([]indexed, len(x))
	for i, v := range x {
		pairs[i] = indexed{idx: i, val: v}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].val != pairs[j].val {
			return pairs[i].val < pairs[j].val
		}
		return inst.Jobs[pairs[i].idx].ID < inst.Jobs[pairs[j].idx].ID
	})
	perm := make([]int, len(pairs))
	for k, p := range pairs {
		perm[k] = inst.Jobs[p.idx].ID
	}
	return perm
}
