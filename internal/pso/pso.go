// Package pso implements particle swarm optimization over job
// permutations via a random-keys decode — a benchmark-harness-only
// optimizer (SPEC_FULL.md §4), not part of the façade's fixed method set.
package pso

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
)

// Solver implements particle swarm optimization.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New returns a new PSO solver after validating cfg.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("pso: rng must not be nil")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// particle is one member of the swarm.
type particle struct {
	pos []float64
	vel []float64

	pBestPos  []float64
	pBestCost float64

	permScratch []int
	idxScratch  []int
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
		obsmetrics.Evaluations.WithLabelValues("pso").Inc()
		return result.Makespan, nil
	}

	iters := s.Cfg.Iterations
	if iters <= 0 {
		iters = s.Cfg.IterationsPerJob * n
	}

	ps := make([]particle, s.Cfg.Particles)
	for i := range ps {
		ps[i] = particle{
			pos:         make([]float64, n),
			vel:         make([]float64, n),
			pBestPos:    make([]float64, n),
			pBestCost:   math.MaxFloat64,
			permScratch: make([]int, n),
			idxScratch:  make([]int, n),
		}
	}

	posMin, posMax := s.Cfg.PosMin, s.Cfg.PosMax
	doPosClamp := posMin < posMax

	evals := 0
	for i := range ps {
		for d := 0; d < n; d++ {
			if doPosClamp {
				ps[i].pos[d] = posMin + s.Rng.Float64()*(posMax-posMin)
			} else {
				ps[i].pos[d] = s.Rng.Float64()
			}
			if s.Cfg.VMax > 0 {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * s.Cfg.VMax
			} else {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * 0.1
			}
		}

		decodeRandomKeys(ps[i].pos, ps[i].permScratch, ps[i].idxScratch)
		cost, err := simulateIndices(ps[i].permScratch)
		if err != nil {
			return opt.Result{}, err
		}
		evals++

		ps[i].pBestCost = cost
		copy(ps[i].pBestPos, ps[i].pos)
	}

	gBestPos := make([]float64, n)
	gBestIndices := make([]int, n)
	gBestCost := math.MaxFloat64

	for i := range ps {
		if ps[i].pBestCost < gBestCost {
			gBestCost = ps[i].pBestCost
			copy(gBestPos, ps[i].pBestPos)
			decodeRandomKeys(gBestPos, gBestIndices, make([]int, n))
		}
	}

	w, c1, c2 := s.Cfg.W, s.Cfg.C1, s.Cfg.C2
	vMax := s.Cfg.VMax

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
		obsmetrics.SearchDuration.WithLabelValues("pso").Observe(res.Duration.Seconds())
		obsmetrics.BestMakespan.WithLabelValues("pso").Observe(res.Makespan)
		return res, nil
	}

	for iter := 0; iter < iters; iter++ {
		if err := ctx.Err(); err != nil {
			res, finishErr := finish(gBestIndices, gBestCost, evals, iter, map[string]any{"stopped": "context"})
			if finishErr != nil {
				return opt.Result{}, finishErr
			}
			return res, err
		}

		for i := range ps {
			p := &ps[i]

			for d := 0; d < n; d++ {
				r1 := s.Rng.Float64()
				r2 := s.Rng.Float64()

				v := w*p.vel[d] +
					c1*r1*(p.pBestPos[d]-p.pos[d]) +
					c2*r2*(gBestPos[d]-p.pos[d])

				if vMax > 0 {
					if v > vMax {
						v = vMax
					} else if v < -vMax {
						v = -vMax
					}
				}
				p.vel[d] = v

				x := p.pos[d] + v
				if doPosClamp {
					if x < posMin {
						x = posMin
						p.vel[d] = 0
					} else if x > posMax {
						x = posMax
						p.vel[d] = 0
					}
				}
				p.pos[d] = x
			}

			decodeRandomKeys(p.pos, p.permScratch, p.idxScratch)
			cost, err := simulateIndices(p.permScratch)
			if err != nil {
				return opt.Result{}, err
			}
			evals++

			if cost < p.pBestCost {
				p.pBestCost = cost
				copy(p.pBestPos, p.pos)
			}

			if cost < gBestCost {
				gBestCost = cost
				copy(gBestPos, p.pos)
				copy(gBestIndices, p.permScratch)
			}
		}
	}

	return finish(gBestIndices, gBestCost, evals, iters, map[string]any{
		"particles": s.Cfg.Particles,
		"w":         w,
		"c1":        c1,
		"c2":        c2,
		"vmax":      vMax,
		"pos_min":   posMin,
		"pos_max":   posMax,
	})
}

// decodeRandomKeys turns continuous random-keys into a permutation of
// indices by argsort, ties broken by ascending index.
func decodeRandomKeys(keys []float64, outPerm []int, idxScratch []int) {
	n := len(keys)
	for i := 0; i < n; i++ {
		idxScratch[i] = i
	}
	sort.Slice(idxScratch, func(i, j int) bool {
		a := idxScratch[i]
		b := idxScratch[j]
		ka := keys[a]
		kb := keys[b]
		if ka == kb {
			return a < b
		}
		return ka < kb
	})
	copy(outPerm, idxScratch)
}
