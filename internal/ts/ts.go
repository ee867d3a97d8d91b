// Package ts implements tabu search over job permutations — a
// benchmark-harness-only optimizer (SPEC_FULL.md §4), not part of the
// façade's fixed method set.
package ts

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

// infCost stands in for infinity when comparing candidate move costs.
const infCost = math.MaxFloat64

// Solver implements tabu search.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
}

// New returns a new TS solver after validating cfg.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("ts: rng must not be nil")
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
		obsmetrics.Evaluations.WithLabelValues("ts").Inc()
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
	evals := 1

	best := make([]int, n)
	copy(best, curr)
	bestCost := currCost

	// Tabu list: ring buffer backed by a map, sized with headroom over
	// the tenure so entries don't get evicted before they expire.
	tabu := newTabuList(max(32, (s.Cfg.TabuTenure+s.Cfg.TabuTenureRand)*4))

	neighbors := s.Cfg.NeighborsPerIter
	if neighbors < 1 {
		neighbors = 1
	}

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
		obsmetrics.SearchDuration.WithLabelValues("ts").Observe(res.Duration.Seconds())
		obsmetrics.BestMakespan.WithLabelValues("ts").Observe(res.Makespan)
		return res, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			res, finishErr := finish(best, bestCost, evals, iter, map[string]any{"stopped": "context"})
			if finishErr != nil {
				return opt.Result{}, finishErr
			}
			return res, err
		}

		bestMoveFrom, bestMoveTo := -1, -1
		bestMoveCost := infCost
		bestMoveJob := -1

		// Best move regardless of tabu status, used as a fallback when
		// every sampled move is tabu and none meets the aspiration
		// criterion.
		fallbackFrom, fallbackTo := -1, -1
		fallbackCost := infCost
		fallbackJob := -1

		for k := 0; k < neighbors; k++ {
			from := s.Rng.Intn(n)
			to := s.Rng.Intn(n - 1)
			if to >= from {
				to++
			}

			job := curr[from]
			key := moveKey(job, from, to)

			copy(cand, curr)
			switch s.Cfg.Neighborhood {
			case NeighborhoodInsert:
				applyInsert(cand, from, to)
			case NeighborhoodSwap:
				applySwap(cand, from, to)
			default:
				applyInsert(cand, from, to)
			}

			cost, err := simulateIndices(cand)
			if err != nil {
				return opt.Result{}, err
			}
			evals++

			if cost < fallbackCost {
				fallbackCost = cost
				fallbackFrom, fallbackTo = from, to
				fallbackJob = job
			}

			isTabu := tabu.IsTabu(key, iter)
			aspiration := cost < bestCost

			if isTabu && !aspiration {
				continue
			}

			if cost < bestMoveCost {
				bestMoveCost = cost
				bestMoveFrom, bestMoveTo = from, to
				bestMoveJob = job
			}
		}

		chosenFrom, chosenTo := bestMoveFrom, bestMoveTo
		chosenCost := bestMoveCost
		chosenJob := bestMoveJob

		if chosenFrom < 0 {
			chosenFrom, chosenTo = fallbackFrom, fallbackTo
			chosenCost = fallbackCost
			chosenJob = fallbackJob
		}

		if chosenFrom < 0 {
			break
		}

		switch s.Cfg.Neighborhood {
		case NeighborhoodInsert:
			applyInsert(curr, chosenFrom, chosenTo)
		case NeighborhoodSwap:
			applySwap(curr, chosenFrom, chosenTo)
		default:
			applyInsert(curr, chosenFrom, chosenTo)
		}
		currCost = chosenCost

		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TabuTenureRand + 1)
		}
		reverseKey := moveKey(chosenJob, chosenTo, chosenFrom)
		tabu.Add(reverseKey, iter+tenure)

		if currCost < bestCost {
			bestCost = currCost
			copy(best, curr)
		}
	}

	return finish(best, bestCost, evals, maxIter, map[string]any{
		"tabu_tenure":        s.Cfg.TabuTenure,
		"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
		"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		"neighborhood":       string(s.Cfg.Neighborhood),
	})
}

// tabuList is a fixed-capacity ring buffer of moves with a map for O(1)
// tabu-status lookups.
type tabuList struct {
	m   map[uint64]int // move key -> expiry iteration
	key []uint64
	exp []int
	i   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
		i:   0,
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	if exp, ok := t.m[k]; ok && exp > iter {
		return true
	}
	return false
}

func (t *tabuList) Add(k uint64, expiry int) {
	oldK := t.key[t.i]
	oldExp := t.exp[t.i]
	if oldK != 0 {
		if curExp, ok := t.m[oldK]; ok && curExp == oldExp {
			delete(t.m, oldK)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}

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

func applySwap(p []int, i, j int) {
	p[i], p[j] = p[j], p[i]
}

func applyInsert(p []int, from, to int) {
	if from == to {
		return
	}
	val := p[from]
	if from < to {
		copy(p[from:to], p[from+1:to+1])
		p[to] = val
		return
	}
	copy(p[to+1:from+1], p[to:from])
	p[to] = val
}

// moveKey packs (job, from, to) into a single comparable key.
func moveKey(job, from, to int) uint64 {
	return (uint64(uint32(job)) << 42) |
		(uint64(uint32(from)) << 21) |
		uint64(uint32(to))
}
