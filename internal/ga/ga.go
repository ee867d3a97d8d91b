// Package ga implements spec.md §4.5's genetic algorithm: OX1 ordered
// crossover, shuffle-indexes mutation, tournament selection and elitism
// over permutations, all sized from the instance's GA* fields.
package ga

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
)

// Solver is the genetic-algorithm optimizer.
type Solver struct {
	Rng *rand.Rand
}

// New returns a GA solver using rng as its sole source of randomness.
func New(rng *rand.Rand) (*Solver, error) {
	if rng == nil {
		return nil, fmt.Errorf("ga: rng must not be nil")
	}
	return &Solver{Rng: rng}, nil
}

func (s *Solver) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
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

	popSize := inst.GAPopulationSize
	generations := inst.MaxIterations
	elite := inst.GAElitismCount
	tournamentSize := inst.GATournamentSize
	mutationRate := inst.GAMutationRate

	makePerms := func() [][]int {
		backing := make([]int, popSize*n)
		perms := make([][]int, popSize)
		for i := 0; i < popSize; i++ {
			perms[i] = backing[i*n : (i+1)*n]
		}
		return perms
	}

	// Two populations, current (A) and next (B), swapped each generation
	// instead of reallocated.
	permsA := makePerms()
	permsB := makePerms()
	scoresA := make([]float64, popSize)
	scoresB := make([]float64, popSize)

	evaluations := 0
	simulateIndices := func(indices []int) (float64, error) {
		result, err := flowshop.Simulate(inst, toPermutation(indices))
		if err != nil {
			return 0, err
		}
		evaluations++
		obsmetrics.Evaluations.WithLabelValues("ga").Inc()
		return result.Makespan, nil
	}

	for i := 0; i < popSize; i++ {
		initPermutation(permsA[i])
		shufflePermutation(permsA[i], s.Rng)
		ms, err := simulateIndices(permsA[i])
		if err != nil {
			return opt.Result{}, err
		}
		scoresA[i] = ms
	}

	bestIndices := make([]int, n)
	copy(bestIndices, permsA[0])
	bestMakespan := scoresA[0]
	for i := 1; i < popSize; i++ {
		if scoresA[i] < bestMakespan {
			bestMakespan = scoresA[i]
			copy(bestIndices, permsA[i])
		}
	}

	// mark/stamp are the OX1 "already placed" bookkeeping, reused across
	// every crossover call rather than reallocated.
	mark := make([]int, n)
	stamp := 1
	scratchChild := make([]int, n)

	idxs := make([]int, popSize)
	for i := range idxs {
		idxs[i] = i
	}
	tourScratch := make([]int, popSize)

	finish := func(iterations int, meta map[string]any) (opt.Result, error) {
		bestPerm := toPermutation(bestIndices)
		final, err := flowshop.Simulate(inst, bestPerm)
		if err != nil {
			return opt.Result{}, err
		}
		res := opt.Result{
			Permutation: bestPerm,
			Makespan:    bestMakespan,
			Schedule:    final.Schedule,
			Evaluations: evaluations,
			Iterations:  iterations,
			Duration:    time.Since(start),
			Meta:        meta,
		}
		obsmetrics.SearchDuration.WithLabelValues("ga").Observe(res.Duration.Seconds())
		obsmetrics.BestMakespan.WithLabelValues("ga").Observe(res.Makespan)
		return res, nil
	}

	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			res, finishErr := finish(gen, map[string]any{"stopped": "context"})
			if finishErr != nil {
				return opt.Result{}, finishErr
			}
			return res, err
		}

		for i := range idxs {
			idxs[i] = i
		}
		sort.SliceStable(idxs, func(i, j int) bool {
			return scoresA[idxs[i]] < scoresA[idxs[j]]
		})

		write := 0
		for e := 0; e < elite; e++ {
			src := idxs[e]
			copy(permsB[write], permsA[src])
			scoresB[write] = scoresA[src]
			write++
		}

		for write < popSize {
			p1 := tournamentSelect(scoresA, tournamentSize, s.Rng, tourScratch)
			p2 := tournamentSelect(scoresA, tournamentSize, s.Rng, tourScratch)
			if popSize > 1 {
				for p2 == p1 {
					p2 = tournamentSelect(scoresA, tournamentSize, s.Rng, tourScratch)
				}
			}

			child1 := permsB[write]
			hasSecond := write+1 < popSize
			child2 := scratchChild
			if hasSecond {
				child2 = permsB[write+1]
			}

			if s.Rng.Float64() < crossoverRate {
				orderCrossoverOX(permsA[p1], permsA[p2], child1, child2, s.Rng, mark, &stamp)
			} else {
				copy(child1, permsA[p1])
				if hasSecond {
					copy(child2, permsA[p2])
				}
			}

			if s.Rng.Float64() < mutationRate {
				mutateShuffleIndexes(child1, mutationIndpb, s.Rng)
			}
			if hasSecond && s.Rng.Float64() < mutationRate {
				mutateShuffleIndexes(child2, mutationIndpb, s.Rng)
			}

			ms1, err := simulateIndices(child1)
			if err != nil {
				return opt.Result{}, err
			}
			scoresB[write] = ms1
			if ms1 < bestMakespan {
				bestMakespan = ms1
				copy(bestIndices, child1)
			}
			write++

			if hasSecond {
				ms2, err := simulateIndices(child2)
				if err != nil {
					return opt.Result{}, err
				}
				scoresB[write] = ms2
				if ms2 < bestMakespan {
					bestMakespan = ms2
					copy(bestIndices, child2)
				}
				write++
			}
		}

		permsA, permsB = permsB, permsA
		scoresA, scoresB = scoresB, scoresA
	}

	return finish(generations, map[string]any{
		"population":  popSize,
		"generations": generations,
		"elite":       elite,
	})
}
