package aco_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasais/flowshop/internal/aco"
	"github.com/stasais/flowshop/internal/flowshop"
)

func instanceForACO() *flowshop.Instance {
	return &flowshop.Instance{
		NumJobs:          6,
		NumStages:        2,
		MachinesPerStage: []int{1, 1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{4, 1}},
			{ID: 1, ProcessingTimes: []float64{1, 4}},
			{ID: 2, ProcessingTimes: []float64{2, 2}},
			{ID: 3, ProcessingTimes: []float64{3, 3}},
			{ID: 4, ProcessingTimes: []float64{5, 2}},
			{ID: 5, ProcessingTimes: []float64{2, 5}},
		},
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}
}

func TestSolver_Solve_ReturnsValidPermutation(t *testing.T) {
	cfg := aco.DefaultConfig()
	cfg.IterationsPerJob = 5
	cfg.Ants = 10
	solver, err := aco.New(cfg, rand.New(rand.NewSource(31)))
	require.NoError(t, err)

	inst := instanceForACO()
	res, err := solver.Solve(context.Background(), inst)
	require.NoError(t, err)
	require.NoError(t, flowshop.ValidatePermutation(inst, res.Permutation))
	assert.Greater(t, res.Makespan, 0.0)
	assert.Len(t, res.Schedule, inst.NumJobs*inst.NumStages)
}

func TestSolver_Solve_DeterministicForFixedSeed(t *testing.T) {
	cfg := aco.DefaultConfig()
	cfg.IterationsPerJob = 5
	cfg.Ants = 10
	inst := instanceForACO()

	solver1, err := aco.New(cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	res1, err := solver1.Solve(context.Background(), inst)
	require.NoError(t, err)

	solver2, err := aco.New(cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	res2, err := solver2.Solve(context.Background(), inst)
	require.NoError(t, err)

	assert.Equal(t, res1.Permutation, res2.Permutation)
	assert.Equal(t, res1.Makespan, res2.Makespan)
}

func TestNew_RejectsInvalidConfigOrNilRng(t *testing.T) {
	_, err := aco.New(aco.Config{}, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	_, err = aco.New(aco.DefaultConfig(), nil)
	require.Error(t, err)
}
