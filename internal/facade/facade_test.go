package facade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasais/flowshop/internal/facade"
	"github.com/stasais/flowshop/internal/flowshop"
)

func instanceForFacade() *flowshop.Instance {
	seed := int64(99)
	return &flowshop.Instance{
		NumJobs:          5,
		NumStages:        2,
		MachinesPerStage: []int{1, 1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{4, 1}},
			{ID: 1, ProcessingTimes: []float64{1, 4}},
			{ID: 2, ProcessingTimes: []float64{2, 2}},
			{ID: 3, ProcessingTimes: []float64{3, 3}},
			{ID: 4, ProcessingTimes: []float64{5, 2}},
		},
		MaxIterations:    8,
		RandomSeed:       &seed,
		GAPopulationSize: 6,
		GAMutationRate:   0.2,
		GATournamentSize: 3,
		GAElitismCount:   1,
	}
}

func TestOptimize_AllFixedMethodsSucceed(t *testing.T) {
	inst := instanceForFacade()
	for _, m := range []facade.Method{
		facade.SPT, facade.LPT, facade.FirstStageSPT, facade.LastStageSPT,
		facade.Bottleneck, facade.Random, facade.Bayesian, facade.GA,
	} {
		res, err := facade.Optimize(context.Background(), inst, m)
		require.NoError(t, err, "method %s", m)
		require.NoError(t, flowshop.ValidatePermutation(inst, res.Permutation), "method %s", m)
		assert.Greater(t, res.Makespan, 0.0, "method %s", m)
		assert.Len(t, res.Schedule, inst.NumJobs*inst.NumStages, "method %s", m)
	}
}

func TestOptimize_UnknownMethod(t *testing.T) {
	_, err := facade.Optimize(context.Background(), instanceForFacade(), facade.Method("bogus"))
	require.Error(t, err)
	assert.ErrorIs(t, err, flowshop.ErrUnknownMethod)
}

func TestOptimize_InvalidInstance(t *testing.T) {
	_, err := facade.Optimize(context.Background(), &flowshop.Instance{}, facade.SPT)
	require.Error(t, err)
	assert.ErrorIs(t, err, flowshop.ErrInvalidInstance)
}

func TestOptimize_SameSeedIsDeterministicForGA(t *testing.T) {
	inst1 := instanceForFacade()
	inst2 := instanceForFacade()

	res1, err := facade.Optimize(context.Background(), inst1, facade.GA)
	require.NoError(t, err)
	res2, err := facade.Optimize(context.Background(), inst2, facade.GA)
	require.NoError(t, err)

	assert.Equal(t, res1.Permutation, res2.Permutation)
	assert.Equal(t, res1.Makespan, res2.Makespan)
}
