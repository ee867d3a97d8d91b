package heuristic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/heuristic"
)

func TestOrder_SPT(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        1,
		MachinesPerStage: []int{1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{5}},
			{ID: 1, ProcessingTimes: []float64{2}},
			{ID: 2, ProcessingTimes: []float64{3}},
		},
	}
	perm, err := heuristic.Order(heuristic.SPT, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, perm)
}

func TestOrder_LPT(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        1,
		MachinesPerStage: []int{1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{5}},
			{ID: 1, ProcessingTimes: []float64{2}},
			{ID: 2, ProcessingTimes: []float64{3}},
		},
	}
	perm, err := heuristic.Order(heuristic.LPT, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, perm)
}

func TestOrder_TieBreakIsAscendingJobID(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        1,
		MachinesPerStage: []int{1},
		Jobs: []flowshop.Job{
			{ID: 2, ProcessingTimes: []float64{4}},
			{ID: 0, ProcessingTimes: []float64{4}},
			{ID: 1, ProcessingTimes: []float64{4}},
		},
	}
	perm, err := heuristic.Order(heuristic.SPT, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, perm)
}

func TestOrder_FirstStageAndLastStageSPT(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          2,
		NumStages:        2,
		MachinesPerStage: []int{1, 1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{4, 1}},
			{ID: 1, ProcessingTimes: []float64{1, 4}},
		},
	}
	first, err := heuristic.Order(heuristic.FirstStageSPT, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, first)

	last, err := heuristic.Order(heuristic.LastStageSPT, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, last)
}

// S4: bottleneck heuristic picks the stage with fewest machines and sorts
// ascending by that stage's processing time.
func TestOrder_S4_Bottleneck(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        3,
		MachinesPerStage: []int{3, 1, 3},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{1, 5, 1}},
			{ID: 1, ProcessingTimes: []float64{1, 1, 1}},
			{ID: 2, ProcessingTimes: []float64{1, 3, 1}},
		},
	}
	perm, err := heuristic.Order(heuristic.Bottleneck, inst)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, perm)
}

func TestOrder_UnknownMethod(t *testing.T) {
	inst := &flowshop.Instance{NumJobs: 1, NumStages: 1, MachinesPerStage: []int{1}, Jobs: []flowshop.Job{{ID: 0, ProcessingTimes: []float64{1}}}}
	_, err := heuristic.Order(heuristic.Name("nonsense"), inst)
	require.Error(t, err)
}
