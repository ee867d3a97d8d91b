package flowshop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasais/flowshop/internal/flowshop"
)

// S1: single stage, single machine — any permutation sums to the same
// makespan, and the schedule for a specific permutation is traceable.
func TestSimulate_S1_SingleStageSingleMachine(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        1,
		MachinesPerStage: []int{1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{3}},
			{ID: 1, ProcessingTimes: []float64{2}},
			{ID: 2, ProcessingTimes: []float64{5}},
		},
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}

	res, err := flowshop.Simulate(inst, []int{1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Makespan)
	require.Len(t, res.Schedule, 3)

	byJob := map[int]flowshop.TaskLog{}
	for _, tl := range res.Schedule {
		byJob[tl.JobID] = tl
	}
	assert.Equal(t, 0.0, byJob[1].StartTime)
	assert.Equal(t, 2.0, byJob[1].EndTime)
	assert.Equal(t, 2.0, byJob[0].StartTime)
	assert.Equal(t, 5.0, byJob[0].EndTime)
	assert.Equal(t, 5.0, byJob[2].StartTime)
	assert.Equal(t, 10.0, byJob[2].EndTime)

	// Any permutation yields the same total makespan on one machine.
	res2, err := flowshop.Simulate(inst, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res2.Makespan)
}

// S2: two stages, one machine each — permutation order changes makespan,
// and SPT selects the optimum.
func TestSimulate_S2_TwoStagesPermutationMatters(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          2,
		NumStages:        2,
		MachinesPerStage: []int{1, 1},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{4, 1}}, // A
			{ID: 1, ProcessingTimes: []float64{1, 4}}, // B
		},
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}

	resAB, err := flowshop.Simulate(inst, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 9.0, resAB.Makespan)

	resBA, err := flowshop.Simulate(inst, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 6.0, resBA.Makespan)
}

// S3: parallel machines within a single stage.
func TestSimulate_S3_ParallelMachinesInStage(t *testing.T) {
	inst := &flowshop.Instance{
		NumJobs:          3,
		NumStages:        1,
		MachinesPerStage: []int{2},
		Jobs: []flowshop.Job{
			{ID: 0, ProcessingTimes: []float64{5}},
			{ID: 1, ProcessingTimes: []float64{5}},
			{ID: 2, ProcessingTimes: []float64{5}},
		},
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}

	res, err := flowshop.Simulate(inst, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Makespan)

	byJob := map[int]flowshop.TaskLog{}
	for _, tl := range res.Schedule {
		byJob[tl.JobID] = tl
	}
	assert.Equal(t, 0, byJob[0].MachineID)
	assert.Equal(t, 1, byJob[1].MachineID)
	assert.Equal(t, 0, byJob[2].MachineID)
	assert.Equal(t, 5.0, byJob[2].StartTime)
	assert.Equal(t, 10.0, byJob[2].EndTime)
}

func TestSimulate_InvalidInstance(t *testing.T) {
	inst := &flowshop.Instance{}
	_, err := flowshop.Simulate(inst, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, flowshop.ErrInvalidInstance)
}

func TestSimulate_InvalidPermutation(t *testing.T) {
	inst := validInstance()
	_, err := flowshop.Simulate(inst, []int{0, 1}) // wrong length
	require.Error(t, err)
	assert.ErrorIs(t, err, flowshop.ErrInvalidPermutation)
}

func TestSimulate_IsDeterministic(t *testing.T) {
	inst := validInstance()
	perm := []int{2, 0, 1}
	res1, err := flowshop.Simulate(inst, perm)
	require.NoError(t, err)
	res2, err := flowshop.Simulate(inst, perm)
	require.NoError(t, err)
	assert.Equal(t, res1.Makespan, res2.Makespan)
	assert.Equal(t, res1.Schedule, res2.Schedule)
}

func TestValidatePermutation(t *testing.T) {
	inst := validInstance()

	require.NoError(t, flowshop.ValidatePermutation(inst, []int{0, 1, 2}))

	err := flowshop.ValidatePermutation(inst, []int{0, 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, flowshop.ErrInvalidPermutation)

	err = flowshop.ValidatePermutation(inst, []int{0, 0, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	err = flowshop.ValidatePermutation(inst, []int{0, 1, 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the instance")
}

func TestIdentityPermutation(t *testing.T) {
	inst := validInstance()
	assert.Equal(t, []int{0, 1, 2}, flowshop.IdentityPermutation(inst))
}
