package flowshop

import "math/rand"

// RandomInstance builds a random hybrid flow-shop instance of the given
// shape, processing times drawn uniformly from [minTime, maxTime). Used by
// the benchmark harness and by tests that need instances larger than the
// hand-written scenarios; production instances are expected to come from
// a config file or an external caller. The search knobs are left at
// permissive defaults — callers that run GA must still override them.
func RandomInstance(numJobs, numStages int, machinesPerStage []int, minTime, maxTime float64, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("flowshop: rng must not be nil")
	}
	if maxTime < minTime {
		panic("flowshop: invalid time bounds")
	}
	span := maxTime - minTime

	jobs := make([]Job, numJobs)
	for i := 0; i < numJobs; i++ {
		pt := make([]float64, numStages)
		for s := range pt {
			pt[s] = minTime
			if span > 0 {
				pt[s] += rng.Float64() * span
			}
		}
		jobs[i] = Job{ID: i, ProcessingTimes: pt}
	}

	return &Instance{
		NumJobs:          numJobs,
		NumStages:        numStages,
		MachinesPerStage: append([]int(nil), machinesPerStage...),
		Jobs:             jobs,
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}
}
