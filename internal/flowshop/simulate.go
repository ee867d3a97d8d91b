package flowshop

// TaskLog is one (job, stage) execution record: the job occupied
// MachineID at StageID for [StartTime, EndTime).
type TaskLog struct {
	JobID           int
	StageID         int
	MachineID       int
	GlobalMachineID int
	StartTime       float64
	EndTime         float64
}

// ScheduleResult is the complete output of Simulate: the makespan, the
// full per-(job,stage) schedule, and the permutation that produced it.
type ScheduleResult struct {
	Makespan    float64
	Schedule    []TaskLog
	Permutation []int
}

type jobState struct {
	stage int
	ready float64
}

// Simulate is the single source of truth for makespan: a pure, stateless,
// deterministic discrete-event simulation of the shop dispatching jobs in
// permutation order. Given identical (instance, permutation) it always
// returns an identical ScheduleResult; it performs no I/O, touches no
// shared state and consumes no randomness.
//
// Shop semantics: every job visits stages 0..NumStages-1 in order, stage s
// has MachinesPerStage[s] identical parallel machines, and a job occupies
// one machine for exactly its processing time, non-preemptively. Jobs
// contend for machines in the priority order given by permutation: earlier
// in permutation means higher priority. At each step the next job to be
// admitted is the one with the smallest (readyTime, permutation-rank) —
// this is what keeps the permutation a dispatch priority rather than just
// an initial order, matching ties at an instant always resolving in
// permutation order.
func Simulate(inst *Instance, permutation []int) (ScheduleResult, error) {
	if err := inst.Validate(); err != nil {
		return ScheduleResult{}, err
	}
	if err := ValidatePermutation(inst, permutation); err != nil {
		return ScheduleResult{}, err
	}

	rank := make(map[int]int, inst.NumJobs)
	for i, id := range permutation {
		rank[id] = i
	}

	timesByJob := make(map[int][]float64, inst.NumJobs)
	for _, j := range inst.Jobs {
		timesByJob[j.ID] = j.ProcessingTimes
	}

	avail := make([][]float64, inst.NumStages)
	globalOffset := make([]int, inst.NumStages)
	offset := 0
	for s := 0; s < inst.NumStages; s++ {
		avail[s] = make([]float64, inst.MachinesPerStage[s])
		globalOffset[s] = offset
		offset += inst.MachinesPerStage[s]
	}

	states := make(map[int]*jobState, inst.NumJobs)
	for _, id := range permutation {
		states[id] = &jobState{stage: 0, ready: 0}
	}

	schedule := make([]TaskLog, 0, inst.NumJobs*inst.NumStages)
	remaining := inst.NumJobs
	makespan := 0.0

	for remaining > 0 {
		bestID, bestReady, bestRank := -1, 0.0, -1
		for _, id := range permutation {
			st := states[id]
			if st.stage >= inst.NumStages {
				continue
			}
			r := rank[id]
			if bestID == -1 || st.ready < bestReady || (st.ready == bestReady && r < bestRank) {
				bestID, bestReady, bestRank = id, st.ready, r
			}
		}

		st := states[bestID]
		s := st.stage
		procTime := timesByJob[bestID][s]

		m := selectMachine(avail[s], st.ready)
		start := st.ready
		if avail[s][m] > start {
			start = avail[s][m]
		}
		end := start + procTime
		avail[s][m] = end

		schedule = append(schedule, TaskLog{
			JobID:           bestID,
			StageID:         s,
			MachineID:       m,
			GlobalMachineID: globalOffset[s] + m,
			StartTime:       start,
			EndTime:         end,
		})

		st.stage++
		st.ready = end
		if st.stage >= inst.NumStages {
			remaining--
			if end > makespan {
				makespan = end
			}
		}
	}

	return ScheduleResult{
		Makespan:    makespan,
		Schedule:    schedule,
		Permutation: append([]int(nil), permutation...),
	}, nil
}

// selectMachine implements the machine-selection tie-breaks: the lowest
// index machine already free at or before readyTime, or, failing that,
// the machine that frees up soonest (lowest index breaks ties).
func selectMachine(avail []float64, readyTime float64) int {
	best := 0
	for m, a := range avail {
		if a <= readyTime {
			return m
		}
		if a < avail[best] {
			best = m
		}
	}
	return best
}
