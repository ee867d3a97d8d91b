// Package heuristic implements the five pure ordering functions of
// spec.md §4.2: each maps an Instance to a permutation by a stable sort on
// a per-job key, ties always broken by ascending Job.id. The façade runs
// Simulate once on the permutation each of these returns.
package heuristic

import (
	"fmt"
	"sort"

	"github.com/stasais/flowshop/internal/flowshop"
)

// Name identifies one of the five heuristic orderings.
type Name string

const (
	SPT           Name = "spt"
	LPT           Name = "lpt"
	FirstStageSPT Name = "first_stage_spt"
	LastStageSPT  Name = "last_stage_spt"
	Bottleneck    Name = "bottleneck"
)

type keyedJob struct {
	id  int
	key float64
}

func stableSortAsc(jobs []keyedJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].key != jobs[j].key {
			return jobs[i].key < jobs[j].key
		}
		return jobs[i].id < jobs[j].id
	})
}

func permutationOf(jobs []keyedJob) []int {
	perm := make([]int, len(jobs))
	for i, j := range jobs {
		perm[i] = j.id
	}
	return perm
}

// Order returns the permutation name prescribes for inst. inst must
// already be validated; Order does not call Simulate.
func Order(name Name, inst *flowshop.Instance) ([]int, error) {
	switch name {
	case SPT:
		return spt(inst), nil
	case LPT:
		return lpt(inst), nil
	case FirstStageSPT:
		return firstStageSPT(inst), nil
	case LastStageSPT:
		return lastStageSPT(inst), nil
	case Bottleneck:
		return bottleneck(inst), nil
	default:
		return nil, fmt.Errorf("heuristic: unknown ordering %q", name)
	}
}

func totalProcessingTime(j flowshop.Job) float64 {
	total := 0.0
	for _, p := range j.ProcessingTimes {
		total += p
	}
	return total
}

// SPT sorts ascending by total processing time across all stages.
func spt(inst *flowshop.Instance) []int {
	jobs := make([]keyedJob, len(inst.Jobs))
	for i, j := range inst.Jobs {
		jobs[i] = keyedJob{id: j.ID, key: totalProcessingTime(j)}
	}
	stableSortAsc(jobs)
	return permutationOf(jobs)
}

// LPT sorts descending by total processing time across all stages (an
// ascending sort on the negated key keeps the same tie-break rule).
func lpt(inst *flowshop.Instance) []int {
	jobs := make([]keyedJob, len(inst.Jobs))
	for i, j := range inst.Jobs {
		jobs[i] = keyedJob{id: j.ID, key: -totalProcessingTime(j)}
	}
	stableSortAsc(jobs)
	return permutationOf(jobs)
}

// firstStageSPT sorts ascending by processing time at stage 0.
func firstStageSPT(inst *flowshop.Instance) []int {
	jobs := make([]keyedJob, len(inst.Jobs))
	for i, j := range inst.Jobs {
		jobs[i] = keyedJob{id: j.ID, key: j.ProcessingTimes[0]}
	}
	stableSortAsc(jobs)
	return permutationOf(jobs)
}

// lastStageSPT sorts ascending by processing time at the last stage.
func lastStageSPT(inst *flowshop.Instance) []int {
	last := inst.NumStages - 1
	jobs := make([]keyedJob, len(inst.Jobs))
	for i, j := range inst.Jobs {
		jobs[i] = keyedJob{id: j.ID, key: j.ProcessingTimes[last]}
	}
	stableSortAsc(jobs)
	return permutationOf(jobs)
}

// bottleneck sorts ascending by processing time at the stage with the
// fewest machines (lowest stage index breaks ties on machine count).
func bottleneck(inst *flowshop.Instance) []int {
	bottleneckStage := 0
	for s, m := range inst.MachinesPerStage {
		if m < inst.MachinesPerStage[bottleneckStage] {
			bottleneckStage = s
		}
	}
	jobs := make([]keyedJob, len(inst.Jobs))
	for i, j := range inst.Jobs {
		jobs[i] = keyedJob{id: j.ID, key: j.ProcessingTimes[bottleneckStage]}
	}
	stableSortAsc(jobs)
	return permutationOf(jobs)
}
