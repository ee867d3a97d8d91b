package flowshop

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Job is one job's processing times across every stage, in stage order.
type Job struct {
	ID              int
	ProcessingTimes []float64
}

// Instance is an immutable hybrid flow-shop problem: a set of jobs that
// must traverse NumStages stages, each stage offering MachinesPerStage[s]
// identical parallel machines, plus the search knobs the optimization
// layer reads. An Instance is validated once via Validate and is read-only
// afterwards — Simulate and every optimizer treat it as such.
type Instance struct {
	NumJobs          int
	NumStages        int
	MachinesPerStage []int
	Jobs             []Job

	MaxIterations int
	// RandomSeed is optional; nil means "seed nondeterministically".
	RandomSeed *int64

	GAPopulationSize int
	GAMutationRate   float64
	GATournamentSize int
	GAElitismCount   int
}

// Validate checks every invariant in the data model and returns a single
// ErrInvalidInstance wrapping every violation found, not just the first —
// the way hashicorp/nomad's job validation collects every complaint before
// returning, rather than failing fast on the first one.
func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrInvalidInstance)
	}

	var result *multierror.Error

	if inst.NumJobs < 1 {
		result = multierror.Append(result, fmt.Errorf("numJobs must be >= 1 (got %d)", inst.NumJobs))
	}
	if inst.NumStages < 1 {
		result = multierror.Append(result, fmt.Errorf("numStages must be >= 1 (got %d)", inst.NumStages))
	}

	if len(inst.MachinesPerStage) != inst.NumStages {
		result = multierror.Append(result, fmt.Errorf(
			"machinesPerStage length must equal numStages=%d (got %d)", inst.NumStages, len(inst.MachinesPerStage)))
	} else {
		for s, m := range inst.MachinesPerStage {
			if m < 1 {
				result = multierror.Append(result, fmt.Errorf("machinesPerStage[%d] must be >= 1 (got %d)", s, m))
			}
		}
	}

	if len(inst.Jobs) != inst.NumJobs {
		result = multierror.Append(result, fmt.Errorf(
			"jobs length must equal numJobs=%d (got %d)", inst.NumJobs, len(inst.Jobs)))
	}

	seen := make(map[int]bool, len(inst.Jobs))
	for i, j := range inst.Jobs {
		if seen[j.ID] {
			result = multierror.Append(result, fmt.Errorf("duplicate job id %d at index %d", j.ID, i))
		}
		seen[j.ID] = true

		if len(j.ProcessingTimes) != inst.NumStages {
			result = multierror.Append(result, fmt.Errorf(
				"job %d: processingTimes length must equal numStages=%d (got %d)", j.ID, inst.NumStages, len(j.ProcessingTimes)))
			continue
		}
		for s, p := range j.ProcessingTimes {
			if p < 0 {
				result = multierror.Append(result, fmt.Errorf("job %d: processingTimes[%d] must be >= 0 (got %g)", j.ID, s, p))
			}
		}
	}

	if inst.MaxIterations < 1 {
		result = multierror.Append(result, fmt.Errorf("maxIterations must be >= 1 (got %d)", inst.MaxIterations))
	}
	if inst.GAPopulationSize < 2 {
		result = multierror.Append(result, fmt.Errorf("gaPopulationSize must be >= 2 (got %d)", inst.GAPopulationSize))
	}
	if inst.GAMutationRate < 0 || inst.GAMutationRate > 1 {
		result = multierror.Append(result, fmt.Errorf("gaMutationRate must be in [0,1] (got %g)", inst.GAMutationRate))
	}
	if inst.GATournamentSize < 2 {
		result = multierror.Append(result, fmt.Errorf("gaTournamentSize must be >= 2 (got %d)", inst.GATournamentSize))
	}
	if inst.GAElitismCount < 0 || inst.GAElitismCount >= inst.GAPopulationSize {
		result = multierror.Append(result, fmt.Errorf("gaElitismCount must be in [0,gaPopulationSize) (got %d, population %d)", inst.GAElitismCount, inst.GAPopulationSize))
	}

	if result != nil {
		result.ErrorFormat = func(errs []error) string {
			msg := fmt.Sprintf("%d invariant violation(s):", len(errs))
			for _, e := range errs {
				msg += "\n  - " + e.Error()
			}
			return msg
		}
		return fmt.Errorf("%w: %v", ErrInvalidInstance, result)
	}
	return nil
}

// Time returns the processing time of job id jobID at stage s. Callers must
// validate the instance first; Time does not bounds-check.
func (inst *Instance) Time(jobID, stage int) float64 {
	for i := range inst.Jobs {
		if inst.Jobs[i].ID == jobID {
			return inst.Jobs[i].ProcessingTimes[stage]
		}
	}
	panic(fmt.Sprintf("flowshop: job id %d not found", jobID))
}

// TotalMachines returns the number of machines across every stage — the
// length any GlobalMachineID must fall within.
func (inst *Instance) TotalMachines() int {
	total := 0
	for _, m := range inst.MachinesPerStage {
		total += m
	}
	return total
}
