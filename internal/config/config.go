// Package config loads an Instance and benchmark-harness defaults from a
// TOML document (BurntSushi/toml), the ambient configuration format for
// the cmd/flowshop CLI.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/stasais/flowshop/internal/flowshop"
)

// JobConfig mirrors flowshop.Job for TOML decoding.
type JobConfig struct {
	ID              int       `toml:"id"`
	ProcessingTimes []float64 `toml:"processing_times"`
}

// InstanceConfig mirrors flowshop.Instance for TOML decoding.
type InstanceConfig struct {
	NumJobs          int         `toml:"num_jobs"`
	NumStages        int         `toml:"num_stages"`
	MachinesPerStage []int       `toml:"machines_per_stage"`
	Jobs             []JobConfig `toml:"jobs"`

	MaxIterations int    `toml:"max_iterations"`
	RandomSeed    *int64 `toml:"random_seed"`

	GAPopulationSize int     `toml:"ga_population_size"`
	GAMutationRate   float64 `toml:"ga_mutation_rate"`
	GATournamentSize int     `toml:"ga_tournament_size"`
	GAElitismCount   int     `toml:"ga_elitism_count"`
}

// ToInstance builds a flowshop.Instance from the decoded config. The
// result is not validated; callers must call Validate themselves.
func (c InstanceConfig) ToInstance() *flowshop.Instance {
	jobs := make([]flowshop.Job, len(c.Jobs))
	for i, j := range c.Jobs {
		jobs[i] = flowshop.Job{ID: j.ID, ProcessingTimes: j.ProcessingTimes}
	}
	return &flowshop.Instance{
		NumJobs:          c.NumJobs,
		NumStages:        c.NumStages,
		MachinesPerStage: c.MachinesPerStage,
		Jobs:             jobs,
		MaxIterations:    c.MaxIterations,
		RandomSeed:       c.RandomSeed,
		GAPopulationSize: c.GAPopulationSize,
		GAMutationRate:   c.GAMutationRate,
		GATournamentSize: c.GATournamentSize,
		GAElitismCount:   c.GAElitismCount,
	}
}

// BenchConfig mirrors some of the flags cmd/flowshop's bench subcommand
// exposes. It is decoded by Load, but the bench subcommand does not read
// it; bench takes its settings from flags only.
type BenchConfig struct {
	Runs          int      `toml:"runs"`
	BaseSeed      int64    `toml:"base_seed"`
	InstanceSeed  int64    `toml:"instance_seed"`
	PerRunTimeout string   `toml:"per_run_timeout"`
	Pairs         []string `toml:"pairs"`
	Algorithms    []string `toml:"algorithms"`
}

// File is the top-level config document.
type File struct {
	Instance InstanceConfig `toml:"instance"`
	Bench    BenchConfig    `toml:"bench"`
}

// Load decodes the TOML document at path.
func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &f, nil
}
