package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stasais/flowshop/internal/config"
	"github.com/stasais/flowshop/internal/facade"
	"github.com/stasais/flowshop/internal/flowshop"
)

type optimizeOutput struct {
	Method      string             `json:"method"`
	Makespan    float64            `json:"makespan"`
	Schedule    []flowshop.TaskLog `json:"schedule"`
	Permutation []int              `json:"permutation"`
	Evaluations int                `json:"evaluations"`
	Iterations  int                `json:"iterations"`
	DurationMs  float64            `json:"duration_ms"`
}

func runMethod(method facade.Method) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return fmt.Errorf("--config is required")
		}
		file, err := config.Load(configPath)
		if err != nil {
			return err
		}
		inst := file.Instance.ToInstance()

		res, err := facade.Optimize(cmd.Context(), inst, method)
		if err != nil {
			return err
		}

		out := optimizeOutput{
			Method:      string(method),
			Makespan:    res.Makespan,
			Schedule:    res.Schedule,
			Permutation: res.Permutation,
			Evaluations: res.Evaluations,
			Iterations:  res.Iterations,
			DurationMs:  float64(res.Duration.Microseconds()) / 1000.0,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func init() {
	methods := []struct {
		use    string
		short  string
		method facade.Method
	}{
		{"spt", "Order jobs by ascending total processing time", facade.SPT},
		{"lpt", "Order jobs by descending total processing time", facade.LPT},
		{"first-stage-spt", "Order jobs by ascending stage-0 processing time", facade.FirstStageSPT},
		{"last-stage-spt", "Order jobs by ascending last-stage processing time", facade.LastStageSPT},
		{"bottleneck", "Order jobs by ascending processing time at the bottleneck stage", facade.Bottleneck},
		{"random", "Random-permutation search", facade.Random},
		{"bayesian", "Gaussian-process expected-improvement search", facade.Bayesian},
		{"ga", "Genetic-algorithm search", facade.GA},
	}

	for _, m := range methods {
		m := m
		rootCmd.AddCommand(&cobra.Command{
			Use:   m.use,
			Short: m.short,
			RunE:  runMethod(m.method),
		})
	}
}
