package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stasais/flowshop/internal/aco"
	"github.com/stasais/flowshop/internal/bench"
	"github.com/stasais/flowshop/internal/ga"
	"github.com/stasais/flowshop/internal/obslog"
	"github.com/stasais/flowshop/internal/opt"
	"github.com/stasais/flowshop/internal/pso"
	"github.com/stasais/flowshop/internal/sa"
	"github.com/stasais/flowshop/internal/ts"
)

var benchFlags struct {
	out          string
	pairs        string
	algos        string
	runs         int
	baseSeed     int64
	instanceSeed int64
	perRunTO     time.Duration

	gaPop   int
	gaGen   int
	gaElite int
	gaTour  int
	gaMut   float64

	saIterPerJob int
	saIter       int
	saT0         float64
	saTmin       float64
	saAlpha      float64
	saNeigh      string

	tsIterPerJob int
	tsIter       int
	tsTenure     int
	tsTenureRand int
	tsNeighbors  int
	tsNeigh      string

	acoIterPerJob int
	acoIter       int
	acoAnts       int
	acoA          float64
	acoB          float64
	acoRho        float64
	acoQ          float64
	acoTau0       float64
	acoCandK      int

	psoIterPerJob int
	psoIter       int
	psoParticles  int
	psoW          float64
	psoC1         float64
	psoC2         float64
	psoVMax       float64
	psoPosMin     float64
	psoPosMax     float64
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare optimizers (GA, SA, TS, ACO, PSO) across instance sizes",
	RunE:  runBench,
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchFlags.out, "out", "artifacts/results.csv", "output CSV path")
	f.StringVar(&benchFlags.pairs, "pairs", "20x5,50x10,100x20", "jobsxstages configurations, comma-separated (one machine per stage)")
	f.StringVar(&benchFlags.algos, "algos", "GA,SA,TS,ACO,PSO", "algorithms to run, comma-separated")
	f.IntVar(&benchFlags.runs, "runs", 30, "runs per algorithm (distinct seeds)")
	f.Int64Var(&benchFlags.baseSeed, "seed", 1000, "base seed for algorithm runs")
	f.Int64Var(&benchFlags.instanceSeed, "instance-seed", 777, "base seed for instance generation")
	f.DurationVar(&benchFlags.perRunTO, "per-run-timeout", 0, "per-run timeout; 0 disables it")

	f.IntVar(&benchFlags.gaPop, "ga-pop", 150, "GA population size")
	f.IntVar(&benchFlags.gaGen, "ga-gen", 400, "GA generation budget")
	f.IntVar(&benchFlags.gaElite, "ga-elite", 4, "GA elite count")
	f.IntVar(&benchFlags.gaTour, "ga-tour", 5, "GA tournament size")
	f.Float64Var(&benchFlags.gaMut, "ga-mut", 0.15, "GA mutation gate probability")

	f.IntVar(&benchFlags.saIterPerJob, "sa-iter-per-job", 2500, "SA iterations per job (if sa-iter == 0)")
	f.IntVar(&benchFlags.saIter, "sa-iter", 0, "SA total iterations (0 => sa-iter-per-job * jobs)")
	f.Float64Var(&benchFlags.saT0, "sa-t0", 2000.0, "SA initial temperature")
	f.Float64Var(&benchFlags.saTmin, "sa-tmin", 0.5, "SA final temperature")
	f.Float64Var(&benchFlags.saAlpha, "sa-alpha", 0.995, "SA cooling rate")
	f.StringVar(&benchFlags.saNeigh, "sa-neigh", "swap", "SA neighborhood: swap | insert")

	f.IntVar(&benchFlags.tsIterPerJob, "ts-iter-per-job", 250, "TS iterations per job (if ts-iter == 0)")
	f.IntVar(&benchFlags.tsIter, "ts-iter", 0, "TS total iterations (0 => ts-iter-per-job * jobs)")
	f.IntVar(&benchFlags.tsTenure, "ts-tenure", 7, "TS tabu tenure")
	f.IntVar(&benchFlags.tsTenureRand, "ts-tenure-rand", 3, "TS random tenure addend [0..rand]")
	f.IntVar(&benchFlags.tsNeighbors, "ts-neighbors", 90, "TS neighbors sampled per iteration")
	f.StringVar(&benchFlags.tsNeigh, "ts-neigh", "insert", "TS neighborhood: insert | swap")

	f.IntVar(&benchFlags.acoIterPerJob, "aco-iter-per-job", 120, "ACO iterations per job (if aco-iter == 0)")
	f.IntVar(&benchFlags.acoIter, "aco-iter", 0, "ACO total iterations (0 => aco-iter-per-job * jobs)")
	f.IntVar(&benchFlags.acoAnts, "aco-ants", 35, "ACO ant count")
	f.Float64Var(&benchFlags.acoA, "aco-alpha", 1.0, "ACO pheromone influence")
	f.Float64Var(&benchFlags.acoB, "aco-beta", 2.0, "ACO heuristic influence")
	f.Float64Var(&benchFlags.acoRho, "aco-rho", 0.20, "ACO evaporation rate")
	f.Float64Var(&benchFlags.acoQ, "aco-q", 1000.0, "ACO pheromone deposit constant")
	f.Float64Var(&benchFlags.acoTau0, "aco-tau0", 1.0, "ACO initial pheromone level")
	f.IntVar(&benchFlags.acoCandK, "aco-k", 0, "ACO candidate list size (0 = all remaining)")

	f.IntVar(&benchFlags.psoIterPerJob, "pso-iter-per-job", 180, "PSO iterations per job (if pso-iter == 0)")
	f.IntVar(&benchFlags.psoIter, "pso-iter", 0, "PSO total iterations (0 => pso-iter-per-job * jobs)")
	f.IntVar(&benchFlags.psoParticles, "pso-particles", 60, "PSO particle count")
	f.Float64Var(&benchFlags.psoW, "pso-w", 0.729, "PSO inertia weight")
	f.Float64Var(&benchFlags.psoC1, "pso-c1", 1.49445, "PSO cognitive coefficient")
	f.Float64Var(&benchFlags.psoC2, "pso-c2", 1.49445, "PSO social coefficient")
	f.Float64Var(&benchFlags.psoVMax, "pso-vmax", 0.25, "PSO velocity clamp (<=0 disables it)")
	f.Float64Var(&benchFlags.psoPosMin, "pso-pos-min", 0.0, "PSO position lower bound")
	f.Float64Var(&benchFlags.psoPosMax, "pso-pos-max", 1.0, "PSO position upper bound")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cases, err := parsePairs(benchFlags.pairs, benchFlags.instanceSeed)
	if err != nil {
		return fmt.Errorf("parsing --pairs: %w", err)
	}

	saCfg := sa.Config{
		Iterations:       benchFlags.saIter,
		IterationsPerJob: benchFlags.saIterPerJob,
		InitialTemp:      benchFlags.saT0,
		FinalTemp:        benchFlags.saTmin,
		Alpha:            benchFlags.saAlpha,
		Neighborhood:     sa.Neighborhood(benchFlags.saNeigh),
	}
	if err := saCfg.Validate(); err != nil {
		return fmt.Errorf("sa config: %w", err)
	}

	tsCfg := ts.Config{
		Iterations:       benchFlags.tsIter,
		IterationsPerJob: benchFlags.tsIterPerJob,
		TabuTenure:       benchFlags.tsTenure,
		TabuTenureRand:   benchFlags.tsTenureRand,
		NeighborsPerIter: benchFlags.tsNeighbors,
		Neighborhood:     ts.Neighborhood(benchFlags.tsNeigh),
	}
	if err := tsCfg.Validate(); err != nil {
		return fmt.Errorf("ts config: %w", err)
	}

	acoCfg := aco.Config{
		Iterations:       benchFlags.acoIter,
		IterationsPerJob: benchFlags.acoIterPerJob,
		Ants:             benchFlags.acoAnts,
		Alpha:            benchFlags.acoA,
		Beta:             benchFlags.acoB,
		Rho:              benchFlags.acoRho,
		Q:                benchFlags.acoQ,
		Tau0:             benchFlags.acoTau0,
		CandidateK:       benchFlags.acoCandK,
	}
	if err := acoCfg.Validate(); err != nil {
		return fmt.Errorf("aco config: %w", err)
	}

	psoCfg := pso.Config{
		Iterations:       benchFlags.psoIter,
		IterationsPerJob: benchFlags.psoIterPerJob,
		Particles:        benchFlags.psoParticles,
		W:                benchFlags.psoW,
		C1:               benchFlags.psoC1,
		C2:               benchFlags.psoC2,
		VMax:             benchFlags.psoVMax,
		PosMin:           benchFlags.psoPosMin,
		PosMax:           benchFlags.psoPosMax,
	}
	if err := psoCfg.Validate(); err != nil {
		return fmt.Errorf("pso config: %w", err)
	}

	available := map[string]bench.Algorithm{
		"GA": {Name: "GA", Factory: func(seed int64) opt.Optimizer {
			solver, _ := ga.New(rand.New(rand.NewSource(seed)))
			return solver
		}},
		"SA": {Name: "SA", Factory: func(seed int64) opt.Optimizer {
			solver, _ := sa.New(saCfg, rand.New(rand.NewSource(seed)))
			return solver
		}},
		"TS": {Name: "TS", Factory: func(seed int64) opt.Optimizer {
			solver, _ := ts.New(tsCfg, rand.New(rand.NewSource(seed)))
			return solver
		}},
		"ACO": {Name: "ACO", Factory: func(seed int64) opt.Optimizer {
			solver, _ := aco.New(acoCfg, rand.New(rand.NewSource(seed)))
			return solver
		}},
		"PSO": {Name: "PSO", Factory: func(seed int64) opt.Optimizer {
			solver, _ := pso.New(psoCfg, rand.New(rand.NewSource(seed)))
			return solver
		}},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(benchFlags.algos) {
		al, ok := available[a]
		if !ok {
			return fmt.Errorf("unknown algorithm %q; available: %v", a, keys(available))
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          benchFlags.runs,
		BaseSeed:      benchFlags.baseSeed,
		PerRunTimeout: benchFlags.perRunTO,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var records []bench.Record
	for _, c := range cases {
		c.MaxIterations = benchFlags.gaGen
		c.GAPopulationSize = benchFlags.gaPop
		c.GAMutationRate = benchFlags.gaMut
		c.GATournamentSize = benchFlags.gaTour
		c.GAElitismCount = benchFlags.gaElite

		for _, a := range selected {
			obslog.Logger.Info().
				Str("algo", a.Name).
				Int("jobs", c.Jobs).
				Int("stages", c.NumStages).
				Int("runs", runner.Runs).
				Msg("bench case starting")

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				return fmt.Errorf("%s on %dx%d: %w", a.Name, c.Jobs, c.NumStages, err)
			}
			records = append(records, rec)

			obslog.Logger.Info().
				Str("algo", a.Name).
				Float64("makespan_best", rec.MakespanBest).
				Float64("makespan_mean", rec.MakespanMean).
				Float64("time_mean_ms", rec.TimeMeanMs).
				Msg("bench case complete")
		}
	}

	if err := bench.WriteCSV(benchFlags.out, records); err != nil {
		return fmt.Errorf("writing %s: %w", benchFlags.out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "saved:", benchFlags.out)
	return nil
}

// parsePairs parses "jobsxstages" pairs into benchmark Cases, one machine
// per stage — the only topology the bench subcommand builds; it reads no
// config file, so other MachinesPerStage layouts cannot be benchmarked
// from the CLI.
func parsePairs(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		jm := strings.Split(p, "x")
		if len(jm) != 2 {
			return nil, fmt.Errorf("pair %q has an invalid shape; example: 50x10", p)
		}
		jobs, err := atoiStrict(jm[0])
		if err != nil {
			return nil, fmt.Errorf("pair %q: parsing job count: %w", p, err)
		}
		stages, err := atoiStrict(jm[1])
		if err != nil {
			return nil, fmt.Errorf("pair %q: parsing stage count: %w", p, err)
		}
		if jobs <= 0 || stages <= 0 {
			return nil, fmt.Errorf("pair %q: job and stage counts must be > 0", p)
		}

		machinesPerStage := make([]int, stages)
		for s := range machinesPerStage {
			machinesPerStage[s] = 1
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(stages)

		cases = append(cases, bench.Case{
			Jobs:             jobs,
			NumStages:        stages,
			MachinesPerStage: machinesPerStage,
			InstanceSeed:     seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
