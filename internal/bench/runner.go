// Package bench is the comparison harness: it runs every registered
// optimizer (the façade's methods as well as the benchmark-only
// metaheuristics — SA, TS, ACO, PSO) against the same randomly generated
// instance and reports makespan/timing statistics, adapted from the
// teacher's own single-machine benchmark into one that drives the full
// hybrid flowshop.Simulate.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/obslog"
	"github.com/stasais/flowshop/internal/opt"
)

// Algorithm names one opt.Optimizer factory; Factory takes the per-run
// seed so each repeated run is independently (and deterministically)
// randomized.
type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case describes one randomly generated instance to benchmark against.
type Case struct {
	Jobs             int
	NumStages        int
	MachinesPerStage []int
	InstanceSeed     int64

	MaxIterations    int
	GAPopulationSize int
	GAMutationRate   float64
	GATournamentSize int
	GAElitismCount   int
}

func (c Case) buildInstance() *flowshop.Instance {
	instRng := randForSeed(c.InstanceSeed)
	inst := flowshop.RandomInstance(c.Jobs, c.NumStages, c.MachinesPerStage, 1, 99, instRng)
	inst.MaxIterations = c.MaxIterations
	inst.GAPopulationSize = c.GAPopulationSize
	inst.GAMutationRate = c.GAMutationRate
	inst.GATournamentSize = c.GATournamentSize
	inst.GAElitismCount = c.GAElitismCount
	return inst
}

// Record is one CSV row: an algorithm's aggregated performance on one Case.
type Record struct {
	ID     string
	Algo   string
	Jobs   int
	Stages int
	Runs   int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest float64
	MakespanMean float64
	MakespanStd  float64
}

// Runner repeats each (Case, Algorithm) pair Runs times.
type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

// RunCase runs algo against c.buildInstance() Runs times and aggregates
// makespan/duration statistics. Runs execute concurrently via errgroup:
// every opt.Optimizer must be safe for concurrent, independent Solve
// calls (internal/opt's documented contract), and each run gets its own
// factory-built optimizer and seed.
func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.buildInstance()

	makespans := make([]float64, r.Runs)
	timesMs := make([]float64, r.Runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.Runs; i++ {
		i := i
		g.Go(func() error {
			runSeed := r.BaseSeed + int64(i)
			op := algo.Factory(runSeed)

			runCtx := gctx
			cancel := func() {}
			if r.PerRunTimeout > 0 {
				runCtx, cancel = context.WithTimeout(gctx, r.PerRunTimeout)
			}
			defer cancel()

			start := time.Now()
			res, err := op.Solve(runCtx, inst)
			dur := time.Since(start)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			if len(res.Permutation) != inst.NumJobs {
				return fmt.Errorf("run %d: invalid permutation length %d (want %d)", i, len(res.Permutation), inst.NumJobs)
			}

			makespans[i] = res.Makespan
			timesMs[i] = float64(dur.Microseconds()) / 1000.0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}

	msStats := CalcStats(makespans)
	tStats := CalcStats(timesMs)

	rec := Record{
		ID:     uuid.NewString(),
		Algo:   algo.Name,
		Jobs:   c.Jobs,
		Stages: c.NumStages,
		Runs:   r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,
	}

	obslog.Logger.Debug().
		Str("run_id", rec.ID).
		Str("algo", rec.Algo).
		Int("jobs", rec.Jobs).
		Float64("makespan_best", rec.MakespanBest).
		Msg("bench case complete")

	return rec, nil
}

// WriteCSV writes records to path, creating parent directories as needed.
func WriteCSV(path string, records []Record) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"id", "algo", "jobs", "stages", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_mean", "makespan_std",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Algo,
			itoa(r.Jobs),
			itoa(r.Stages),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.MakespanBest),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
