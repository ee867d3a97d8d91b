package bench_test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stasais/flowshop/internal/bench"
	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/heuristic"
	"github.com/stasais/flowshop/internal/opt"
)

// heuristicOptimizer adapts a fixed heuristic.Name into an opt.Optimizer,
// a cheap, deterministic stand-in for a real metaheuristic in tests.
type heuristicOptimizer struct {
	name heuristic.Name
}

func (h heuristicOptimizer) Solve(ctx context.Context, inst *flowshop.Instance) (opt.Result, error) {
	perm, err := heuristic.Order(h.name, inst)
	if err != nil {
		return opt.Result{}, err
	}
	return opt.ToResult(inst, perm, 1, 1, nil)
}

func testCase() bench.Case {
	return bench.Case{
		Jobs:             5,
		NumStages:        2,
		MachinesPerStage: []int{1, 1},
		InstanceSeed:     123,
		MaxIterations:    1,
		GAPopulationSize: 2,
		GATournamentSize: 2,
	}
}

func TestRunner_RunCase_AggregatesStats(t *testing.T) {
	runner := bench.Runner{Runs: 4, BaseSeed: 1}
	algo := bench.Algorithm{
		Name: "SPT",
		Factory: func(seed int64) opt.Optimizer {
			return heuristicOptimizer{name: heuristic.SPT}
		},
	}

	rec, err := runner.RunCase(context.Background(), testCase(), algo)
	require.NoError(t, err)

	assert.Equal(t, "SPT", rec.Algo)
	assert.Equal(t, 5, rec.Jobs)
	assert.Equal(t, 2, rec.Stages)
	assert.Equal(t, 4, rec.Runs)
	assert.Greater(t, rec.MakespanBest, 0.0)
	assert.NotEmpty(t, rec.ID)
	// SPT is deterministic given a fixed instance, so every run agrees.
	assert.Equal(t, rec.MakespanBest, rec.MakespanMean)
	assert.Equal(t, 0.0, rec.MakespanStd)
}

func TestRunner_RunCase_PropagatesOptimizerError(t *testing.T) {
	runner := bench.Runner{Runs: 2, BaseSeed: 1}
	algo := bench.Algorithm{
		Name: "broken",
		Factory: func(seed int64) opt.Optimizer {
			return heuristicOptimizer{name: heuristic.Name("not-a-method")}
		},
	}
	_, err := runner.RunCase(context.Background(), testCase(), algo)
	require.Error(t, err)
}

func TestWriteCSV_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "results.csv")

	records := []bench.Record{
		{ID: "r1", Algo: "GA", Jobs: 10, Stages: 3, Runs: 5, TimeBestMs: 1.2, TimeMeanMs: 1.5, TimeStdMs: 0.1, MakespanBest: 100, MakespanMean: 110, MakespanStd: 5},
	}
	require.NoError(t, bench.WriteCSV(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GA")
	assert.Contains(t, string(data), "r1")
}

func TestCase_InstanceSeed_IsReproducible(t *testing.T) {
	// Case.buildInstance is unexported; its determinism is exercised
	// indirectly through RunCase above, and RandomInstance's own
	// reproducibility is covered in internal/flowshop. Here we just pin
	// down that RandomInstance with the same seed agrees with itself,
	// the property buildInstance relies on.
	c := testCase()
	rng1 := rand.New(rand.NewSource(c.InstanceSeed))
	rng2 := rand.New(rand.NewSource(c.InstanceSeed))
	inst1 := flowshop.RandomInstance(c.Jobs, c.NumStages, c.MachinesPerStage, 1, 99, rng1)
	inst2 := flowshop.RandomInstance(c.Jobs, c.NumStages, c.MachinesPerStage, 1, 99, rng2)
	assert.Equal(t, inst1.Jobs, inst2.Jobs)
}
