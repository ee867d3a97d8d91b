// Package facade implements spec.md §4.6's unified optimization façade:
// Optimize validates an instance once, then dispatches to one of the
// eight fixed methods, returning flowshop.ErrUnknownMethod for anything
// else. The CLI's per-method subcommands call it; the benchmark harness
// does not, and builds its optimizers (GA included) directly. SA/TS/ACO/PSO
// are reachable only through internal/bench, never through Optimize.
package facade

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/stasais/flowshop/internal/bayes"
	"github.com/stasais/flowshop/internal/flowshop"
	"github.com/stasais/flowshop/internal/ga"
	"github.com/stasais/flowshop/internal/heuristic"
	"github.com/stasais/flowshop/internal/obslog"
	"github.com/stasais/flowshop/internal/obsmetrics"
	"github.com/stasais/flowshop/internal/opt"
	"github.com/stasais/flowshop/internal/search"
)

// Method is one of the façade's fixed optimization methods.
type Method string

const (
	SPT           Method = Method(heuristic.SPT)
	LPT           Method = Method(heuristic.LPT)
	FirstStageSPT Method = Method(heuristic.FirstStageSPT)
	LastStageSPT  Method = Method(heuristic.LastStageSPT)
	Bottleneck    Method = Method(heuristic.Bottleneck)
	Random        Method = "random"
	Bayesian      Method = "bayesian"
	GA            Method = "ga"
)

var heuristicMethods = map[Method]heuristic.Name{
	SPT:           heuristic.SPT,
	LPT:           heuristic.LPT,
	FirstStageSPT: heuristic.FirstStageSPT,
	LastStageSPT:  heuristic.LastStageSPT,
	Bottleneck:    heuristic.Bottleneck,
}

// Optimize maps (inst, method) to a Result.
func Optimize(ctx context.Context, inst *flowshop.Instance, method Method) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}

	var (
		res opt.Result
		err error
	)

	if name, ok := heuristicMethods[method]; ok {
		var perm []int
		perm, err = heuristic.Order(name, inst)
		if err == nil {
			obsmetrics.Evaluations.WithLabelValues(string(method)).Inc()
			res, err = opt.ToResult(inst, perm, 1, 1, nil)
		}
	} else {
		rng := newRNG(inst)
		switch method {
		case Random:
			res, err = search.NewRandom(rng).Solve(ctx, inst)
		case Bayesian:
			res, err = bayes.New(bayes.DefaultConfig(), rng).Solve(ctx, inst)
		case GA:
			var solver *ga.Solver
			solver, err = ga.New(rng)
			if err == nil {
				res, err = solver.Solve(ctx, inst)
			}
		default:
			err = fmt.Errorf("%w: %q", flowshop.ErrUnknownMethod, method)
		}
	}

	res.Duration = time.Since(start)
	obsmetrics.SearchDuration.WithLabelValues(string(method)).Observe(res.Duration.Seconds())

	if err != nil {
		obslog.Logger.Error().Str("method", string(method)).Err(err).Msg("optimize failed")
		return opt.Result{}, err
	}

	obsmetrics.BestMakespan.WithLabelValues(string(method)).Observe(res.Makespan)
	obslog.Logger.Info().
		Str("method", string(method)).
		Float64("makespan", res.Makespan).
		Int("evaluations", res.Evaluations).
		Msg("optimize complete")
	return res, nil
}

func newRNG(inst *flowshop.Instance) *rand.Rand {
	seed := time.Now().UnixNano()
	if inst.RandomSeed != nil {
		seed = *inst.RandomSeed
	}
	return rand.New(rand.NewSource(seed))
}
