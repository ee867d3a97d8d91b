// Package opt defines the common contract every optimizer (heuristic
// wrapper, random search, Bayesian, GA, and the benchmark-only
// metaheuristics) returns through. The uniform façade over these lives in
// internal/facade.
package opt

import (
	"context"
	"time"

	"github.com/stasais/flowshop/internal/flowshop"
)

// Optimizer maps an Instance to a Result. Implementations must be
// re-entrant and self-contained: no shared mutable state across calls, so
// that independent Optimize calls can run concurrently (spec.md §5).
type Optimizer interface {
	Solve(ctx context.Context, inst *flowshop.Instance) (Result, error)
}

// Result is what every optimizer returns: the best schedule it found plus
// bookkeeping about how it found it.
type Result struct {
	Permutation []int
	Makespan    float64
	Schedule    []flowshop.TaskLog
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Meta        map[string]any
}

// ToResult runs Simulate once on perm and wraps it into a Result. The
// façade uses it for the heuristic methods; the search solvers build
// their Result themselves.
func ToResult(inst *flowshop.Instance, perm []int, evaluations, iterations int, meta map[string]any) (Result, error) {
	res, err := flowshop.Simulate(inst, perm)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Permutation: res.Permutation,
		Makespan:    res.Makespan,
		Schedule:    res.Schedule,
		Evaluations: evaluations,
		Iterations:  iterations,
		Meta:        meta,
	}, nil
}
