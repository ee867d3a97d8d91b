package flowshop

import "errors"

// Sentinel error kinds. Callers should use errors.Is against these, the
// detail is always attached via fmt.Errorf's %w.
var (
	// ErrInvalidInstance is returned when an Instance violates an invariant
	// described in its data model: malformed shape, out-of-range values,
	// duplicate job ids.
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrInvalidPermutation is returned when a permutation is not a
	// bijection onto the instance's job ids. This is a decoder bug guard:
	// every heuristic, Simulate caller and optimizer is expected to only
	// ever hand Simulate a valid permutation.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrUnknownMethod is returned by the façade for a method name it does
	// not recognize.
	ErrUnknownMethod = errors.New("unknown optimization method")

	// ErrSearchAborted is returned when a search ends without a single
	// successful simulation: by the random search when the caller has
	// opted out of the identity-permutation fallback, and by the Bayesian
	// optimizer, which has no such fallback.
	ErrSearchAborted = errors.New("search aborted: no iteration produced a result")
)
