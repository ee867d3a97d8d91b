package flowshop

import "fmt"

// ValidatePermutation reports whether perm is a bijection onto inst's job
// ids. Every heuristic, search loop and Simulate caller must pass
// Simulate only permutations that satisfy this.
func ValidatePermutation(inst *Instance, perm []int) error {
	if len(perm) != inst.NumJobs {
		return fmt.Errorf("%w: length must be %d (got %d)", ErrInvalidPermutation, inst.NumJobs, len(perm))
	}
	ids := make(map[int]bool, inst.NumJobs)
	for _, j := range inst.Jobs {
		ids[j.ID] = true
	}
	seen := make(map[int]bool, len(perm))
	for _, id := range perm {
		if !ids[id] {
			return fmt.Errorf("%w: job id %d is not in the instance", ErrInvalidPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate job id %d", ErrInvalidPermutation, id)
		}
		seen[id] = true
	}
	return nil
}

// IdentityPermutation returns the jobs in the order given in the instance.
func IdentityPermutation(inst *Instance) []int {
	perm := make([]int, len(inst.Jobs))
	for i, j := range inst.Jobs {
		perm[i] = j.ID
	}
	return perm
}
