package ga

// crossoverRate and mutationIndpb are the algorithm's fixed constants
// (spec.md §4.5): population size, generation budget, elitism count,
// tournament size and the per-individual mutation gate are
// instance-tunable (Instance.GA* fields and MaxIterations); the crossover
// probability and the shuffle-mutation's per-gene swap probability are not.
const (
	crossoverRate = 0.9
	mutationIndpb = 0.05
)
