package ga

import "math/rand"

// initPermutation fills p with [0, 1, 2, ..., n-1], the base state before a
// random shuffle. Values are indices into the instance's job slice, not job
// ids — the solver maps indices to ids when it calls Simulate.
func initPermutation(p []int) {
	for i := range p {
		p[i] = i
	}
}

// shufflePermutation performs a Fisher-Yates shuffle in place.
func shufflePermutation(p []int, rng *rand.Rand) {
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}

// tournamentSelect runs tournament selection over scores (lower is
// better) and returns the winning individual's index. The tournamentSize
// candidates are drawn uniformly without replacement via a partial
// Fisher-Yates shuffle over scratch, which callers must size to
// len(scores) and which is reinitialized on every call.
func tournamentSelect(scores []float64, tournamentSize int, rng *rand.Rand, scratch []int) int {
	n := len(scores)
	for i := range scratch {
		scratch[i] = i
	}
	if tournamentSize > n {
		tournamentSize = n
	}

	best := -1
	bestScore := 0.0
	for i := 0; i < tournamentSize; i++ {
		j := i + rng.Intn(n-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
		cand := scratch[i]
		if best == -1 || scores[cand] < bestScore {
			best = cand
			bestScore = scores[cand]
		}
	}
	return best
}

// orderCrossoverOX implements the OX1 ordered-crossover operator: a
// contiguous segment is copied verbatim from one parent, the remaining
// positions are filled with the other parent's genes in their relative
// order, skipping genes already present.
func orderCrossoverOX(
	p1, p2, c1, c2 []int,
	rng *rand.Rand,
	mark []int,
	stamp *int,
) {
	n := len(p1)

	a := rng.Intn(n)
	b := rng.Intn(n)
	if a > b {
		a, b = b, a
	}
	if a == b {
		b = (a + 1) % n
		if a > b {
			a, b = b, a
		}
	}

	fill := func(dst []int) {
		for i := range dst {
			dst[i] = -1
		}
	}
	fill(c1)
	fill(c2)

	*stamp++
	curStamp := *stamp

	for i := a; i < b; i++ {
		gene := p1[i]
		c1[i] = gene
		mark[gene] = curStamp
	}

	pos := b % n
	for i := 0; i < n; i++ {
		gene := p2[(b+i)%n]
		if mark[gene] == curStamp {
			continue
		}
		for c1[pos] != -1 {
			pos = (pos + 1) % n
		}
		c1[pos] = gene
		mark[gene] = curStamp
	}

	*stamp++
	curStamp = *stamp

	for i := a; i < b; i++ {
		gene := p2[i]
		c2[i] = gene
		mark[gene] = curStamp
	}
	pos = b % n
	for i := 0; i < n; i++ {
		gene := p1[(b+i)%n]
		if mark[gene] == curStamp {
			continue
		}
		for c2[pos] != -1 {
			pos = (pos + 1) % n
		}
		c2[pos] = gene
		mark[gene] = curStamp
	}
}

// mutateShuffleIndexes is DEAP's mutShuffleIndexes: each position is, with
// probability indpb, swapped with a different random position.
func mutateShuffleIndexes(p []int, indpb float64, rng *rand.Rand) {
	n := len(p)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		if rng.Float64() < indpb {
			j := rng.Intn(n - 1)
			if j >= i {
				j++
			}
			p[i], p[j] = p[j], p[i]
		}
	}
}
