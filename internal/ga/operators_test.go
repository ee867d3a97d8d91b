package ga

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitPermutation(t *testing.T) {
	p := make([]int, 5)
	initPermutation(p)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, p)
}

func TestShufflePermutation_StaysAPermutation(t *testing.T) {
	p := []int{0, 1, 2, 3, 4, 5}
	shufflePermutation(p, rand.New(rand.NewSource(1)))
	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, sorted)
}

func TestTournamentSelect_ReturnsInRangeIndex(t *testing.T) {
	scores := []float64{5, 1, 9, 3}
	rng := rand.New(rand.NewSource(2))
	scratch := make([]int, len(scores))
	for i := 0; i < 50; i++ {
		winner := tournamentSelect(scores, 2, rng, scratch)
		assert.GreaterOrEqual(t, winner, 0)
		assert.Less(t, winner, len(scores))
	}
}

func TestTournamentSelect_NeverRepeatsACandidateWithinOneTournament(t *testing.T) {
	// A tournament size equal to the population must sample every
	// individual without repeats, so it always finds the true minimum.
	scores := []float64{5, 1, 9, 3}
	rng := rand.New(rand.NewSource(2))
	scratch := make([]int, len(scores))
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, tournamentSelect(scores, len(scores), rng, scratch))
	}
}

func TestTournamentSelect_EventuallyFindsTheGlobalBest(t *testing.T) {
	scores := []float64{5, 1, 9, 3}
	rng := rand.New(rand.NewSource(2))
	scratch := make([]int, len(scores))
	foundBest := false
	for i := 0; i < 500; i++ {
		if tournamentSelect(scores, 2, rng, scratch) == 1 {
			foundBest = true
			break
		}
	}
	assert.True(t, foundBest)
}

func TestOrderCrossoverOX_ProducesPermutations(t *testing.T) {
	n := 6
	p1 := []int{0, 1, 2, 3, 4, 5}
	p2 := []int{5, 4, 3, 2, 1, 0}
	c1 := make([]int, n)
	c2 := make([]int, n)
	mark := make([]int, n)
	stamp := 0

	rng := rand.New(rand.NewSource(3))
	orderCrossoverOX(p1, p2, c1, c2, rng, mark, &stamp)

	for _, c := range [][]int{c1, c2} {
		seen := make(map[int]bool, n)
		for _, g := range c {
			assert.False(t, seen[g], "gene %d repeated", g)
			assert.GreaterOrEqual(t, g, 0)
			assert.Less(t, g, n)
			seen[g] = true
		}
		assert.Len(t, seen, n)
	}
}

func TestMutateShuffleIndexes_AlwaysMutatesIsStillAPermutation(t *testing.T) {
	p := []int{0, 1, 2, 3, 4}
	mutateShuffleIndexes(p, 1.0, rand.New(rand.NewSource(4)))
	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)
}

func TestMutateShuffleIndexes_NeverSwapsWithSelf(t *testing.T) {
	// n=2, indpb=1: the only "other" position is always swapped with, so
	// both positions swap with each other and the order is restored.
	p := []int{7, 9}
	mutateShuffleIndexes(p, 1.0, rand.New(rand.NewSource(5)))
	assert.Equal(t, []int{7, 9}, p)
}

func TestMutateShuffleIndexes_SingleElementNoOp(t *testing.T) {
	p := []int{42}
	mutateShuffleIndexes(p, 1.0, rand.New(rand.NewSource(6)))
	assert.Equal(t, []int{42}, p)
}
