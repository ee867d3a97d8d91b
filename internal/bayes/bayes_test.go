package bayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stasais/flowshop/internal/flowshop"
)

// S6: x = [0.5, 0.5, 0.5] with job ids [2,0,1] decodes to [0,1,2].
func TestDecode_S6_TiesBreakByAscendingJobID(t *testing.T) {
	inst := &flowshop.Instance{
		Jobs: []flowshop.Job{
			{ID: 2}, {ID: 0}, {ID: 1},
		},
	}
	perm := decode([]float64{0.5, 0.5, 0.5}, inst)
	assert.Equal(t, []int{0, 1, 2}, perm)
}

func TestDecode_OrdersByValue(t *testing.T) {
	inst := &flowshop.Instance{
		Jobs: []flowshop.Job{
			{ID: 10}, {ID: 20}, {ID: 30},
		},
	}
	perm := decode([]float64{0.9, 0.1, 0.5}, inst)
	assert.Equal(t, []int{20, 30, 10}, perm)
}

func TestExpectedImprovement_ZeroStdIsZero(t *testing.T) {
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	assert.Equal(t, 0.0, expectedImprovement(10, 5, 0, 0.01, normal))
}

func TestExpectedImprovement_PositiveWhenMeanBelowBest(t *testing.T) {
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	ei := expectedImprovement(10, 5, 1, 0.01, normal)
	assert.Greater(t, ei, 0.0)
}

func TestFitGP_PredictRecoversTrainingPoints(t *testing.T) {
	cfg := DefaultConfig()
	X := [][]float64{{0, 0}, {1, 1}, {0.5, 0.5}}
	y := []float64{10, 20, 15}

	model, ok := fitGP(X, y, cfg)
	require.True(t, ok)

	for i, x := range X {
		mean, _ := model.predict(x)
		assert.InDelta(t, y[i], mean, 0.05)
	}
}

func TestFitGP_FailsOnEmptyInput(t *testing.T) {
	cfg := DefaultConfig()
	_, ok := fitGP(nil, nil, cfg)
	assert.False(t, ok)
}

func TestKernel_SelfSimilarityIsSignalVariance(t *testing.T) {
	cfg := DefaultConfig()
	a := []float64{0.3, 0.7}
	assert.InDelta(t, cfg.SignalVariance, kernel(a, a, cfg), 1e-9)
}

func TestKernel_DecaysWithDistance(t *testing.T) {
	cfg := DefaultConfig()
	near := kernel([]float64{0, 0}, []float64{0.01, 0}, cfg)
	far := kernel([]float64{0, 0}, []float64{1, 1}, cfg)
	assert.Greater(t, near, far)
	assert.True(t, math.IsInf(far, 0) == false)
}
