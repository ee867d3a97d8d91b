package bayes

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gpModel is a zero-mean Gaussian process regressor over an RBF kernel,
// fit once per iteration on the points evaluated so far.
type gpModel struct {
	X    [][]float64
	cfg  Config
	chol mat.Cholesky
	alpha *mat.VecDense
}

// fitGP builds the kernel (Gram) matrix over X, Cholesky-factorizes it and
// solves for alpha = K^-1 y. It reports false when X is empty or when the
// factorization fails (a near-singular kernel, typically from two
// near-duplicate candidates).
func fitGP(X [][]float64, y []float64, cfg Config) (*gpModel, bool) {
	n := len(X)
	if n == 0 {
		return nil, false
	}
	k := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := kernel(X[i], X[j], cfg)
			if i == j {
				v += cfg.NoiseVariance
			}
			k.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(k); !ok {
		return nil, false
	}

	yVec := mat.NewVecDense(n, append([]float64(nil), y...))
	var alpha mat.VecDense
	if err := chol.SolveVecTo(&alpha, yVec); err != nil {
		return nil, false
	}

	return &gpModel{X: X, cfg: cfg, chol: chol, alpha: &alpha}, true
}

// predict returns the posterior mean and standard deviation at xStar.
func (m *gpModel) predict(xStar []float64) (mean, std float64) {
	n := len(m.X)
	kStar := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		kStar.SetVec(i, kernel(m.X[i], xStar, m.cfg))
	}
	mean = mat.Dot(kStar, m.alpha)

	var kInvKStar mat.VecDense
	if err := m.chol.SolveVecTo(&kInvKStar, kStar); err != nil {
		return mean, 0
	}
	variance := kernel(xStar, xStar, m.cfg) - mat.Dot(kStar, &kInvKStar)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// kernel is the squared-exponential (RBF) covariance function.
func kernel(a, b []float64, cfg Config) float64 {
	sqDist := 0.0
	for i := range a {
		d := a[i] - b[i]
		sqDist += d * d
	}
	return cfg.SignalVariance * math.Exp(-sqDist/(2*cfg.Lengthscale*cfg.Lengthscale))
}
