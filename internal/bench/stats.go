package bench

import "gonum.org/v1/gonum/stat"

// Stats summarizes a sample of run results: every optimizer now reports a
// float64 makespan, so one stats type covers both makespan and timing
// samples (the teacher kept IntStats/FloatStats separate for its
// int-makespan single-machine model).
type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcStats computes best/mean/sample-standard-deviation over values using
// gonum/stat rather than a hand-rolled accumulator.
func CalcStats(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	best := values[0]
	for _, v := range values {
		if v < best {
			best = v
		}
	}
	s.Best = best
	s.Mean = stat.Mean(values, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}
