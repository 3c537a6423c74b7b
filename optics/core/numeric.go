package core

import (
	"fmt"
	"math"
)

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps.
// The comparison is absolute for small magnitudes and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 || math.IsInf(largest, 0) {
		return false
	}

	return diff/largest <= eps
}

// MinMax returns the smallest and largest element of values.
// NaN elements are ignored. An empty slice yields (NaN, NaN).
func MinMax(values []float64) (lo, hi float64) {
	lo, hi = math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Geomspace returns n samples spaced evenly on a log scale over [start, stop].
// Both bounds must be finite and strictly positive.
func Geomspace(start, stop float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("geomspace: sample count must be > 0: %d: %w", n, ErrValidation)
	}
	if !(start > 0) || !(stop > 0) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("geomspace: bounds must be finite and > 0: [%g, %g]: %w", start, stop, ErrValidation)
	}

	exps := Linspace(math.Log(start), math.Log(stop), n)
	for i, e := range exps {
		exps[i] = math.Exp(e)
	}
	// Pin the ends so callers can rely on exact bounds.
	exps[0] = start
	exps[n-1] = stop
	return exps, nil
}
