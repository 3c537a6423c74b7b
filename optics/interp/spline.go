package interp

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// Spline is a piecewise polynomial through (xs[i], ys[i]).
// Segment i covers [xs[i], xs[i+1]] and evaluates
// c0 + c1·t + c2·t² + c3·t³ with t = x - xs[i].
type Spline struct {
	order  int
	xs     []float64
	coeffs [][4]float64
}

// NewSpline fits a spline of the given order (1, 2 or 3) through the samples.
// xs must be strictly increasing and hold at least order+1 samples.
func NewSpline(xs, ys []float64, order int) (*Spline, error) {
	if order < 1 || order > 3 {
		return nil, fmt.Errorf("interp: spline order must be 1, 2 or 3: %d: %w", order, core.ErrValidation)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: length mismatch: %d knots, %d values: %w", len(xs), len(ys), core.ErrValidation)
	}
	if len(xs) < order+1 {
		return nil, fmt.Errorf("interp: order %d needs at least %d samples, got %d: %w", order, order+1, len(xs), core.ErrValidation)
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("interp: knots not strictly increasing at index %d: %w", i, core.ErrValidation)
		}
	}

	s := &Spline{
		order: order,
		xs:    append([]float64(nil), xs...),
	}
	switch order {
	case 1:
		s.coeffs = linearCoeffs(xs, ys)
	case 2:
		s.coeffs = quadraticCoeffs(xs, ys)
	default:
		s.coeffs = naturalCubicCoeffs(xs, ys)
	}
	return s, nil
}

// Order returns the polynomial degree of each piece.
func (s *Spline) Order() int { return s.order }

// Domain returns the first and last knot.
func (s *Spline) Domain() (lo, hi float64) { return s.xs[0], s.xs[len(s.xs)-1] }

// At evaluates the spline at x. Points outside the knot range use the
// nearest end piece.
func (s *Spline) At(x float64) float64 {
	i := sort.SearchFloat64s(s.xs, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(s.coeffs)-1 {
		i = len(s.coeffs) - 1
	}
	c := s.coeffs[i]
	t := x - s.xs[i]
	return ((c[3]*t+c[2])*t+c[1])*t + c[0]
}

// Eval evaluates the spline at every x into dst, which must be at least
// len(x) long.
func (s *Spline) Eval(dst, x []float64) {
	for i, v := range x {
		dst[i] = s.At(v)
	}
}

func linearCoeffs(xs, ys []float64) [][4]float64 {
	out := make([][4]float64, len(xs)-1)
	for i := range out {
		h := xs[i+1] - xs[i]
		out[i] = [4]float64{ys[i], (ys[i+1] - ys[i]) / h}
	}
	return out
}

// quadraticCoeffs builds a C1 quadratic spline. The slope at the first knot
// comes from the parabola through the first three samples; every later
// slope follows from continuity.
func quadraticCoeffs(xs, ys []float64) [][4]float64 {
	out := make([][4]float64, len(xs)-1)
	d := lagrangeSlope(xs[0], xs[1], xs[2], ys[0], ys[1], ys[2])
	for i := range out {
		h := xs[i+1] - xs[i]
		c2 := (ys[i+1] - ys[i] - d*h) / (h * h)
		out[i] = [4]float64{ys[i], d, c2}
		d += 2 * c2 * h
	}
	return out
}

// lagrangeSlope returns the derivative at x0 of the parabola through three points.
func lagrangeSlope(x0, x1, x2, y0, y1, y2 float64) float64 {
	return y0*(2*x0-x1-x2)/((x0-x1)*(x0-x2)) +
		y1*(x0-x2)/((x1-x0)*(x1-x2)) +
		y2*(x0-x1)/((x2-x0)*(x2-x1))
}

// naturalCubicCoeffs solves the tridiagonal system for the second
// derivatives with M[0] = M[n-1] = 0 (Thomas algorithm).
func naturalCubicCoeffs(xs, ys []float64) [][4]float64 {
	n := len(xs)
	h := make([]float64, n-1)
	for i := range h {
		h[i] = xs[i+1] - xs[i]
	}

	m := make([]float64, n)
	if n > 2 {
		sub := make([]float64, n)
		diag := make([]float64, n)
		sup := make([]float64, n)
		rhs := make([]float64, n)
		for i := 1; i < n-1; i++ {
			sub[i] = h[i-1]
			diag[i] = 2 * (h[i-1] + h[i])
			sup[i] = h[i]
			rhs[i] = 6 * ((ys[i+1]-ys[i])/h[i] - (ys[i]-ys[i-1])/h[i-1])
		}
		for i := 2; i < n-1; i++ {
			w := sub[i] / diag[i-1]
			diag[i] -= w * sup[i-1]
			rhs[i] -= w * rhs[i-1]
		}
		for i := n - 2; i >= 1; i-- {
			m[i] = (rhs[i] - sup[i]*m[i+1]) / diag[i]
		}
	}

	out := make([][4]float64, n-1)
	for i := range out {
		slope := (ys[i+1] - ys[i]) / h[i]
		out[i] = [4]float64{
			ys[i],
			slope - h[i]*(2*m[i]+m[i+1])/6,
			m[i] / 2,
			(m[i+1] - m[i]) / (6 * h[i]),
		}
	}
	return out
}
