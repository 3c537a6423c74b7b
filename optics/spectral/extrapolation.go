package spectral

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/interp"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Extrapolation extends a base evaluator beyond its valid range with a
// spline fitted to a dense sample of the base. Inside the base range the
// base evaluator answers directly.
//
// The fitted curve can drift quickly away from the data; check the result
// for physical sense.
type Extrapolation struct {
	base   Evaluator
	lo, hi float64 // base range in unit
	unit   spectrum.Unit
	valid  *spectrum.Spectrum
	re, im *interp.Spline
	order  int
}

// NewExtrapolation wraps base so that it covers extended, a spectrum of one
// or two values that must each lie strictly outside the base range. A value
// below the range moves the lower bound, a value above moves the upper one.
// extended is not modified.
func NewExtrapolation(base Evaluator, extended *spectrum.Spectrum, opts ...Option) (*Extrapolation, error) {
	cfg := applyOptions(opts)
	if base == nil || extended == nil {
		return nil, fmt.Errorf("spectral: extrapolation needs a base evaluator and a spectrum: %w", core.ErrValidation)
	}

	baseRange := base.ValidRange()
	lo, hi := baseRange.Min(), baseRange.Max()
	if !(lo > 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("spectral: cannot extrapolate unbounded range %v: %w", baseRange, core.ErrValidation)
	}
	if extended.Len() > 2 {
		return nil, fmt.Errorf("spectral: extrapolation spectrum may hold at most 2 values, got %d: %w", extended.Len(), core.ErrValidation)
	}

	newLo, newHi := lo, hi
	for _, v := range extended.ValuesIn(baseRange.Unit()) {
		switch {
		case v < lo:
			newLo = math.Min(newLo, v)
		case v > hi:
			newHi = math.Max(newHi, v)
		default:
			return nil, fmt.Errorf("spectral: extrapolation value %g %s lies inside the defined range [%g, %g]: %w",
				v, baseRange.Unit(), lo, hi, core.ErrValidation)
		}
	}
	valid, err := newRange(newLo, newHi, baseRange.Type(), string(baseRange.Unit()))
	if err != nil {
		return nil, err
	}

	samples, err := Suggest(base, cfg.samples)
	if err != nil {
		return nil, err
	}
	sampled, err := base.Evaluate(samples)
	if err != nil {
		return nil, fmt.Errorf("spectral: sampling base evaluator: %w", err)
	}
	xs := samples.Values()
	re, err := interp.NewSpline(xs, sampled.Real(), cfg.splineOrder)
	if err != nil {
		return nil, fmt.Errorf("spectral: extrapolation spline: %w", err)
	}
	im, err := interp.NewSpline(xs, sampled.Imag(), cfg.splineOrder)
	if err != nil {
		return nil, fmt.Errorf("spectral: extrapolation spline: %w", err)
	}

	return &Extrapolation{
		base:  base,
		lo:    lo,
		hi:    hi,
		unit:  baseRange.Unit(),
		valid: valid,
		re:    re,
		im:    im,
		order: cfg.splineOrder,
	}, nil
}

// Base returns the wrapped evaluator.
func (e *Extrapolation) Base() Evaluator { return e.base }

// SplineOrder returns the order of the fitted spline.
func (e *Extrapolation) SplineOrder() int { return e.order }

// ValidRange implements [Evaluator]; it is the extended range.
func (e *Extrapolation) ValidRange() *spectrum.Spectrum { return e.valid }

// Evaluate implements [Evaluator]. Points inside the base range go to the
// base evaluator, the rest to the fitted spline.
func (e *Extrapolation) Evaluate(s *spectrum.Spectrum) (Values, error) {
	if err := contains(e.base.ValidRange(), s); err == nil {
		return e.base.Evaluate(s)
	}
	if err := contains(e.valid, s); err != nil {
		return Values{}, err
	}

	x := s.ValuesIn(e.unit)
	out := make([]complex128, len(x))
	var inside []float64
	var at []int
	for i, v := range x {
		if e.inBase(v) {
			inside = append(inside, v)
			at = append(at, i)
			continue
		}
		out[i] = complex(e.re.At(v), e.im.At(v))
	}

	if len(inside) > 0 {
		sub, err := spectrum.New(inside, spectrum.WithUnit(string(e.unit)))
		if err != nil {
			return Values{}, err
		}
		vals, err := e.base.Evaluate(sub)
		if err != nil {
			return Values{}, err
		}
		for j, i := range at {
			out[i] = vals.At(j)
		}
	}
	return NewValues(out, s.IsScalar()), nil
}

func (e *Extrapolation) inBase(v float64) bool {
	return (v >= e.lo && v <= e.hi) || core.NearlyEqual(v, e.lo, 1e-12) || core.NearlyEqual(v, e.hi, 1e-12)
}
