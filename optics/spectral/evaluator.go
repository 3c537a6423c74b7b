package spectral

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// DefaultSamples is the number of points used when an evaluator is sampled
// across its valid range.
const DefaultSamples = 1000

// Evaluator maps a spectrum to a (possibly complex) optical quantity.
type Evaluator interface {
	// Evaluate returns one value per spectral coordinate of s.
	Evaluate(s *spectrum.Spectrum) (Values, error)
	// ValidRange returns the two-point spectrum bounding applicability,
	// expressed in the evaluator's native type and unit.
	ValidRange() *spectrum.Spectrum
}

// Option configures evaluator construction.
type Option func(*config)

type config struct {
	typ         spectrum.Type
	unit        string
	specSet     bool
	lo, hi      float64
	rangeSet    bool
	interpOrder int
	splineOrder int
	samples     int
}

func defaultConfig() config {
	return config{
		typ:         spectrum.Wavelength,
		unit:        string(spectrum.UnitMeter),
		lo:          0,
		hi:          math.Inf(1),
		interpOrder: 1,
		splineOrder: 2,
		samples:     DefaultSamples,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithSpectrum sets the native spectrum type and unit of the evaluator.
func WithSpectrum(t spectrum.Type, unit string) Option {
	return func(c *config) {
		c.typ = t
		c.unit = unit
		c.specSet = true
	}
}

// WithValidRange sets the valid range of constants and models.
func WithValidRange(lo, hi float64) Option {
	return func(c *config) {
		c.lo, c.hi = lo, hi
		c.rangeSet = true
	}
}

// WithInterpOrder sets the spline order used by [Interpolation] (default 1).
func WithInterpOrder(order int) Option {
	return func(c *config) {
		c.interpOrder = order
	}
}

// WithSplineOrder sets the spline order used by [Extrapolation] (default 2).
func WithSplineOrder(order int) Option {
	return func(c *config) {
		c.splineOrder = order
	}
}

// WithSamples sets how many points [Extrapolation] samples from its base.
func WithSamples(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.samples = n
		}
	}
}

func newRange(lo, hi float64, t spectrum.Type, unit string) (*spectrum.Spectrum, error) {
	r, err := spectrum.New([]float64{lo, hi}, spectrum.WithType(t), spectrum.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("spectral: valid range: %w", err)
	}
	return r, nil
}

// Suggest returns n geometrically spaced points covering e's valid range in
// its native unit. The range must be finite with a positive lower bound.
func Suggest(e Evaluator, n int) (*spectrum.Spectrum, error) {
	r := e.ValidRange()
	s, err := spectrum.Geomspace(r.Min(), r.Max(), n,
		spectrum.WithType(r.Type()), spectrum.WithUnit(string(r.Unit())))
	if err != nil {
		return nil, fmt.Errorf("spectral: cannot sample range %v: %w", r, err)
	}
	return s, nil
}

// contains runs the range check of valid against s.
func contains(valid, s *spectrum.Spectrum) error {
	if s == nil {
		return fmt.Errorf("spectral: nil spectrum: %w", core.ErrValidation)
	}
	return valid.Contains(s)
}
