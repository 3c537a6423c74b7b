package spectral

import (
	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Constant is a spectrum-independent value. Its default valid range is
// [0, +Inf) meters, so it accepts any physical spectrum.
type Constant struct {
	value float64
	valid *spectrum.Spectrum
}

// NewConstant creates a constant evaluator. [WithValidRange] and
// [WithSpectrum] narrow the domain.
func NewConstant(v float64, opts ...Option) (*Constant, error) {
	cfg := applyOptions(opts)
	valid, err := newRange(cfg.lo, cfg.hi, cfg.typ, cfg.unit)
	if err != nil {
		return nil, err
	}
	return &Constant{value: v, valid: valid}, nil
}

// Zero returns the unbounded constant 0 used for absent n/k or
// permittivity parts.
func Zero() *Constant {
	c, _ := NewConstant(0)
	return c
}

// Value returns the constant.
func (c *Constant) Value() float64 { return c.value }

// ValidRange implements [Evaluator].
func (c *Constant) ValidRange() *spectrum.Spectrum { return c.valid }

// Evaluate implements [Evaluator].
func (c *Constant) Evaluate(s *spectrum.Spectrum) (Values, error) {
	if err := contains(c.valid, s); err != nil {
		return Values{}, err
	}
	out := make([]float64, s.Len())
	core.Fill(out, c.value)
	return RealValues(out, s.IsScalar()), nil
}
