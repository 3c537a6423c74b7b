package spectral

import (
	"fmt"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/interp"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Interpolation evaluates a spline through tabulated (coordinate, value)
// rows. The valid range spans the first and last coordinate.
type Interpolation struct {
	xs, ys []float64
	spline *interp.Spline
	unit   spectrum.Unit
	valid  *spectrum.Spectrum
}

// NewInterpolation builds an interpolating evaluator from rows of at least
// two columns; only the first two are used. Rows that break strict increase
// of the first column are dropped (see [RepairTable]). The default spectrum
// is wavelength in meters and the default order is 1 (linear).
func NewInterpolation(table [][]float64, opts ...Option) (*Interpolation, error) {
	cfg := applyOptions(opts)
	for i, row := range table {
		if len(row) < 2 {
			return nil, fmt.Errorf("spectral: table row %d has %d columns, need 2: %w", i, len(row), core.ErrFormat)
		}
	}
	if !IsStrictlyIncreasing(table) {
		table = RepairTable(table)
	}

	xs := make([]float64, len(table))
	ys := make([]float64, len(table))
	for i, row := range table {
		xs[i], ys[i] = row[0], row[1]
	}
	spline, err := interp.NewSpline(xs, ys, cfg.interpOrder)
	if err != nil {
		return nil, fmt.Errorf("spectral: interpolation: %w", err)
	}
	valid, err := newRange(xs[0], xs[len(xs)-1], cfg.typ, cfg.unit)
	if err != nil {
		return nil, err
	}

	return &Interpolation{
		xs:     xs,
		ys:     ys,
		spline: spline,
		unit:   valid.Unit(),
		valid:  valid,
	}, nil
}

// Order returns the spline order.
func (p *Interpolation) Order() int { return p.spline.Order() }

// Table returns a copy of the (repaired) table.
func (p *Interpolation) Table() [][]float64 {
	out := make([][]float64, len(p.xs))
	for i := range p.xs {
		out[i] = []float64{p.xs[i], p.ys[i]}
	}
	return out
}

// ValidRange implements [Evaluator].
func (p *Interpolation) ValidRange() *spectrum.Spectrum { return p.valid }

// Evaluate implements [Evaluator].
func (p *Interpolation) Evaluate(s *spectrum.Spectrum) (Values, error) {
	if err := contains(p.valid, s); err != nil {
		return Values{}, err
	}
	x := s.ValuesIn(p.unit)
	out := make([]float64, len(x))
	p.spline.Eval(out, x)
	return RealValues(out, s.IsScalar()), nil
}
