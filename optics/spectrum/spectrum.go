package spectrum

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// Spectrum is a set of spectral coordinates sharing one type and unit.
//
// A spectrum built with [NewScalar] remembers that it is scalar so evaluators
// can hand back a scalar result; otherwise it behaves like a one-element
// sequence.
type Spectrum struct {
	values []float64
	scalar bool
	typ    Type
	unit   Unit
}

// Option configures spectrum construction.
type Option func(*config)

type config struct {
	typ     Type
	typSet  bool
	unit    string
	unitSet bool
}

// WithType sets the spectrum type.
func WithType(t Type) Option {
	return func(c *config) {
		c.typ = t
		c.typSet = true
	}
}

// WithUnit sets the unit by any accepted spelling, e.g. "micrometer" or "um".
func WithUnit(unit string) Option {
	return func(c *config) {
		c.unit = unit
		c.unitSet = true
	}
}

// resolve applies the defaulting rules: a unit alone implies its type, a
// type alone implies its default unit, neither means wavelength in nm.
func (c config) resolve() (Type, Unit, error) {
	switch {
	case c.unitSet:
		u, err := ParseUnit(c.unit)
		if err != nil {
			return 0, "", err
		}
		if c.typSet && u.Type() != c.typ {
			return 0, "", fmt.Errorf("spectrum: unit %s measures %s, not %s: %w", u, u.Type(), c.typ, core.ErrValidation)
		}
		return u.Type(), u, nil
	case c.typSet:
		if c.typ < Wavelength || c.typ > Energy {
			return 0, "", fmt.Errorf("spectrum: invalid type %v: %w", c.typ, core.ErrValidation)
		}
		return c.typ, c.typ.DefaultUnit(), nil
	default:
		return Wavelength, UnitNanometer, nil
	}
}

// New creates a spectrum from a sequence of values.
func New(values []float64, opts ...Option) (*Spectrum, error) {
	return build(values, false, opts)
}

// NewScalar creates a spectrum holding a single scalar value.
func NewScalar(v float64, opts ...Option) (*Spectrum, error) {
	return build([]float64{v}, true, opts)
}

func build(values []float64, scalar bool, opts []Option) (*Spectrum, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	typ, unit, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("spectrum: values must not be empty: %w", core.ErrValidation)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("spectrum: value %d is NaN: %w", i, core.ErrValidation)
		}
	}

	return &Spectrum{
		values: append([]float64(nil), values...),
		scalar: scalar,
		typ:    typ,
		unit:   unit,
	}, nil
}

// Geomspace returns a sequence spectrum of n geometrically spaced values
// over [lo, hi].
func Geomspace(lo, hi float64, n int, opts ...Option) (*Spectrum, error) {
	values, err := core.Geomspace(lo, hi, n)
	if err != nil {
		return nil, err
	}
	return New(values, opts...)
}

// Type returns the spectrum type.
func (s *Spectrum) Type() Type { return s.typ }

// Unit returns the canonical unit symbol.
func (s *Spectrum) Unit() Unit { return s.unit }

// Len returns the number of values.
func (s *Spectrum) Len() int { return len(s.values) }

// IsScalar reports whether s was constructed from a scalar.
func (s *Spectrum) IsScalar() bool { return s.scalar }

// At returns the i-th value.
func (s *Spectrum) At(i int) float64 { return s.values[i] }

// Values returns a copy of the values.
func (s *Spectrum) Values() []float64 { return append([]float64(nil), s.values...) }

// Min returns the smallest value.
func (s *Spectrum) Min() float64 {
	lo, _ := core.MinMax(s.values)
	return lo
}

// Max returns the largest value.
func (s *Spectrum) Max() float64 {
	_, hi := core.MinMax(s.values)
	return hi
}

// ConvertTo returns a new spectrum holding the values expressed in the given
// type and unit. The unit accepts any spelling understood by [ParseUnit].
func (s *Spectrum) ConvertTo(t Type, unit string) (*Spectrum, error) {
	u, err := targetUnit(t, unit)
	if err != nil {
		return nil, err
	}
	return &Spectrum{
		values: convertValues(s.values, s.unit, u),
		scalar: s.scalar,
		typ:    t,
		unit:   u,
	}, nil
}

// ConvertInPlace rewrites the values, type and unit of s together.
// On error s is left untouched.
func (s *Spectrum) ConvertInPlace(t Type, unit string) error {
	u, err := targetUnit(t, unit)
	if err != nil {
		return err
	}
	s.values = convertValues(s.values, s.unit, u)
	s.typ = t
	s.unit = u
	return nil
}

// ValuesIn returns the values converted to unit u without allocating a new
// spectrum.
func (s *Spectrum) ValuesIn(u Unit) []float64 {
	return convertValues(s.values, s.unit, u)
}

func targetUnit(t Type, unit string) (Unit, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return "", err
	}
	if u.Type() != t {
		return "", fmt.Errorf("spectrum: unit %s measures %s, not %s: %w", u, u.Type(), t, core.ErrValidation)
	}
	return u, nil
}

func convertValues(values []float64, from, to Unit) []float64 {
	out := make([]float64, len(values))
	if from == to {
		copy(out, values)
		return out
	}

	src, dst := unitTable[from], unitTable[to]
	vecmath.ScaleBlock(out, values, src.scale)
	if src.typ != dst.typ {
		for i, v := range out {
			out[i] = fromHz(dst.typ, toHz(src.typ, v))
		}
	}
	scaled := make([]float64, len(out))
	vecmath.ScaleBlock(scaled, out, 1/dst.scale)
	return scaled
}

// Contains checks that every value of other lies within [s.Min(), s.Max()]
// once converted to the type and unit of s. Bounds are inclusive up to a
// relative tolerance of 1e-12 so that values sitting on a bound survive unit
// round-off.
func (s *Spectrum) Contains(other *Spectrum) error {
	lo, hi := core.MinMax(s.values)
	for _, v := range convertValues(other.values, other.unit, s.unit) {
		if v >= lo && v <= hi {
			continue
		}
		if core.NearlyEqual(v, lo, 1e-12) || core.NearlyEqual(v, hi, 1e-12) {
			continue
		}
		return &RangeError{Value: v, Lower: lo, Upper: hi, Unit: s.unit}
	}
	return nil
}

// String formats s as "0.5 um" or "[0.4 0.5] um".
func (s *Spectrum) String() string {
	if s.scalar {
		return strconv.FormatFloat(s.values[0], 'g', -1, 64) + " " + string(s.unit)
	}
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "] " + string(s.unit)
}
