package material

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/matfile"
	"github.com/cwbudde/algo-dispersion/optics/spectral"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Kind tells which quantity a material's evaluators produce.
type Kind int

const (
	KindNone Kind = iota
	KindNK        // complex refractive index n + ik
	KindEps       // complex permittivity eps_r + i·eps_i
)

func (k Kind) String() string {
	switch k {
	case KindNK:
		return "nk"
	case KindEps:
		return "eps"
	default:
		return "none"
	}
}

// Meta holds descriptive fields from the source file.
type Meta struct {
	Reference string
	Comment   string
	Name      string
	FullName  string
	Author    string
	Alias     string
}

// ModelDescriptor describes a closed-form model. A zero ValidRange means
// unbounded; empty SpectrumType and Unit mean the model's native spectrum.
type ModelDescriptor struct {
	Name         string
	Parameters   []float64
	ValidRange   [2]float64
	SpectrumType string
	Unit         string
}

// Source selects how a material is built. Exactly one field must be set.
type Source struct {
	FilePath  *string
	FixedN    *float64
	FixedNK   *complex128
	FixedEpsR *float64
	FixedEps  *complex128
	Model     *ModelDescriptor
	Record    *matfile.Record
}

func (s Source) count() int {
	n := 0
	for _, set := range []bool{
		s.FilePath != nil, s.FixedN != nil, s.FixedNK != nil,
		s.FixedEpsR != nil, s.FixedEps != nil, s.Model != nil, s.Record != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Option configures material construction.
type Option func(*config)

type config struct {
	typ         spectrum.Type
	unit        string
	interpOrder int
}

func defaultConfig() config {
	return config{
		typ:         spectrum.Wavelength,
		unit:        string(spectrum.UnitNanometer),
		interpOrder: 1,
	}
}

// WithSpectrum sets the default spectrum type and unit. Tabulated data
// without its own unit is read in it and [Material.MaxValidRange] reports
// in it. The default is wavelength in nm.
func WithSpectrum(t spectrum.Type, unit string) Option {
	return func(c *config) {
		c.typ = t
		c.unit = unit
	}
}

// WithInterpOrder sets the spline order for tabulated data (default 1).
func WithInterpOrder(order int) Option {
	return func(c *config) {
		c.interpOrder = order
	}
}

// Material is the optical response of one material. It is not safe for
// concurrent use while RemoveAbsorption or Extrapolate run.
type Material struct {
	Meta Meta

	kind      Kind
	re, im    spectral.Evaluator
	cplx      spectral.Evaluator
	typ       spectrum.Type
	unit      spectrum.Unit
	cfg       config
	sourceRec *matfile.Record
}

// New builds a material from src.
func New(src Source, opts ...Option) (*Material, error) {
	if n := src.count(); n != 1 {
		return nil, fmt.Errorf("material: exactly one source is required, got %d: %w", n, core.ErrValidation)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	unit, err := spectrum.ParseUnit(cfg.unit)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	if unit.Type() != cfg.typ {
		return nil, fmt.Errorf("material: unit %s does not measure %s: %w", unit, cfg.typ, core.ErrValidation)
	}
	m := &Material{typ: cfg.typ, unit: unit, cfg: cfg}

	switch {
	case src.FilePath != nil:
		var rec *matfile.Record
		if rec, err = matfile.Read(*src.FilePath); err == nil {
			err = m.fromRecord(rec)
		}
	case src.Record != nil:
		err = m.fromRecord(src.Record)
	case src.Model != nil:
		err = m.fromModel(*src.Model)
	case src.FixedN != nil:
		err = m.fixed(KindNK, complex(*src.FixedN, 0), false)
	case src.FixedNK != nil:
		err = m.fixed(KindNK, *src.FixedNK, true)
	case src.FixedEpsR != nil:
		err = m.fixed(KindEps, complex(*src.FixedEpsR, 0), false)
	case src.FixedEps != nil:
		err = m.fixed(KindEps, *src.FixedEps, true)
	}
	if err != nil {
		return nil, err
	}

	if m.cplx == nil {
		if m.re == nil {
			m.re = spectral.Zero()
		}
		if m.im == nil {
			m.im = spectral.Zero()
		}
	}
	return m, nil
}

// FixedN returns a material with constant real refractive index n.
func FixedN(n float64, opts ...Option) (*Material, error) {
	return New(Source{FixedN: &n}, opts...)
}

// FixedNK returns a material with constant complex refractive index.
func FixedNK(nk complex128, opts ...Option) (*Material, error) {
	return New(Source{FixedNK: &nk}, opts...)
}

// FixedEpsR returns a material with constant real permittivity.
func FixedEpsR(eps float64, opts ...Option) (*Material, error) {
	return New(Source{FixedEpsR: &eps}, opts...)
}

// FixedEps returns a material with constant complex permittivity.
func FixedEps(eps complex128, opts ...Option) (*Material, error) {
	return New(Source{FixedEps: &eps}, opts...)
}

// FromModel returns a material described by a closed-form model.
func FromModel(d ModelDescriptor, opts ...Option) (*Material, error) {
	return New(Source{Model: &d}, opts...)
}

// FromRecord returns a material built from a parsed file.
func FromRecord(rec *matfile.Record, opts ...Option) (*Material, error) {
	return New(Source{Record: rec}, opts...)
}

// FromFile reads path and builds the material from it.
func FromFile(path string, opts ...Option) (*Material, error) {
	return New(Source{FilePath: &path}, opts...)
}

func (m *Material) fixed(kind Kind, v complex128, withImag bool) error {
	m.kind = kind
	re, err := spectral.NewConstant(real(v))
	if err != nil {
		return err
	}
	m.re = re
	if withImag {
		im, err := spectral.NewConstant(imag(v))
		if err != nil {
			return err
		}
		m.im = im
	}
	return nil
}

func (m *Material) fromModel(d ModelDescriptor) error {
	var opts []spectral.Option
	if d.SpectrumType != "" || d.Unit != "" {
		t, unit, err := resolveSpectrum(d.SpectrumType, d.Unit)
		if err != nil {
			return err
		}
		opts = append(opts, spectral.WithSpectrum(t, string(unit)))
		m.typ, m.unit = t, unit
	}
	lo, hi := d.ValidRange[0], d.ValidRange[1]
	if lo == 0 && hi == 0 {
		hi = math.Inf(1)
	}
	model, err := spectral.NewModel(d.Name, d.Parameters, lo, hi, opts...)
	if err != nil {
		return fmt.Errorf("material: %w", err)
	}
	return m.setModel(model)
}

// setModel stores model in the slot its output kind selects.
func (m *Material) setModel(model *spectral.Model) error {
	var kind Kind
	var slot *spectral.Evaluator
	switch model.Output() {
	case spectral.OutputN:
		kind, slot = KindNK, &m.re
	case spectral.OutputK:
		kind, slot = KindNK, &m.im
	case spectral.OutputNK:
		kind, slot = KindNK, &m.cplx
	case spectral.OutputEpsR:
		kind, slot = KindEps, &m.re
	case spectral.OutputEpsI:
		kind, slot = KindEps, &m.im
	case spectral.OutputEps:
		kind, slot = KindEps, &m.cplx
	default:
		return fmt.Errorf("material: model output %v: %w", model.Output(), core.ErrValidation)
	}
	if err := m.setKind(kind); err != nil {
		return err
	}
	*slot = model
	return nil
}

func (m *Material) setKind(kind Kind) error {
	if m.kind != KindNone && m.kind != kind {
		return fmt.Errorf("material: cannot mix %s and %s data: %w", m.kind, kind, core.ErrFormat)
	}
	m.kind = kind
	return nil
}

// resolveSpectrum parses a type/unit pair where either may be empty.
func resolveSpectrum(typ, unit string) (spectrum.Type, spectrum.Unit, error) {
	var opts []spectrum.Option
	if typ != "" {
		t, err := spectrum.ParseType(typ)
		if err != nil {
			return 0, "", fmt.Errorf("material: %w", err)
		}
		opts = append(opts, spectrum.WithType(t))
	}
	if unit != "" {
		opts = append(opts, spectrum.WithUnit(unit))
	}
	sample, err := spectrum.NewScalar(1, opts...)
	if err != nil {
		return 0, "", fmt.Errorf("material: %w", err)
	}
	return sample.Type(), sample.Unit(), nil
}

// Kind reports whether the material holds nk or permittivity data.
func (m *Material) Kind() Kind { return m.kind }

// DefaultSpectrum returns the default spectrum type and unit.
func (m *Material) DefaultSpectrum() (spectrum.Type, spectrum.Unit) { return m.typ, m.unit }

// Record returns the parsed file the material was built from, or nil.
func (m *Material) Record() *matfile.Record { return m.sourceRec }

func (m *Material) evaluate(s *spectrum.Spectrum) (spectral.Values, error) {
	if m.kind == KindNone {
		return spectral.Values{}, fmt.Errorf("material: no n/k or permittivity data: %w", core.ErrValidation)
	}
	if m.cplx != nil {
		return m.cplx.Evaluate(s)
	}
	re, err := m.re.Evaluate(s)
	if err != nil {
		return spectral.Values{}, err
	}
	im, err := m.im.Evaluate(s)
	if err != nil {
		return spectral.Values{}, err
	}
	return spectral.Combine(re, im), nil
}

// NK returns the complex refractive index n + ik at s. Permittivity data
// is converted with the principal square root.
func (m *Material) NK(s *spectrum.Spectrum) (spectral.Values, error) {
	v, err := m.evaluate(s)
	if err != nil {
		return spectral.Values{}, err
	}
	if m.kind == KindEps {
		v = v.Map(cmplx.Sqrt)
	}
	return v, nil
}

// Permittivity returns the complex permittivity at s. Refractive index
// data is squared.
func (m *Material) Permittivity(s *spectrum.Spectrum) (spectral.Values, error) {
	v, err := m.evaluate(s)
	if err != nil {
		return spectral.Values{}, err
	}
	if m.kind == KindNK {
		v = v.Map(func(c complex128) complex128 { return c * c })
	}
	return v, nil
}

// MaxValidRange returns the range on which both the real and the imaginary
// evaluator are valid, in the material's default spectrum.
func (m *Material) MaxValidRange() (*spectrum.Spectrum, error) {
	if m.kind == KindNone {
		return nil, fmt.Errorf("material: no n/k or permittivity data: %w", core.ErrValidation)
	}
	evals := []spectral.Evaluator{m.re, m.im}
	if m.cplx != nil {
		evals = []spectral.Evaluator{m.cplx}
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	for _, e := range evals {
		r, err := e.ValidRange().ConvertTo(m.typ, string(m.unit))
		if err != nil {
			return nil, fmt.Errorf("material: %w", err)
		}
		lo = math.Max(lo, r.Min())
		hi = math.Min(hi, r.Max())
	}
	if lo > hi {
		return nil, fmt.Errorf("material: real and imaginary data do not overlap: %w", core.ErrValidation)
	}
	return spectrum.New([]float64{lo, hi}, spectrum.WithType(m.typ), spectrum.WithUnit(string(m.unit)))
}

// RemoveAbsorption replaces k (or eps_i) by a constant zero.
func (m *Material) RemoveAbsorption() error {
	if m.cplx != nil {
		return fmt.Errorf("material: removing absorption from a complex evaluator: %w", core.ErrNotSupported)
	}
	m.im = spectral.Zero()
	return nil
}

// Extrapolate extends the non-constant real and imaginary evaluators to
// cover ext (one or two values outside their range). See
// [spectral.NewExtrapolation] for the options. On error the material is
// left unchanged.
func (m *Material) Extrapolate(ext *spectrum.Spectrum, opts ...spectral.Option) error {
	if m.cplx != nil {
		return fmt.Errorf("material: extrapolating a complex evaluator: %w", core.ErrNotSupported)
	}
	parts := []spectral.Evaluator{m.re, m.im}
	for i, e := range parts {
		if _, ok := e.(*spectral.Constant); ok {
			continue
		}
		x, err := spectral.NewExtrapolation(e, ext, opts...)
		if err != nil {
			return fmt.Errorf("material: %w", err)
		}
		parts[i] = x
	}
	m.re, m.im = parts[0], parts[1]
	return nil
}

// SampleSpectrum returns n geometrically spaced points over MaxValidRange.
// An unbounded range falls back to 100–2000 nm.
func (m *Material) SampleSpectrum(n int) (*spectrum.Spectrum, error) {
	if n <= 0 {
		n = spectral.DefaultSamples
	}
	r, err := m.MaxValidRange()
	if err != nil {
		return nil, err
	}
	lo, hi := r.Min(), r.Max()
	if lo == 0 || math.IsInf(hi, 1) {
		return spectrum.Geomspace(100, 2000, n, spectrum.WithUnit(string(spectrum.UnitNanometer)))
	}
	return spectrum.Geomspace(lo, hi, n, spectrum.WithType(m.typ), spectrum.WithUnit(string(m.unit)))
}
