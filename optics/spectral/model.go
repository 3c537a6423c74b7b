package spectral

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Output identifies the physical quantity a model produces.
type Output int

const (
	OutputN    Output = iota // real part of the refractive index
	OutputK                  // imaginary part of the refractive index
	OutputNK                 // complex refractive index
	OutputEpsR               // real part of the permittivity
	OutputEpsI               // imaginary part of the permittivity
	OutputEps                // complex permittivity
)

var outputNames = [...]string{"n", "k", "nk", "epsr", "epsi", "eps"}

func (o Output) String() string {
	if o < 0 || int(o) >= len(outputNames) {
		return fmt.Sprintf("Output(%d)", int(o))
	}
	return outputNames[o]
}

// Definition describes a registered dispersion model.
type Definition struct {
	Name         string
	FormulaID    int // refractiveindex.info formula number, 0 if none
	SpectrumType spectrum.Type
	Unit         spectrum.Unit
	Output       Output
	Params       string // human-readable parameter layout

	checkLen func(n int) error
	eval     func(p []float64, x, x2 float64) complex128
}

// Model evaluates a closed-form dispersion formula. Models are unit-rigid:
// they only accept the native spectrum type and unit of their definition.
type Model struct {
	def    *Definition
	params []float64
	valid  *spectrum.Spectrum
}

// NewModel looks up the named model and binds its parameters and valid
// range [lo, hi] (in the native unit). Unknown names fail with
// core.ErrLookup, bad parameter counts with core.ErrFormat and a non-native
// [WithSpectrum] with core.ErrValidation.
func NewModel(name string, params []float64, lo, hi float64, opts ...Option) (*Model, error) {
	def, err := LookupModel(name)
	if err != nil {
		return nil, err
	}
	if err := def.checkLen(len(params)); err != nil {
		return nil, fmt.Errorf("spectral: model %s: %w", def.Name, err)
	}

	cfg := applyOptions(opts)
	if cfg.specSet {
		if err := def.checkSpectrum(cfg.typ, cfg.unit); err != nil {
			return nil, err
		}
	}
	valid, err := newRange(lo, hi, def.SpectrumType, string(def.Unit))
	if err != nil {
		return nil, err
	}

	return &Model{
		def:    def,
		params: append([]float64(nil), params...),
		valid:  valid,
	}, nil
}

// checkSpectrum converts a sample value of 1 from the configured spectrum to
// the native one; anything but an identity mapping is rejected.
func (d *Definition) checkSpectrum(t spectrum.Type, unit string) error {
	sample, err := spectrum.NewScalar(1, spectrum.WithType(t), spectrum.WithUnit(unit))
	if err != nil {
		return fmt.Errorf("spectral: model %s: %w", d.Name, err)
	}
	native, err := sample.ConvertTo(d.SpectrumType, string(d.Unit))
	if t != d.SpectrumType || err != nil || !core.NearlyEqual(native.At(0), 1, 1e-12) {
		return fmt.Errorf("spectral: model %s requires %s in %s, got %s in %s: %w",
			d.Name, d.SpectrumType, d.Unit, t, unit, core.ErrValidation)
	}
	return nil
}

// Name returns the registered model name.
func (m *Model) Name() string { return m.def.Name }

// Output returns the quantity the model produces.
func (m *Model) Output() Output { return m.def.Output }

// Definition returns the model definition.
func (m *Model) Definition() Definition { return *m.def }

// Parameters returns a copy of the parameter vector.
func (m *Model) Parameters() []float64 { return append([]float64(nil), m.params...) }

// ValidRange implements [Evaluator].
func (m *Model) ValidRange() *spectrum.Spectrum { return m.valid }

// Evaluate implements [Evaluator].
func (m *Model) Evaluate(s *spectrum.Spectrum) (Values, error) {
	if err := contains(m.valid, s); err != nil {
		return Values{}, err
	}
	x := s.ValuesIn(m.def.Unit)
	x2 := make([]float64, len(x))
	vecmath.MulBlock(x2, x, x)

	out := make([]complex128, len(x))
	for i := range x {
		out[i] = m.def.eval(m.params, x[i], x2[i])
	}
	return NewValues(out, s.IsScalar()), nil
}

var (
	modelsByName    = make(map[string]*Definition, len(registry))
	modelsByFormula = make(map[int]*Definition, len(registry))
)

func init() {
	for _, d := range registry {
		modelsByName[strings.ToLower(d.Name)] = d
		if d.FormulaID > 0 {
			modelsByFormula[d.FormulaID] = d
		}
	}
}

// LookupModel resolves a model by case-insensitive name.
func LookupModel(name string) (*Definition, error) {
	d, ok := modelsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("spectral: unknown model %q: %w", name, core.ErrLookup)
	}
	return d, nil
}

// LookupFormula resolves a refractiveindex.info formula number (1-9).
func LookupFormula(id int) (*Definition, error) {
	d, ok := modelsByFormula[id]
	if !ok {
		return nil, fmt.Errorf("spectral: unknown formula id %d: %w", id, core.ErrLookup)
	}
	return d, nil
}

// Models returns all registered definitions in registry order.
func Models() []Definition {
	out := make([]Definition, len(registry))
	for i, d := range registry {
		out[i] = *d
	}
	return out
}
