package spectral

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// Parameter-count rules.

func oddLen(n int) error {
	if n < 1 || n%2 == 0 {
		return fmt.Errorf("want constant plus coefficient pairs, got %d parameters: %w", n, core.ErrFormat)
	}
	return nil
}

func minLen(m int) func(int) error {
	return func(n int) error {
		if n < m {
			return fmt.Errorf("want at least %d parameters, got %d: %w", m, n, core.ErrFormat)
		}
		return nil
	}
}

// rationalLen accepts 1, 5 or 9+2m parameters.
func rationalLen(n int) error {
	if n == 1 || n == 5 || (n >= 9 && n%2 == 1) {
		return nil
	}
	return fmt.Errorf("want 1, 5 or 9+2m parameters, got %d: %w", n, core.ErrFormat)
}

// registry lists every model. Formula ids follow refractiveindex.info.
var registry = []*Definition{
	{
		Name: "Sellmeier", FormulaID: 1, Output: OutputN,
		Params:   "A, B1, C1, B2, C2, ...; n² = 1 + A + Σ Bi·λ²/(λ² − Ci²)",
		checkLen: oddLen,
		eval: func(p []float64, _, x2 float64) complex128 {
			rhs := 1 + p[0]
			for i := 1; i+1 < len(p); i += 2 {
				rhs += p[i] * x2 / (x2 - p[i+1]*p[i+1])
			}
			return complex(math.Sqrt(rhs), 0)
		},
	},
	{
		Name: "Sellmeier2", FormulaID: 2, Output: OutputN,
		Params:   "A, B1, C1, B2, C2, ...; n² = 1 + A + Σ Bi·λ²/(λ² − Ci)",
		checkLen: oddLen,
		eval: func(p []float64, _, x2 float64) complex128 {
			rhs := 1 + p[0]
			for i := 1; i+1 < len(p); i += 2 {
				rhs += p[i] * x2 / (x2 - p[i+1])
			}
			return complex(math.Sqrt(rhs), 0)
		},
	},
	{
		Name: "Polynomial", FormulaID: 3, Output: OutputN,
		Params:   "A, B1, e1, ...; n² = A + Σ Bi·λ^ei",
		checkLen: oddLen,
		eval: func(p []float64, x, _ float64) complex128 {
			return complex(math.Sqrt(powerSeries(p, 1, x, p[0])), 0)
		},
	},
	{
		Name: "RefractiveIndexInfo", FormulaID: 4, Output: OutputN,
		Params:   "A, [B, e, C, f]×2, D1, g1, ...; n² = A + Σ B·λ^e/(λ² − C^f) + Σ Di·λ^gi",
		checkLen: rationalLen,
		eval: func(p []float64, x, x2 float64) complex128 {
			rhs := p[0]
			for i := 1; i+3 < len(p) && i < 9; i += 4 {
				rhs += p[i] * math.Pow(x, p[i+1]) / (x2 - math.Pow(p[i+2], p[i+3]))
			}
			if len(p) > 9 {
				rhs = powerSeries(p, 9, x, rhs)
			}
			return complex(math.Sqrt(rhs), 0)
		},
	},
	{
		Name: "Cauchy", FormulaID: 5, Output: OutputN,
		Params:   "A, B1, e1, ...; n = A + Σ Bi·λ^ei",
		checkLen: oddLen,
		eval: func(p []float64, x, _ float64) complex128 {
			return complex(powerSeries(p, 1, x, p[0]), 0)
		},
	},
	{
		Name: "Gases", FormulaID: 6, Output: OutputN,
		Params:   "A, B1, C1, ...; n = 1 + A + Σ Bi/(Ci − λ⁻²)",
		checkLen: oddLen,
		eval: func(p []float64, _, x2 float64) complex128 {
			inv := 1 / x2
			rhs := 1 + p[0]
			for i := 1; i+1 < len(p); i += 2 {
				rhs += p[i] / (p[i+1] - inv)
			}
			return complex(rhs, 0)
		},
	},
	{
		Name: "Herzberger", FormulaID: 7, Output: OutputN,
		Params:   "A, B, C, D, E, F; n = A + B/L + C/L² + D·λ² + E·λ⁴ + F·λ⁶, L = λ² − 0.028",
		checkLen: minLen(6),
		eval: func(p []float64, _, x2 float64) complex128 {
			l := x2 - 0.028
			n := p[0] + p[1]/l + p[2]/(l*l) + p[3]*x2 + p[4]*x2*x2 + p[5]*x2*x2*x2
			return complex(n, 0)
		},
	},
	{
		Name: "Retro", FormulaID: 8, Output: OutputN,
		Params:   "A, B, C, D; (n²−1)/(n²+2) = A + B·λ²/(λ² − C) + D·λ²",
		checkLen: minLen(4),
		eval: func(p []float64, _, x2 float64) complex128 {
			rhs := p[0] + p[1]*x2/(x2-p[2]) + p[3]*x2
			pp := -2 * rhs / (1 - rhs)
			q := -1 / (1 - rhs)
			return complex(-pp/2+math.Sqrt(pp*pp/4-q), 0)
		},
	},
	{
		Name: "Exotic", FormulaID: 9, Output: OutputN,
		Params:   "A, B, C, D, E, F; n² = A + B·λ²/(λ² − C) + D·(λ − E)/((λ − E)² + F)",
		checkLen: minLen(6),
		eval: func(p []float64, x, x2 float64) complex128 {
			d := x - p[4]
			rhs := p[0] + p[1]*x2/(x2-p[2]) + p[3]*d/(d*d+p[5])
			return complex(math.Sqrt(rhs), 0)
		},
	},
	{
		Name: "Drude", Output: OutputEps,
		Params:   "Ep, Γ (eV); ε = 1 − Ep²/(E² + iΓE)",
		checkLen: minLen(2),
		eval: func(p []float64, e, e2 float64) complex128 {
			return 1 - complex(p[0]*p[0], 0)/complex(e2, p[1]*e)
		},
	},
	{
		Name: "DrudeLorentz", Output: OutputEps,
		Params:   "Ep, E0, Γ (eV); ε = 1 − Ep²/(E² − E0² + iΓE)",
		checkLen: minLen(3),
		eval: func(p []float64, e, e2 float64) complex128 {
			return 1 - complex(p[0]*p[0], 0)/complex(e2-p[1]*p[1], p[2]*e)
		},
	},
}

func init() {
	for _, d := range registry {
		if d.Output == OutputEps {
			d.SpectrumType, d.Unit = spectrum.Energy, spectrum.UnitElectronVolt
		} else {
			d.SpectrumType, d.Unit = spectrum.Wavelength, spectrum.UnitMicrometer
		}
	}
}

// powerSeries adds Σ p[i]·x^p[i+1] for pairs starting at index from.
func powerSeries(p []float64, from int, x, acc float64) float64 {
	for i := from; i+1 < len(p); i += 2 {
		acc += p[i] * math.Pow(x, p[i+1])
	}
	return acc
}
