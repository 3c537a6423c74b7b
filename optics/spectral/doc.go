// Package spectral implements the evaluators that map a spectrum to an
// optical quantity such as a refractive index or a permittivity.
//
// Every evaluator satisfies [Evaluator]:
//
//   - [Constant]:      a spectrum-independent value
//   - [Interpolation]: a spline over tabulated (coordinate, value) pairs
//   - [Extrapolation]: a decorator extending another evaluator's domain
//   - [Model]:         one of the closed-form dispersion formulas in the
//     model registry (Sellmeier, Sellmeier2, Polynomial, RefractiveIndexInfo,
//     Cauchy, Gases, Herzberger, Retro, Exotic, Drude, DrudeLorentz)
//
// Evaluate rejects inputs outside the evaluator's valid range with a
// [*spectrum.RangeError] and returns [Values] shaped like the input: a
// scalar spectrum yields a scalar result.
//
// Evaluators are immutable after construction and safe for concurrent use.
package spectral
