// Package spectrum provides the spectral coordinate value type used by every
// evaluator in this module.
//
// A [Spectrum] holds one or more values that share a single [Type]
// (wavelength, frequency, angular frequency or photon energy) and [Unit].
// Values convert between any two units through the canonical SI unit of
// each type:
//
//	frequency = c / wavelength
//	angular   = 2π · frequency
//	energy    = h · frequency
//
// Electronvolt units divide the energy in joules by the elementary charge.
//
// Spectra are immutable except through [Spectrum.ConvertInPlace]; use
// [Spectrum.ConvertTo] for a converted copy. [Spectrum.Contains] performs the
// inclusive range check that evaluators run before every evaluation and
// reports violations as [*RangeError].
package spectrum
