// Package material combines spectral evaluators into the optical response
// of a material.
//
// A [Material] holds either refractive index data (n and k) or permittivity
// data (eps_r and eps_i), each as a real and an imaginary evaluator or as one
// complex evaluator. [Material.NK] and [Material.Permittivity] convert between
// the two representations using eps = (n + ik)².
//
// Materials are built from fixed values, a model descriptor, a parsed
// [matfile.Record] or a file path. Missing parts default to a constant zero.
package material
