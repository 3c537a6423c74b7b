// Package interp provides piecewise polynomial splines over tabulated data.
//
// Available orders, from cheapest to smoothest:
//
//   - 1: piecewise linear (C0)
//   - 2: quadratic spline (C1), start slope from the first three samples
//   - 3: natural cubic spline (C2)
//
// A [Spline] evaluates outside its knot range by continuing the first or
// last polynomial piece, which is what extrapolating evaluators rely on.
package interp
