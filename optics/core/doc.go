// Package core holds the error taxonomy and small numeric helpers shared by
// the optics packages.
//
// Every error returned by this module wraps exactly one of the sentinels
// below, so callers classify failures with [errors.Is]:
//
//   - [ErrValidation]:   malformed arguments or mutually exclusive inputs
//   - [ErrRange]:        a spectral value outside an evaluator's valid domain
//   - [ErrLookup]:       unknown model name, formula id or catalogue alias
//   - [ErrFormat]:       unparseable table or coefficient data
//   - [ErrNotSupported]: an operation the data representation cannot perform
package core
