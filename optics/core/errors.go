package core

import "errors"

var (
	// ErrValidation indicates malformed constructor arguments.
	ErrValidation = errors.New("validation error")
	// ErrRange indicates a spectral value outside a valid range.
	ErrRange = errors.New("range error")
	// ErrLookup indicates an unknown identifier.
	ErrLookup = errors.New("lookup error")
	// ErrFormat indicates unparseable numeric data.
	ErrFormat = errors.New("format error")
	// ErrNotSupported indicates an unsupported operation.
	ErrNotSupported = errors.New("not supported")
)
