package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// RangeError reports a spectral value outside a valid range. Value, Lower
// and Upper are expressed in Unit.
type RangeError struct {
	Value float64
	Lower float64
	Upper float64
	Unit  Unit
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("spectrum: value %g %s outside valid range [%g, %g] %s",
		e.Value, e.Unit, e.Lower, e.Upper, e.Unit)
}

// Unwrap lets errors.Is(err, core.ErrRange) match.
func (e *RangeError) Unwrap() error { return core.ErrRange }
