package spectrum

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// Physical constants (exact SI 2019 values).
const (
	SpeedOfLight     = 299792458.0     // m/s
	Planck           = 6.62607015e-34  // J·s
	ElementaryCharge = 1.602176634e-19 // C
)

// Type identifies the physical quantity a spectral coordinate measures.
type Type int

const (
	Wavelength Type = iota
	Frequency
	AngularFrequency
	Energy
)

var typeNames = [...]string{
	Wavelength:       "wavelength",
	Frequency:        "frequency",
	AngularFrequency: "angularfrequency",
	Energy:           "energy",
}

// String returns the lower-case name of t.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// DefaultUnit returns the unit assumed when a spectrum names only its type.
func (t Type) DefaultUnit() Unit {
	switch t {
	case Frequency:
		return UnitHz
	case AngularFrequency:
		return UnitRadPerSecond
	case Energy:
		return UnitElectronVolt
	default:
		return UnitNanometer
	}
}

// ParseType resolves a spectrum type name. Matching ignores case, spaces and
// underscores, so "angular_frequency" and "AngularFrequency" are equivalent.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("_", "", " ", "", "-", "").Replace(key)
	for t, n := range typeNames {
		if key == n {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("spectrum: unknown spectrum type %q: %w", name, core.ErrValidation)
}

// Unit is the canonical symbol of a spectral unit, for example "um" or "eV".
type Unit string

const (
	UnitMeter        Unit = "m"
	UnitCentimeter   Unit = "cm"
	UnitMillimeter   Unit = "mm"
	UnitMicrometer   Unit = "um"
	UnitNanometer    Unit = "nm"
	UnitAngstrom     Unit = "A"
	UnitHz           Unit = "Hz"
	UnitKHz          Unit = "kHz"
	UnitMHz          Unit = "MHz"
	UnitGHz          Unit = "GHz"
	UnitTHz          Unit = "THz"
	UnitPHz          Unit = "PHz"
	UnitRadPerSecond Unit = "rad/s"
	UnitJoule        Unit = "J"
	UnitElectronVolt Unit = "eV"
	UnitMilliEV      Unit = "meV"
)

type unitInfo struct {
	typ   Type
	scale float64 // multiply to obtain the canonical SI unit of typ
}

var unitTable = map[Unit]unitInfo{
	UnitMeter:        {Wavelength, 1},
	UnitCentimeter:   {Wavelength, 1e-2},
	UnitMillimeter:   {Wavelength, 1e-3},
	UnitMicrometer:   {Wavelength, 1e-6},
	UnitNanometer:    {Wavelength, 1e-9},
	UnitAngstrom:     {Wavelength, 1e-10},
	UnitHz:           {Frequency, 1},
	UnitKHz:          {Frequency, 1e3},
	UnitMHz:          {Frequency, 1e6},
	UnitGHz:          {Frequency, 1e9},
	UnitTHz:          {Frequency, 1e12},
	UnitPHz:          {Frequency, 1e15},
	UnitRadPerSecond: {AngularFrequency, 1},
	UnitJoule:        {Energy, 1},
	UnitElectronVolt: {Energy, ElementaryCharge},
	UnitMilliEV:      {Energy, 1e-3 * ElementaryCharge},
}

// unitAliases maps lower-case spellings to canonical symbols.
var unitAliases = map[string]Unit{
	"m": UnitMeter, "meter": UnitMeter, "meters": UnitMeter, "metre": UnitMeter,
	"cm": UnitCentimeter, "centimeter": UnitCentimeter,
	"mm": UnitMillimeter, "millimeter": UnitMillimeter,
	"um": UnitMicrometer, "µm": UnitMicrometer, "micrometer": UnitMicrometer,
	"micrometre": UnitMicrometer, "micron": UnitMicrometer, "microns": UnitMicrometer,
	"nm": UnitNanometer, "nanometer": UnitNanometer, "nanometre": UnitNanometer,
	"a": UnitAngstrom, "å": UnitAngstrom, "angstrom": UnitAngstrom,
	"hz": UnitHz, "hertz": UnitHz,
	"khz": UnitKHz, "mhz": UnitMHz, "ghz": UnitGHz, "thz": UnitTHz, "phz": UnitPHz,
	"rad/s": UnitRadPerSecond, "1/s": UnitRadPerSecond,
	"j": UnitJoule, "joule": UnitJoule,
	"ev": UnitElectronVolt, "electronvolt": UnitElectronVolt,
	"mev": UnitMilliEV, "millielectronvolt": UnitMilliEV,
}

// ParseUnit resolves a unit spelling (case-insensitive) to its canonical symbol.
func ParseUnit(name string) (Unit, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("spectrum: unknown unit %q: %w", name, core.ErrValidation)
	}
	return u, nil
}

// Type returns the spectrum type measured by u.
func (u Unit) Type() Type { return unitTable[u].typ }

// Valid reports whether u is a canonical unit symbol.
func (u Unit) Valid() bool {
	_, ok := unitTable[u]
	return ok
}

func (u Unit) String() string { return string(u) }

// toHz converts a canonical SI value of type t to frequency in Hz.
func toHz(t Type, v float64) float64 {
	switch t {
	case Wavelength:
		return SpeedOfLight / v
	case AngularFrequency:
		return v / (2 * math.Pi)
	case Energy:
		return v / Planck
	default:
		return v
	}
}

// fromHz converts a frequency in Hz to the canonical SI value of type t.
func fromHz(t Type, f float64) float64 {
	switch t {
	case Wavelength:
		return SpeedOfLight / f
	case AngularFrequency:
		return 2 * math.Pi * f
	case Energy:
		return Planck * f
	default:
		return f
	}
}
