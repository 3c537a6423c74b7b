package matfile

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// MetaData holds the per-file descriptive fields.
type MetaData struct {
	Reference string
	Comment   string
	Name      string
	FullName  string
	Author    string
}

// DatasetMeta holds the per-dataset fields. DataType is a two-token string
// such as "tabulated nk", "formula 2" or "model Drude".
type DatasetMeta struct {
	DataType     string
	ValidRange   string
	SpectrumType string
	Unit         string
}

// Dataset is one block of tabulated data or model coefficients.
type Dataset struct {
	MetaData DatasetMeta
	// Data is the raw payload: table text or coefficient list.
	Data string
	// Table is the parsed payload of tabulated datasets.
	Table [][]float64
}

// Record is the normalized content of one material file.
type Record struct {
	MetaData      MetaData
	Datasets      []Dataset
	Specification map[string]any
	MetaComment   string
	FilePath      string
}

// Dataset kinds.
const (
	KindTabulated = "tabulated"
	KindFormula   = "formula"
	KindModel     = "model"
)

// Kind splits DataType into its kind and identifier.
func (d Dataset) Kind() (kind, id string, err error) {
	fields := strings.Fields(d.MetaData.DataType)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("matfile: data type %q must be <kind> <identifier>: %w", d.MetaData.DataType, core.ErrFormat)
	}
	kind = strings.ToLower(fields[0])
	switch kind {
	case KindTabulated, KindFormula, KindModel:
		return kind, fields[1], nil
	default:
		return "", "", fmt.Errorf("matfile: unknown data kind %q: %w", fields[0], core.ErrFormat)
	}
}

// Coefficients parses Data as a flat list of numbers.
func (d Dataset) Coefficients() ([]float64, error) {
	return ParseNumbers(d.Data)
}

// Range parses ValidRange. ok is false when no range is given.
func (d Dataset) Range() (lo, hi float64, ok bool, err error) {
	if strings.TrimSpace(d.MetaData.ValidRange) == "" {
		return 0, 0, false, nil
	}
	v, err := ParseNumbers(d.MetaData.ValidRange)
	if err != nil {
		return 0, 0, false, err
	}
	if len(v) != 2 {
		return 0, 0, false, fmt.Errorf("matfile: valid range %q needs 2 values: %w", d.MetaData.ValidRange, core.ErrFormat)
	}
	lo, hi = v[0], v[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true, nil
}

// setField assigns value to the first field whose name (or alias) is a
// case-insensitive prefix of key.
func setField(key, value string, fields []namedField) bool {
	k := strings.ToUpper(strings.TrimSpace(key))
	for _, f := range fields {
		for _, name := range f.names {
			if strings.HasPrefix(k, strings.ToUpper(name)) {
				*f.dst = value
				return true
			}
		}
	}
	return false
}

type namedField struct {
	names []string
	dst   *string
}

func (m *MetaData) fields() []namedField {
	return []namedField{
		{[]string{"FullName"}, &m.FullName},
		{[]string{"Name"}, &m.Name},
		{[]string{"Reference"}, &m.Reference},
		{[]string{"Comment"}, &m.Comment},
		{[]string{"Author"}, &m.Author},
	}
}

func (m *DatasetMeta) fields() []namedField {
	return []namedField{
		{[]string{"ValidRange", "range", "spectra_range", "wavelength_range"}, &m.ValidRange},
		{[]string{"DataType", "type"}, &m.DataType},
		{[]string{"SpectrumType"}, &m.SpectrumType},
		{[]string{"Unit"}, &m.Unit},
	}
}
