package catalogue

import (
	"math"
	"strconv"
)

// Sub-database names, also used as directory names below the root.
const (
	DatabaseRefractiveIndexInfo = "RefractiveIndexInfo"
	DatabaseFilmetrics          = "Filmetrics"
	DatabaseUserData            = "UserData"
)

// Columns is the column order of the saved index.
var Columns = []string{
	"Alias", "Name", "FullName", "Author", "Comment", "Reference",
	"SpectrumType", "Unit", "SpectrumLowerBound", "SpectrumUpperBound",
	"N_Reference", "K_Reference", "Path", "Database",
}

// Entry is one row of the index. NReference and KReference are NaN when
// the reference spectrum lies outside the material's data.
type Entry struct {
	Alias              string
	Name               string
	FullName           string
	Author             string
	Comment            string
	Reference          string
	SpectrumType       string
	Unit               string
	SpectrumLowerBound float64
	SpectrumUpperBound float64
	NReference         float64
	KReference         float64
	// Path is relative to the sub-database directory, with forward slashes.
	Path     string
	Database string

	// Row is the position in the index; it is not saved.
	Row int
}

func (e Entry) key() string { return e.Database + "/" + e.Path }

func (e Entry) record() []string {
	return []string{
		e.Alias, e.Name, e.FullName, e.Author, e.Comment, e.Reference,
		e.SpectrumType, e.Unit,
		formatFloat(e.SpectrumLowerBound), formatFloat(e.SpectrumUpperBound),
		formatFloat(e.NReference), formatFloat(e.KReference),
		e.Path, e.Database,
	}
}

func entryFromRecord(rec []string) (Entry, error) {
	var e Entry
	floats := make([]float64, 4)
	for i, s := range rec[8:12] {
		v, err := parseFloat(s)
		if err != nil {
			return Entry{}, err
		}
		floats[i] = v
	}
	e.Alias, e.Name, e.FullName, e.Author, e.Comment, e.Reference = rec[0], rec[1], rec[2], rec[3], rec[4], rec[5]
	e.SpectrumType, e.Unit = rec[6], rec[7]
	e.SpectrumLowerBound, e.SpectrumUpperBound = floats[0], floats[1]
	e.NReference, e.KReference = floats[2], floats[3]
	e.Path, e.Database = rec[12], rec[13]
	return e, nil
}

// formatFloat writes NaN as an empty field.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
