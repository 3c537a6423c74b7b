package matfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// ParseText decodes a text material file. sep is ',' for CSV bodies and
// anything else for whitespace separated columns.
//
// Header lines have the form "#key: value" and are split on the first
// colon. Keys are matched by prefix against the file fields and then the
// dataset fields; header lines without a colon are joined into MetaComment.
// Without a DataType header, a two-column body is "tabulated n" and a
// wider one "tabulated nk".
func ParseText(data []byte, sep rune) (*Record, error) {
	rec := &Record{Specification: map[string]any{}}
	var ds Dataset
	var comment []string

	for _, line := range headerLines(data) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			if s := strings.TrimSpace(line); s != "" {
				comment = append(comment, s)
			}
			continue
		}
		value = strings.TrimSpace(value)
		if !setField(key, value, rec.MetaData.fields()) {
			setField(key, value, ds.MetaData.fields())
		}
	}
	rec.MetaComment = strings.Join(comment, "\n")

	var (
		table [][]float64
		err   error
	)
	if sep == ',' {
		table, err = parseCSV(data)
	} else {
		table, err = ParseTable(string(data))
	}
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("matfile: no data rows: %w", core.ErrFormat)
	}

	if ds.MetaData.DataType == "" {
		ds.MetaData.DataType = "tabulated nk"
		if len(table[0]) == 2 {
			ds.MetaData.DataType = "tabulated n"
		}
	}
	if kind, _, err := ds.Kind(); err != nil {
		return nil, err
	} else if kind != KindTabulated {
		return nil, fmt.Errorf("matfile: text files hold tabulated data only, got %q: %w", ds.MetaData.DataType, core.ErrFormat)
	}
	ds.Table = table
	rec.Datasets = []Dataset{ds}
	return rec, nil
}

func parseCSV(data []byte) ([][]float64, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var table [][]float64
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("matfile: csv: %v: %w", err, core.ErrFormat)
		}
		row, err := parseRow(fields, len(table)+1)
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if len(table) > 0 && len(row) != len(table[0]) {
			return nil, raggedError(len(table)+1, len(row), len(table[0]))
		}
		table = append(table, row)
	}
	return table, nil
}
