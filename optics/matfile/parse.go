package matfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// ParseTable parses whitespace separated rows. Blank lines and lines
// starting with '#' are skipped; all rows must have the same width.
func ParseTable(s string) ([][]float64, error) {
	var table [][]float64
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseRow(strings.Fields(line), i+1)
		if err != nil {
			return nil, err
		}
		if len(table) > 0 && len(row) != len(table[0]) {
			return nil, raggedError(i+1, len(row), len(table[0]))
		}
		table = append(table, row)
	}
	return table, nil
}

// ParseNumbers parses a whitespace or comma separated list of numbers.
func ParseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return parseRow(fields, 1)
}

func parseRow(fields []string, line int) ([]float64, error) {
	row := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("matfile: line %d: bad number %q: %w", line, f, core.ErrFormat)
		}
		row = append(row, v)
	}
	return row, nil
}

func raggedError(line, got, want int) error {
	return fmt.Errorf("matfile: line %d has %d columns, want %d: %w", line, got, want, core.ErrFormat)
}
