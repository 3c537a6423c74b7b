package matfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

type yamlFile struct {
	References string           `yaml:"REFERENCES,omitempty"`
	Comments   string           `yaml:"COMMENTS,omitempty"`
	Name       string           `yaml:"NAME,omitempty"`
	FullName   string           `yaml:"FULLNAME,omitempty"`
	Author     string           `yaml:"AUTHOR,omitempty"`
	Data       []yamlDatasetOut `yaml:"DATA"`
	Specs      map[string]any   `yaml:"SPECS,omitempty"`
}

type yamlDatasetOut struct {
	Type         string `yaml:"type"`
	Range        string `yaml:"wavelength_range,omitempty"`
	SpectrumType string `yaml:"SpectrumType,omitempty"`
	Unit         string `yaml:"Unit,omitempty"`
	Coefficients string `yaml:"coefficients,omitempty"`
	Data         string `yaml:"data,omitempty"`
}

// Write stores rec at path in the refractiveindex.info YAML layout. The
// MetaComment becomes a "#" header. Text formats are not supported.
func Write(path string, rec *Record) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
	default:
		return fmt.Errorf("matfile: writing %q files: %w", ext, core.ErrNotSupported)
	}
	data, err := MarshalYAML(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("matfile: %w", err)
	}
	return nil
}

// MarshalYAML renders rec as a YAML document.
func MarshalYAML(rec *Record) ([]byte, error) {
	out := yamlFile{
		References: rec.MetaData.Reference,
		Comments:   rec.MetaData.Comment,
		Name:       rec.MetaData.Name,
		FullName:   rec.MetaData.FullName,
		Author:     rec.MetaData.Author,
		Specs:      rec.Specification,
	}
	for i, ds := range rec.Datasets {
		kind, _, err := ds.Kind()
		if err != nil {
			return nil, fmt.Errorf("matfile: dataset %d: %w", i, err)
		}
		yd := yamlDatasetOut{
			Type:         ds.MetaData.DataType,
			Range:        ds.MetaData.ValidRange,
			SpectrumType: ds.MetaData.SpectrumType,
			Unit:         ds.MetaData.Unit,
		}
		if kind == KindTabulated {
			yd.Data = ds.Data
			if ds.Table != nil {
				yd.Data = FormatTable(ds.Table)
			}
		} else {
			yd.Coefficients = ds.Data
		}
		out.Data = append(out.Data, yd)
	}

	var buf bytes.Buffer
	if rec.MetaComment != "" {
		for _, line := range strings.Split(rec.MetaComment, "\n") {
			buf.WriteString("#" + line + "\n")
		}
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("matfile: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("matfile: yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatTable renders rows as space separated lines.
func FormatTable(table [][]float64) string {
	var b strings.Builder
	for _, row := range table {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
