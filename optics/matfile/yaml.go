package matfile

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-dispersion/optics/core"
)

// ParseYAML decodes a refractiveindex.info style document. Top-level and
// dataset keys are matched case-insensitively by prefix; unknown keys are
// ignored.
func ParseYAML(data []byte) (*Record, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("matfile: yaml: %v: %w", err, core.ErrFormat)
	}

	rec := &Record{Specification: map[string]any{}}
	rec.MetaComment = strings.Join(headerLines(data), "\n")
	for key, value := range doc {
		switch strings.ToUpper(key) {
		case "DATA":
			list, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("matfile: DATA must be a list: %w", core.ErrFormat)
			}
			for i, item := range list {
				ds, err := yamlDataset(item)
				if err != nil {
					return nil, fmt.Errorf("matfile: dataset %d: %w", i, err)
				}
				rec.Datasets = append(rec.Datasets, ds)
			}
		case "SPECS":
			if specs, ok := value.(map[string]any); ok {
				rec.Specification = specs
			}
		default:
			setField(key, scalarString(value), rec.MetaData.fields())
		}
	}
	if len(rec.Datasets) == 0 {
		return nil, fmt.Errorf("matfile: no DATA section: %w", core.ErrFormat)
	}
	return rec, nil
}

func yamlDataset(item any) (Dataset, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Dataset{}, fmt.Errorf("entry is not a mapping: %w", core.ErrFormat)
	}

	var ds Dataset
	for key, value := range m {
		switch strings.ToLower(key) {
		case "data", "coefficients":
			ds.Data = scalarString(value)
		default:
			setField(key, scalarString(value), ds.MetaData.fields())
		}
	}

	kind, _, err := ds.Kind()
	if err != nil {
		return Dataset{}, err
	}
	if kind == KindTabulated {
		if ds.Table, err = ParseTable(ds.Data); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

// scalarString renders a decoded YAML scalar. Numeric lists are joined with
// spaces so that "range: [0.3, 2.5]" and "range: 0.3 2.5" read the same.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = scalarString(e)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(x)
	}
}
