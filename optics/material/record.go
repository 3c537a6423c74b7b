package material

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/matfile"
	"github.com/cwbudde/algo-dispersion/optics/spectral"
)

// fromRecord installs the datasets of rec. A tabulated dataset that names
// its own spectrum type or unit changes the material defaults; formula and
// model datasets without one use the model's native spectrum.
func (m *Material) fromRecord(rec *matfile.Record) error {
	if rec == nil || len(rec.Datasets) == 0 {
		return fmt.Errorf("material: record has no datasets: %w", core.ErrFormat)
	}
	m.sourceRec = rec
	m.Meta = Meta{
		Reference: rec.MetaData.Reference,
		Comment:   rec.MetaData.Comment,
		Name:      rec.MetaData.Name,
		FullName:  rec.MetaData.FullName,
		Author:    rec.MetaData.Author,
	}

	for i, ds := range rec.Datasets {
		kind, id, err := ds.Kind()
		if err != nil {
			return fmt.Errorf("material: dataset %d: %w", i, err)
		}
		switch kind {
		case matfile.KindTabulated:
			err = m.tabulated(ds, id)
		default:
			err = m.formula(ds, kind, id)
		}
		if err != nil {
			return fmt.Errorf("material: dataset %d (%s): %w", i, ds.MetaData.DataType, err)
		}
	}
	return nil
}

func (m *Material) tabulated(ds matfile.Dataset, id string) error {
	if ds.MetaData.SpectrumType != "" || ds.MetaData.Unit != "" {
		t, unit, err := resolveSpectrum(ds.MetaData.SpectrumType, ds.MetaData.Unit)
		if err != nil {
			return err
		}
		m.typ, m.unit = t, unit
	}

	table := ds.Table
	if table == nil {
		var err error
		if table, err = matfile.ParseTable(ds.Data); err != nil {
			return err
		}
	}
	if len(table) == 0 {
		return fmt.Errorf("empty table: %w", core.ErrFormat)
	}

	var (
		kind   Kind
		re, im bool
	)
	switch id {
	case "n":
		kind, re = KindNK, true
	case "k":
		kind, im = KindNK, true
	case "nk":
		kind, re, im = KindNK, true, true
	case "eps":
		kind, re, im = KindEps, true, true
	default:
		return fmt.Errorf("unknown tabulated quantity %q: %w", id, core.ErrFormat)
	}
	width := 2
	if re && im {
		width = 3
	}
	if len(table[0]) < width {
		return fmt.Errorf("tabulated %s needs %d columns, got %d: %w", id, width, len(table[0]), core.ErrFormat)
	}
	if err := m.setKind(kind); err != nil {
		return err
	}

	col := 1
	if re {
		e, err := m.fromColumn(table, col)
		if err != nil {
			return err
		}
		m.re = e
		col++
	}
	if im {
		e, err := m.fromColumn(table, col)
		if err != nil {
			return err
		}
		m.im = e
	}
	return nil
}

// fromColumn builds an evaluator from the first column and column c. A
// single row becomes a constant valid only at that coordinate.
func (m *Material) fromColumn(table [][]float64, c int) (spectral.Evaluator, error) {
	spec := spectral.WithSpectrum(m.typ, string(m.unit))
	if len(table) == 1 {
		x := table[0][0]
		return spectral.NewConstant(table[0][c], spec, spectral.WithValidRange(x, x))
	}
	rows := make([][]float64, len(table))
	for i, row := range table {
		rows[i] = []float64{row[0], row[c]}
	}
	return spectral.NewInterpolation(rows, spec, spectral.WithInterpOrder(m.cfg.interpOrder))
}

func (m *Material) formula(ds matfile.Dataset, kind, id string) error {
	var def *spectral.Definition
	var err error
	if kind == matfile.KindFormula {
		n, convErr := strconv.Atoi(id)
		if convErr != nil {
			return fmt.Errorf("formula id %q is not a number: %w", id, core.ErrFormat)
		}
		def, err = spectral.LookupFormula(n)
	} else {
		def, err = spectral.LookupModel(id)
	}
	if err != nil {
		return err
	}

	params, err := ds.Coefficients()
	if err != nil {
		return err
	}
	lo, hi, ok, err := ds.Range()
	if err != nil {
		return err
	}
	if !ok {
		lo, hi = 0, math.Inf(1)
	}

	var opts []spectral.Option
	if ds.MetaData.SpectrumType != "" || ds.MetaData.Unit != "" {
		t, unit, err := resolveSpectrum(ds.MetaData.SpectrumType, ds.MetaData.Unit)
		if err != nil {
			return err
		}
		opts = append(opts, spectral.WithSpectrum(t, string(unit)))
	}
	model, err := spectral.NewModel(def.Name, params, lo, hi, opts...)
	if err != nil {
		return err
	}
	return m.setModel(model)
}
