package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/material"
	"github.com/cwbudde/algo-dispersion/optics/spectral"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

type evalOptions struct {
	alias       string
	file        string
	n           float64
	model       string
	params      []float64
	valid       []float64
	typ         string
	unit        string
	eps         bool
	extrapolate []float64
	samples     int
}

func newEvalCmd(a *app) *cobra.Command {
	var o evalOptions
	cmd := &cobra.Command{
		Use:   "eval [flags] [value ...]",
		Short: "Evaluate n,k or permittivity of a material",
		Long: "eval builds a material from exactly one of --alias, --file, --n or --model and\n" +
			"evaluates it at the given spectral values. Without values the material's\n" +
			"valid range is sampled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eval(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.alias, "alias", "", "catalogue alias")
	f.StringVar(&o.file, "file", "", "material file (.yml, .txt, .csv)")
	f.Float64Var(&o.n, "n", 1, "constant real refractive index")
	f.StringVar(&o.model, "model", "", "model name, see 'dispersion models'")
	f.Float64SliceVar(&o.params, "params", nil, "model parameters")
	f.Float64SliceVar(&o.valid, "range", nil, "model valid range lo,hi in the model's native unit")
	f.StringVar(&o.typ, "type", "wavelength", "spectrum type of the values")
	f.StringVar(&o.unit, "unit", "nm", "unit of the values")
	f.BoolVar(&o.eps, "eps", false, "print permittivity instead of n,k")
	f.Float64SliceVar(&o.extrapolate, "extrapolate", nil, "extend the valid range to one or two points lo,hi (values' unit)")
	f.IntVar(&o.samples, "samples", 10, "number of points when no values are given")
	return cmd
}

func (a *app) eval(cmd *cobra.Command, o evalOptions, args []string) error {
	t, err := spectrum.ParseType(o.typ)
	if err != nil {
		return err
	}
	m, err := a.buildMaterial(cmd, o, t)
	if err != nil {
		return err
	}

	if len(o.extrapolate) > 0 {
		if len(o.extrapolate) > 2 {
			return fmt.Errorf("--extrapolate takes one or two values: %w", core.ErrValidation)
		}
		ext, err := spectrum.New(o.extrapolate, spectrum.WithType(t), spectrum.WithUnit(o.unit))
		if err != nil {
			return err
		}
		if err := m.Extrapolate(ext); err != nil {
			return err
		}
	}

	var s *spectrum.Spectrum
	if len(args) > 0 {
		values := make([]float64, len(args))
		for i, arg := range args {
			if values[i], err = strconv.ParseFloat(arg, 64); err != nil {
				return fmt.Errorf("value %q: %w", arg, core.ErrFormat)
			}
		}
		s, err = spectrum.New(values, spectrum.WithType(t), spectrum.WithUnit(o.unit))
	} else {
		s, err = m.SampleSpectrum(o.samples)
		if err == nil {
			s, err = s.ConvertTo(t, o.unit)
		}
	}
	if err != nil {
		return err
	}

	var vals spectral.Values
	cols := "n\tk"
	if o.eps {
		vals, err = m.Permittivity(s)
		cols = "eps_r\teps_i"
	} else {
		vals, err = m.NK(s)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("evaluated", "points", s.Len(), "kind", m.Kind().String())

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", s.Unit(), cols)
	for i := 0; i < s.Len(); i++ {
		v := vals.At(i)
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatValue(s.At(i)), formatValue(real(v)), formatValue(imag(v)))
	}
	return w.Flush()
}

func (a *app) buildMaterial(cmd *cobra.Command, o evalOptions, t spectrum.Type) (*material.Material, error) {
	set := 0
	for _, name := range []string{"alias", "file", "n", "model"} {
		if cmd.Flags().Changed(name) {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --alias, --file, --n or --model is required: %w", core.ErrValidation)
	}

	spec := material.WithSpectrum(t, o.unit)
	switch {
	case o.alias != "":
		c, err := a.catalogue()
		if err != nil {
			return nil, err
		}
		return c.Material(o.alias)
	case o.file != "":
		return material.FromFile(o.file, spec)
	case o.model != "":
		d := material.ModelDescriptor{Name: o.model, Parameters: o.params}
		switch len(o.valid) {
		case 0:
		case 2:
			d.ValidRange = [2]float64{o.valid[0], o.valid[1]}
		default:
			return nil, fmt.Errorf("--range needs lo,hi: %w", core.ErrValidation)
		}
		return material.FromModel(d, spec)
	default:
		return material.FixedN(o.n, spec)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
