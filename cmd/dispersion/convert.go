package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

func newConvertCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:     "convert --from unit --to unit value ...",
		Short:   "Convert spectral values between units",
		Example: "  dispersion convert --from nm --to eV 400 632.8\n  dispersion convert --from THz --to um 193.4",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := spectrum.ParseUnit(from)
			if err != nil {
				return err
			}
			dst, err := spectrum.ParseUnit(to)
			if err != nil {
				return err
			}
			values := make([]float64, len(args))
			for i, arg := range args {
				if values[i], err = strconv.ParseFloat(arg, 64); err != nil {
					return fmt.Errorf("value %q: %w", arg, core.ErrFormat)
				}
			}
			s, err := spectrum.New(values, spectrum.WithType(src.Type()), spectrum.WithUnit(from))
			if err != nil {
				return err
			}
			out, err := s.ConvertTo(dst.Type(), to)
			if err != nil {
				return err
			}
			for i := 0; i < out.Len(); i++ {
				fmt.Fprintf(a.out, "%s %s = %s %s\n", formatValue(s.At(i)), src, formatValue(out.At(i)), dst)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "nm", "source unit")
	cmd.Flags().StringVar(&to, "to", "eV", "target unit")
	return cmd
}
