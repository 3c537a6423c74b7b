package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-dispersion/optics/spectral"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the closed-form dispersion models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFORMULA\tSPECTRUM\tOUTPUT\tPARAMETERS")
			for _, d := range spectral.Models() {
				formula := "-"
				if d.FormulaID > 0 {
					formula = strconv.Itoa(d.FormulaID)
				}
				fmt.Fprintf(w, "%s\t%s\t%s [%s]\t%s\t%s\n", d.Name, formula, d.SpectrumType, d.Unit, d.Output, d.Params)
			}
			return w.Flush()
		},
	}
}
