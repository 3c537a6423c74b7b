// Command dispersion evaluates refractive index and permittivity data and
// manages a material catalogue.
//
// Usage:
//
//	dispersion [--config file] [--path dir] [-v] <command> [flags]
//
// Examples:
//
//	dispersion eval --model Sellmeier2 --params 0,1.0396,0.0060,0.2318,0.0200,1.0105,103.56 --unit um 0.5876
//	dispersion eval --alias bk7 --unit nm 400 500 600
//	dispersion convert --from nm --to eV 632.8
//	dispersion models
//	dispersion catalogue rebuild
//	dispersion catalogue list --database UserData
//	dispersion catalogue alias 12 bk7
//	dispersion config init
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
