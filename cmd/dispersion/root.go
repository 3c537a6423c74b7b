package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-dispersion/internal/config"
	"github.com/cwbudde/algo-dispersion/optics/catalogue"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "dispersion",
		Short:         "Evaluate refractive index and permittivity data",
		Long:          "dispersion evaluates tabulated and closed-form optical constants and manages a catalogue of material files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default config.yaml in "+config.DefaultPath()+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.String("path", "", "catalogue root directory")
	_ = a.v.BindPFlag("path", flags.Lookup("path"))

	root.AddCommand(
		newEvalCmd(a),
		newConvertCmd(a),
		newModelsCmd(a),
		newCatalogueCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup builds the logger. The level comes from the config file unless
// --verbose is set; an unreadable config falls back to Info here and is
// reported by the command that needs it.
func (a *app) setup() error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	} else if cfg, err := config.Load(a.v, a.cfgFile); err == nil {
		if l, err := cfg.Level(); err == nil {
			level = l
		}
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) config() (config.Config, error) {
	return config.Load(a.v, a.cfgFile)
}

func (a *app) catalogue() (*catalogue.Catalogue, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return catalogue.Open(cfg, catalogue.WithLogger(a.logger))
}
