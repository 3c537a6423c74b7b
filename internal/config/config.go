// Package config loads the catalogue configuration from defaults, an
// optional YAML or TOML file, a .env file and DISPERSION_* variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// EnvPrefix prefixes every environment override, e.g. DISPERSION_PATH or
// DISPERSION_REFERENCE_SPECTRUM_VALUE.
const EnvPrefix = "DISPERSION"

// Modules selects which sub-databases a catalogue rebuild scans.
type Modules struct {
	UserData            bool `mapstructure:"user_data" yaml:"user_data" toml:"user_data"`
	RefractiveIndexInfo bool `mapstructure:"refractive_index_info" yaml:"refractive_index_info" toml:"refractive_index_info"`
	Filmetrics          bool `mapstructure:"filmetrics" yaml:"filmetrics" toml:"filmetrics"`
}

// ReferenceSpectrum is the point at which every catalogue entry is
// evaluated.
type ReferenceSpectrum struct {
	Value        float64 `mapstructure:"value" yaml:"value" toml:"value"`
	SpectrumType string  `mapstructure:"spectrum_type" yaml:"spectrum_type" toml:"spectrum_type"`
	Unit         string  `mapstructure:"unit" yaml:"unit" toml:"unit"`
}

// Spectrum builds the scalar reference spectrum.
func (r ReferenceSpectrum) Spectrum() (*spectrum.Spectrum, error) {
	t, err := spectrum.ParseType(r.SpectrumType)
	if err != nil {
		return nil, err
	}
	return spectrum.NewScalar(r.Value, spectrum.WithType(t), spectrum.WithUnit(r.Unit))
}

// Config is the runtime configuration.
type Config struct {
	Path              string            `mapstructure:"path" yaml:"path" toml:"path"`
	File              string            `mapstructure:"file" yaml:"file" toml:"file"`
	Modules           Modules           `mapstructure:"modules" yaml:"modules" toml:"modules"`
	ReferenceSpectrum ReferenceSpectrum `mapstructure:"reference_spectrum" yaml:"reference_spectrum" toml:"reference_spectrum"`
	CacheSize         int               `mapstructure:"cache_size" yaml:"cache_size" toml:"cache_size"`
	SkipInvalid       bool              `mapstructure:"skip_invalid" yaml:"skip_invalid" toml:"skip_invalid"`
	LogLevel          string            `mapstructure:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Path: ".",
		File: "database.csv",
		Modules: Modules{
			UserData:            true,
			RefractiveIndexInfo: true,
			Filmetrics:          true,
		},
		ReferenceSpectrum: ReferenceSpectrum{
			Value:        632.8,
			SpectrumType: "wavelength",
			Unit:         "nanometer",
		},
		CacheSize: 64,
		LogLevel:  "info",
	}
}

// New returns a viper instance carrying the defaults and the environment
// bindings. Callers may bind flags to it before [Load].
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("path", d.Path)
	v.SetDefault("file", d.File)
	v.SetDefault("modules.user_data", d.Modules.UserData)
	v.SetDefault("modules.refractive_index_info", d.Modules.RefractiveIndexInfo)
	v.SetDefault("modules.filmetrics", d.Modules.Filmetrics)
	v.SetDefault("reference_spectrum.value", d.ReferenceSpectrum.Value)
	v.SetDefault("reference_spectrum.spectrum_type", d.ReferenceSpectrum.SpectrumType)
	v.SetDefault("reference_spectrum.unit", d.ReferenceSpectrum.Unit)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("skip_invalid", d.SkipInvalid)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration into cfg. file names an explicit config
// file; when empty, config.{yaml,toml} is searched in [SearchPaths] and a
// missing file is not an error. A .env file in the working directory is
// loaded first if present.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = New()
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: .env: %w", err)
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// SearchPaths lists the directories searched for config files, most
// specific first.
func SearchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "dispersion"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "dispersion"))
	}
	return append(dirs, ".")
}

// DefaultPath is where "config init" writes a new file.
func DefaultPath() string {
	return filepath.Join(SearchPaths()[0], "config.yaml")
}

// Validate checks that the catalogue root exists and that the reference
// spectrum, catalogue file and log level are usable.
func (c Config) Validate() error {
	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("config: catalogue path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("config: catalogue path %s is not a directory: %w", c.Path, core.ErrValidation)
	}
	switch strings.ToLower(filepath.Ext(c.File)) {
	case ".csv", ".db", ".sqlite":
	default:
		return fmt.Errorf("config: catalogue file %q must end in .csv, .db or .sqlite: %w", c.File, core.ErrValidation)
	}
	if _, err := c.ReferenceSpectrum.Spectrum(); err != nil {
		return fmt.Errorf("config: reference spectrum: %w", err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: cache_size must not be negative: %w", core.ErrValidation)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", c.LogLevel, core.ErrValidation)
	}
	return l, nil
}

// CataloguePath returns the full path of the catalogue snapshot.
func (c Config) CataloguePath() string {
	if filepath.IsAbs(c.File) {
		return c.File
	}
	return filepath.Join(c.Path, c.File)
}
