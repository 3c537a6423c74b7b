package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// isolate points the search paths at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Modules.RefractiveIndexInfo)
	assert.Equal(t, 632.8, cfg.ReferenceSpectrum.Value)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DISPERSION_PATH", "/data/materials")
	t.Setenv("DISPERSION_REFERENCE_SPECTRUM_VALUE", "1.55")
	t.Setenv("DISPERSION_REFERENCE_SPECTRUM_UNIT", "um")
	t.Setenv("DISPERSION_MODULES_FILMETRICS", "false")
	t.Setenv("DISPERSION_CACHE_SIZE", "8")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "/data/materials", cfg.Path)
	assert.Equal(t, 1.55, cfg.ReferenceSpectrum.Value)
	assert.Equal(t, "um", cfg.ReferenceSpectrum.Unit)
	assert.False(t, cfg.Modules.Filmetrics)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISPERSION_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DISPERSION_LOG_LEVEL") })

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestWriteAndLoad(t *testing.T) {
	dir := isolate(t)
	want := Default()
	want.Path = dir
	want.File = "catalogue.db"
	want.SkipInvalid = true
	want.ReferenceSpectrum = ReferenceSpectrum{Value: 2, SpectrumType: "energy", Unit: "eV"}

	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "out", name)
			require.NoError(t, Write(path, want))

			got, err := Load(New(), path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadSearchPath(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.File = "found.csv"
	require.NoError(t, Write(filepath.Join(dir, "dispersion", "config.yaml"), cfg))

	got, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "found.csv", got.File)
	assert.Equal(t, filepath.Join(dir, "dispersion", "config.yaml"), DefaultPath())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(nil, "does-not-exist.yaml")
	require.Error(t, err)
}

func TestWriteUnsupported(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "config.json"), Default())
	require.ErrorIs(t, err, core.ErrNotSupported)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	valid := Default()
	valid.Path = dir
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"missing dir":   func(c *Config) { c.Path = filepath.Join(dir, "nope") },
		"bad extension": func(c *Config) { c.File = "database.xlsx" },
		"bad unit":      func(c *Config) { c.ReferenceSpectrum.Unit = "furlong" },
		"type mismatch": func(c *Config) { c.ReferenceSpectrum.SpectrumType = "energy" },
		"bad level":     func(c *Config) { c.LogLevel = "loud" },
		"negative":      func(c *Config) { c.CacheSize = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestReferenceSpectrum(t *testing.T) {
	s, err := Default().ReferenceSpectrum.Spectrum()
	require.NoError(t, err)
	assert.True(t, s.IsScalar())
	assert.Equal(t, spectrum.UnitNanometer, s.Unit())
	assert.Equal(t, 632.8, s.At(0))
}

func TestCataloguePath(t *testing.T) {
	c := Config{Path: "/db", File: "database.csv"}
	assert.Equal(t, filepath.Join("/db", "database.csv"), c.CataloguePath())
	c.File = "/elsewhere/cat.db"
	assert.Equal(t, "/elsewhere/cat.db", c.CataloguePath())
}
