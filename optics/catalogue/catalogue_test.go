package catalogue_test

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-dispersion/internal/config"
	"github.com/cwbudde/algo-dispersion/internal/testutil"
	"github.com/cwbudde/algo-dispersion/optics/catalogue"
	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/material"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

// newTree copies testdata/root into a temp directory.
func newTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS("testdata/root")))
	return dir
}

func testConfig(root, file string) config.Config {
	cfg := config.Default()
	cfg.Path = root
	cfg.File = file
	return cfg
}

func open(t *testing.T, cfg config.Config) *catalogue.Catalogue {
	t.Helper()
	c, err := catalogue.Open(cfg, catalogue.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return c
}

func rebuilt(t *testing.T, cfg config.Config) *catalogue.Catalogue {
	t.Helper()
	c := open(t, cfg)
	require.NoError(t, c.Rebuild(context.Background()))
	return c
}

func byName(t *testing.T, c *catalogue.Catalogue, name string) catalogue.Entry {
	t.Helper()
	found := c.Filter(func(e catalogue.Entry) bool { return e.Name == name })
	require.Len(t, found, 1, name)
	return found[0]
}

// requireSameEntries compares entries treating NaN fields as equal.
func requireSameEntries(t *testing.T, want, got []catalogue.Entry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		for _, pair := range [][2]*float64{
			{&w.SpectrumLowerBound, &g.SpectrumLowerBound},
			{&w.SpectrumUpperBound, &g.SpectrumUpperBound},
			{&w.NReference, &g.NReference},
			{&w.KReference, &g.KReference},
		} {
			require.Equal(t, math.IsNaN(*pair[0]), math.IsNaN(*pair[1]), "row %d", i)
			if math.IsNaN(*pair[0]) {
				*pair[0], *pair[1] = 0, 0
			}
		}
		require.Equal(t, w, g, "row %d", i)
	}
}

func TestOpenWithoutFileIsEmpty(t *testing.T) {
	c := open(t, testConfig(newTree(t), "database.csv"))
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Entries())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := catalogue.Open(testConfig(filepath.Join(t.TempDir(), "missing"), "database.csv"))
	require.Error(t, err)

	_, err = catalogue.Open(testConfig(t.TempDir(), "database.json"))
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestRebuild(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))

	entries := c.Entries()
	require.Len(t, entries, 5)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		assert.Equal(t, i, e.Row)
		assert.Empty(t, e.Alias)
	}
	assert.Equal(t, []string{"Ag", "SCHOTT-BK", "AlSb", "TiO2", "Water"}, names)

	ag := entries[0]
	assert.Equal(t, "Ag (Silver)", ag.FullName)
	assert.Equal(t, "Hagemann", ag.Author)
	assert.Equal(t, "data/main/Ag/Hagemann.yml", ag.Path)
	assert.Equal(t, catalogue.DatabaseRefractiveIndexInfo, ag.Database)
	assert.Equal(t, "wavelength", ag.SpectrumType)
	assert.Equal(t, "micrometer", ag.Unit)
	assert.Equal(t, "Room temperature", ag.Comment)
	assert.Contains(t, ag.Reference, "Hagemann")
	assert.InDelta(t, 0.4, ag.SpectrumLowerBound, 1e-12)
	assert.InDelta(t, 0.7, ag.SpectrumUpperBound, 1e-12)
	assert.InDelta(t, 0.12656, ag.NReference, 1e-9)
	assert.InDelta(t, 3.9624, ag.KReference, 1e-9)

	bk7 := entries[1]
	assert.Equal(t, "N-BK7", bk7.Author)
	assert.InDelta(t, 1.5151, bk7.NReference, 1e-3)
	assert.InDelta(t, 2.5, bk7.SpectrumUpperBound, 1e-12)

	alsb := entries[2]
	assert.Equal(t, catalogue.DatabaseFilmetrics, alsb.Database)
	assert.Equal(t, "Aluminium antimonide", alsb.FullName)
	assert.Equal(t, "Filmetrics", alsb.Author)
	assert.Equal(t, "AlSb.txt", alsb.Path)
	assert.Equal(t, "nanometer", alsb.Unit)
	assert.InDelta(t, 400, alsb.SpectrumLowerBound, 1e-9)
	assert.InDelta(t, 800, alsb.SpectrumUpperBound, 1e-9)
	assert.InDelta(t, 4.3926, alsb.NReference, 1e-9)
	assert.InDelta(t, 0.0418, alsb.KReference, 1e-9)

	// 632.8 nm lies above the TiO2 table.
	tio2 := entries[3]
	assert.True(t, math.IsNaN(tio2.NReference))
	assert.True(t, math.IsNaN(tio2.KReference))

	water := entries[4]
	assert.InDelta(t, 1.332344, water.NReference, 1e-9)
	assert.Zero(t, water.KReference)
}

func TestRebuildModules(t *testing.T) {
	cfg := testConfig(newTree(t), "database.csv")
	cfg.Modules.RefractiveIndexInfo = false
	cfg.Modules.Filmetrics = false
	c := rebuilt(t, cfg)

	for _, e := range c.Entries() {
		assert.Equal(t, catalogue.DatabaseUserData, e.Database)
	}
	assert.Equal(t, 2, c.Len())
}

func TestRebuildSkipsMissingDatabase(t *testing.T) {
	root := newTree(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, catalogue.DatabaseFilmetrics)))

	c := rebuilt(t, testConfig(root, "database.csv"))
	assert.Equal(t, 4, c.Len())
}

func TestRebuildBoundsFollowEntryUnit(t *testing.T) {
	root := newTree(t)
	testutil.WriteFile(t, root, "UserData/Glass.txt", "#Name: Glass\n#Unit: um\n0.4 1.47\n0.7 1.45\n")

	c := rebuilt(t, testConfig(root, "database.csv"))
	glass := byName(t, c, "Glass")
	assert.Equal(t, "nanometer", glass.Unit)
	assert.InDelta(t, 400, glass.SpectrumLowerBound, 1e-9)
	assert.InDelta(t, 700, glass.SpectrumUpperBound, 1e-9)
	assert.InDelta(t, 1.45448, glass.NReference, 1e-9)
}

func TestRebuildInvalidFile(t *testing.T) {
	root := newTree(t)
	testutil.WriteFile(t, root, "UserData/Broken.txt", "400 1.5 0.1\n500 1.4\n")

	cfg := testConfig(root, "database.csv")
	c := open(t, cfg)
	err := c.Rebuild(context.Background())
	require.ErrorIs(t, err, core.ErrFormat)
	assert.Zero(t, c.Len(), "failed rebuild must not change the index")

	cfg.SkipInvalid = true
	c = rebuilt(t, cfg)
	assert.Equal(t, 5, c.Len())
}

func TestRebuildCancelled(t *testing.T) {
	c := open(t, testConfig(newTree(t), "database.csv"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, c.Rebuild(ctx), context.Canceled)
	assert.Zero(t, c.Len())
}

func TestSaveAndReopen(t *testing.T) {
	for _, file := range []string{"database.csv", "database.db", "index.sqlite"} {
		t.Run(file, func(t *testing.T) {
			cfg := testConfig(newTree(t), file)
			c := rebuilt(t, cfg)
			require.NoError(t, c.RegisterAlias(1, "bk7"))
			require.NoError(t, c.Save())

			reopened := open(t, cfg)
			requireSameEntries(t, c.Entries(), reopened.Entries())

			e, err := reopened.Lookup("bk7")
			require.NoError(t, err)
			assert.Equal(t, "SCHOTT-BK", e.Name)

			// No temp files are left behind.
			items, err := os.ReadDir(cfg.Path)
			require.NoError(t, err)
			for _, item := range items {
				assert.NotContains(t, item.Name(), file+".")
			}
		})
	}
}

func TestSaveCSVLayout(t *testing.T) {
	cfg := testConfig(newTree(t), "database.csv")
	c := rebuilt(t, cfg)
	require.NoError(t, c.Save())

	raw, err := os.ReadFile(cfg.CataloguePath())
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "Alias,Name,FullName,Author,Comment,Reference,SpectrumType,Unit,"+
		"SpectrumLowerBound,SpectrumUpperBound,N_Reference,K_Reference,Path,Database\n")
	assert.Contains(t, text, ",wavelength,nanometer,300,500,,,TiO2.csv,UserData\n")
}

func TestRegisterAlias(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))

	require.NoError(t, c.RegisterAlias(0, "silver"))
	require.NoError(t, c.RegisterAlias(0, "silver"))
	e, err := c.Lookup("silver")
	require.NoError(t, err)
	assert.Equal(t, "Ag", e.Name)

	err = c.RegisterAlias(1, "silver")
	require.ErrorIs(t, err, core.ErrValidation)

	require.ErrorIs(t, c.RegisterAlias(5, "x"), core.ErrValidation)
	require.ErrorIs(t, c.RegisterAlias(-1, "x"), core.ErrValidation)
	require.ErrorIs(t, c.RegisterAlias(2, ""), core.ErrValidation)

	require.NoError(t, c.RegisterAlias(0, "ag"))
	_, err = c.Lookup("silver")
	require.ErrorIs(t, err, core.ErrLookup)
	require.NoError(t, c.RegisterAlias(1, "silver"))
}

func TestAliasesSurviveRebuild(t *testing.T) {
	root := newTree(t)
	c := rebuilt(t, testConfig(root, "database.csv"))
	require.NoError(t, c.RegisterAlias(4, "water"))

	testutil.WriteFile(t, root, "UserData/Air.txt", "#Name: Air\n400 1.0003\n800 1.0002\n")
	require.NoError(t, c.Rebuild(context.Background()))

	e, err := c.Lookup("water")
	require.NoError(t, err)
	assert.Equal(t, "Water", e.Name)
	assert.Equal(t, 6, c.Len())
}

func TestLookupUnknown(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))
	_, err := c.Lookup("unobtainium")
	require.ErrorIs(t, err, core.ErrLookup)
	_, err = c.Lookup("")
	require.ErrorIs(t, err, core.ErrLookup)
	_, err = c.Material("unobtainium")
	require.ErrorIs(t, err, core.ErrLookup)
}

func TestMaterial(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))
	require.NoError(t, c.RegisterAlias(1, "bk7"))

	m, err := c.Material("bk7")
	require.NoError(t, err)
	assert.Equal(t, "bk7", m.Meta.Alias)
	typ, unit := m.DefaultSpectrum()
	assert.Equal(t, spectrum.Wavelength, typ)
	assert.Equal(t, spectrum.UnitMicrometer, unit)

	s, err := spectrum.NewScalar(587.6, spectrum.WithUnit("nm"))
	require.NoError(t, err)
	nk, err := m.NK(s)
	require.NoError(t, err)
	assert.InDelta(t, 1.5168, real(nk.Scalar()), 1e-4)

	again, err := c.Material("bk7")
	require.NoError(t, err)
	assert.NotSame(t, m, again)
	require.NoError(t, again.RemoveAbsorption())
	nk, err = m.NK(s)
	require.NoError(t, err)
	assert.NotZero(t, imag(nk.Scalar()), "materials from the cache must be independent")

	ev, err := c.Material("bk7", material.WithSpectrum(spectrum.Energy, "eV"))
	require.NoError(t, err)
	_, unit = ev.DefaultSpectrum()
	assert.Equal(t, spectrum.UnitElectronVolt, unit)
}

func TestMaterialWithoutCache(t *testing.T) {
	cfg := testConfig(newTree(t), "database.csv")
	cfg.CacheSize = 0
	c := rebuilt(t, cfg)
	require.NoError(t, c.RegisterAlias(2, "alsb"))

	m, err := c.Material("alsb")
	require.NoError(t, err)
	_, unit := m.DefaultSpectrum()
	assert.Equal(t, spectrum.UnitNanometer, unit)
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))
	entries := c.Entries()
	entries[0].Alias = "changed"
	_, err := c.Lookup("changed")
	require.ErrorIs(t, err, core.ErrLookup)
	assert.Empty(t, c.Entries()[0].Alias)
}

func TestWatcherTinyDebounce(t *testing.T) {
	c := rebuilt(t, testConfig(newTree(t), "database.csv"))

	w, err := catalogue.NewWatcher(c, catalogue.WithDebounce(time.Nanosecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	w.Stop()
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	root := newTree(t)
	cfg := testConfig(root, "database.csv")
	c := rebuilt(t, cfg)

	w, err := catalogue.NewWatcher(c, catalogue.WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, catalogue.DatabaseUserData), w.Dir)
	require.NoError(t, w.Start(t.Context()))
	defer w.Stop()

	testutil.WriteFile(t, root, "UserData/Air.txt", "#Name: Air\n400 1.0003\n800 1.0002\n")

	select {
	case err := <-w.Rebuilds:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after file change")
	}
	assert.Equal(t, 6, c.Len())
	_, err = os.Stat(cfg.CataloguePath())
	require.NoError(t, err)
}
