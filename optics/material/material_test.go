package material

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-dispersion/internal/testutil"
	"github.com/cwbudde/algo-dispersion/optics/core"
	"github.com/cwbudde/algo-dispersion/optics/matfile"
	"github.com/cwbudde/algo-dispersion/optics/spectral"
	"github.com/cwbudde/algo-dispersion/optics/spectrum"
)

func mustSpectrum(t *testing.T, unit string, values ...float64) *spectrum.Spectrum {
	t.Helper()
	var (
		s   *spectrum.Spectrum
		err error
	)
	if len(values) == 1 {
		s, err = spectrum.NewScalar(values[0], spectrum.WithUnit(unit))
	} else {
		s, err = spectrum.New(values, spectrum.WithUnit(unit))
	}
	if err != nil {
		t.Fatalf("spectrum: %v", err)
	}
	return s
}

func nkAt(t *testing.T, m *Material, s *spectrum.Spectrum) complex128 {
	t.Helper()
	v, err := m.NK(s)
	if err != nil {
		t.Fatalf("NK() error = %v", err)
	}
	return v.Scalar()
}

func TestFixedNExact(t *testing.T) {
	m, err := FixedN(1.0)
	if err != nil {
		t.Fatalf("FixedN() error = %v", err)
	}
	for _, s := range []*spectrum.Spectrum{
		mustSpectrum(t, "nm", 632.8),
		mustSpectrum(t, "eV", 0.5),
		mustSpectrum(t, "THz", 100),
	} {
		if got := nkAt(t, m, s); got != 1+0i {
			t.Fatalf("NK(%v) = %v, want exactly 1+0i", s, got)
		}
	}

	v, err := m.NK(mustSpectrum(t, "um", 0.4, 0.5, 0.6))
	if err != nil {
		t.Fatalf("NK() error = %v", err)
	}
	if v.IsScalar() || v.Len() != 3 {
		t.Fatalf("NK() len=%d scalar=%v, want 3 values", v.Len(), v.IsScalar())
	}
	if m.Kind() != KindNK {
		t.Fatalf("Kind() = %v, want nk", m.Kind())
	}
}

func TestFixedConversions(t *testing.T) {
	s := mustSpectrum(t, "nm", 500)

	nk, err := FixedNK(2 + 1i)
	if err != nil {
		t.Fatalf("FixedNK() error = %v", err)
	}
	eps, err := nk.Permittivity(s)
	if err != nil {
		t.Fatalf("Permittivity() error = %v", err)
	}
	if eps.Scalar() != 3+4i {
		t.Fatalf("Permittivity() = %v, want 3+4i", eps.Scalar())
	}

	metal, err := FixedEps(-4 + 0i)
	if err != nil {
		t.Fatalf("FixedEps() error = %v", err)
	}
	if got := nkAt(t, metal, s); got != 2i {
		t.Fatalf("NK() = %v, want 2i", got)
	}

	dielectric, err := FixedEpsR(2.25)
	if err != nil {
		t.Fatalf("FixedEpsR() error = %v", err)
	}
	if got := nkAt(t, dielectric, s); got != 1.5 {
		t.Fatalf("NK() = %v, want 1.5", got)
	}
	if dielectric.Kind() != KindEps {
		t.Fatalf("Kind() = %v, want eps", dielectric.Kind())
	}
}

func TestDrudeModel(t *testing.T) {
	m, err := FromModel(ModelDescriptor{Name: "Drude", Parameters: []float64{8.55, 0.0184}})
	if err != nil {
		t.Fatalf("FromModel() error = %v", err)
	}
	got := nkAt(t, m, mustSpectrum(t, "um", 0.5))
	testutil.RequireComplexNearlyEqual(t, got, complex(0.013366748652710246, 3.299752452172982), 1e-9)
	if math.Abs(real(got)-0.0134) > 1e-4 || math.Abs(imag(got)-3.300) > 1e-3 {
		t.Fatalf("NK() = %v, want about 0.0134+3.300i", got)
	}

	if err := m.RemoveAbsorption(); !errors.Is(err, core.ErrNotSupported) {
		t.Fatalf("RemoveAbsorption() err = %v, want ErrNotSupported", err)
	}
	if err := m.Extrapolate(mustSpectrum(t, "eV", 200)); !errors.Is(err, core.ErrNotSupported) {
		t.Fatalf("Extrapolate() err = %v, want ErrNotSupported", err)
	}
}

func TestModelDescriptorSpectrum(t *testing.T) {
	_, err := FromModel(ModelDescriptor{
		Name:       "Sellmeier",
		Parameters: []float64{0, 0.6961663, 0.0684043},
		ValidRange: [2]float64{210, 6700},
		Unit:       "nm",
	})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("nm Sellmeier err = %v, want ErrValidation", err)
	}

	m, err := FromModel(ModelDescriptor{
		Name:         "Sellmeier",
		Parameters:   []float64{0, 0.6961663, 0.0684043},
		ValidRange:   [2]float64{0.21, 6.7},
		SpectrumType: "wavelength",
		Unit:         "micrometer",
	})
	if err != nil {
		t.Fatalf("FromModel() error = %v", err)
	}
	typ, unit := m.DefaultSpectrum()
	if typ != spectrum.Wavelength || unit != spectrum.UnitMicrometer {
		t.Fatalf("DefaultSpectrum() = %v %v, want wavelength um", typ, unit)
	}
	if _, err := FromModel(ModelDescriptor{Name: "Lorentz", Parameters: []float64{1}}); !errors.Is(err, core.ErrLookup) {
		t.Fatalf("unknown model err = %v, want ErrLookup", err)
	}
}

func TestSourceExclusive(t *testing.T) {
	n, eps := 1.5, 2.25
	if _, err := New(Source{}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("empty source err = %v, want ErrValidation", err)
	}
	if _, err := New(Source{FixedN: &n, FixedEpsR: &eps}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("two sources err = %v, want ErrValidation", err)
	}
	if _, err := FixedN(1, WithSpectrum(spectrum.Energy, "nm")); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("mismatched default spectrum err = %v, want ErrValidation", err)
	}
}

func TestMaxValidRangeIntersection(t *testing.T) {
	rec := &matfile.Record{Datasets: []matfile.Dataset{
		{MetaData: matfile.DatasetMeta{DataType: "tabulated n"}, Table: [][]float64{{0.1, 1.5}, {2, 1.4}}},
		{MetaData: matfile.DatasetMeta{DataType: "tabulated k"}, Table: [][]float64{{0.05, 0.1}, {1.5, 0.01}}},
	}}
	m, err := FromRecord(rec, WithSpectrum(spectrum.Wavelength, "um"))
	if err != nil {
		t.Fatalf("FromRecord() error = %v", err)
	}
	r, err := m.MaxValidRange()
	if err != nil {
		t.Fatalf("MaxValidRange() error = %v", err)
	}
	if r.Min() != 0.1 || r.Max() != 1.5 || r.Unit() != spectrum.UnitMicrometer {
		t.Fatalf("MaxValidRange() = %v, want [0.1, 1.5] um", r)
	}

	if _, err := (&Material{}).MaxValidRange(); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("empty material err = %v, want ErrValidation", err)
	}
}

func TestFromFileYAML(t *testing.T) {
	m, err := FromFile(filepath.Join("testdata", "Ag_Hagemann.yml"), WithSpectrum(spectrum.Wavelength, "um"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if m.Meta.Comment != "Room temperature" {
		t.Fatalf("Meta = %+v", m.Meta)
	}
	testutil.RequireComplexNearlyEqual(t, nkAt(t, m, mustSpectrum(t, "um", 0.5)), 0.13+3.0i, 1e-12)
	testutil.RequireComplexNearlyEqual(t, nkAt(t, m, mustSpectrum(t, "nm", 450)), 0.15+2.475i, 1e-12)

	if _, err := m.NK(mustSpectrum(t, "um", 0.8)); !errors.Is(err, core.ErrRange) {
		t.Fatalf("out of range err = %v, want ErrRange", err)
	}
}

func TestFromFileFormula(t *testing.T) {
	m, err := FromFile(filepath.Join("testdata", "N-BK7.yml"), WithSpectrum(spectrum.Wavelength, "um"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	got := nkAt(t, m, mustSpectrum(t, "um", 0.5876))
	if math.Abs(real(got)-1.5168) > 1e-4 {
		t.Fatalf("nd = %v, want 1.5168", real(got))
	}
	if imag(got) <= 0 || imag(got) > 1e-5 {
		t.Fatalf("k = %v, want a small positive value", imag(got))
	}
	r, err := m.MaxValidRange()
	if err != nil {
		t.Fatalf("MaxValidRange() error = %v", err)
	}
	if r.Min() != 0.3 || r.Max() != 2.5 {
		t.Fatalf("MaxValidRange() = %v, want [0.3, 2.5]", r)
	}
}

func TestFromFileText(t *testing.T) {
	m, err := FromFile(filepath.Join("testdata", "AlSb.txt"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if m.Meta.Name != "AlSb" || m.Record() == nil {
		t.Fatalf("Meta = %+v", m.Meta)
	}
	testutil.RequireComplexNearlyEqual(t, nkAt(t, m, mustSpectrum(t, "nm", 500)), 4.6+0.4i, 1e-12)
	testutil.RequireComplexNearlyEqual(t, nkAt(t, m, mustSpectrum(t, "um", 0.45)), 4.5+0.825i, 1e-12)
}

func TestRecordErrors(t *testing.T) {
	cases := map[string]struct {
		rec  *matfile.Record
		want error
	}{
		"no datasets": {&matfile.Record{}, core.ErrFormat},
		"mixed kinds": {&matfile.Record{Datasets: []matfile.Dataset{
			{MetaData: matfile.DatasetMeta{DataType: "model Drude"}, Data: "8.55 0.0184"},
			{MetaData: matfile.DatasetMeta{DataType: "tabulated n"}, Table: [][]float64{{1, 1}, {2, 1}}},
		}}, core.ErrFormat},
		"narrow nk": {&matfile.Record{Datasets: []matfile.Dataset{
			{MetaData: matfile.DatasetMeta{DataType: "tabulated nk"}, Table: [][]float64{{1, 1}, {2, 1}}},
		}}, core.ErrFormat},
		"unknown formula": {&matfile.Record{Datasets: []matfile.Dataset{
			{MetaData: matfile.DatasetMeta{DataType: "formula 12", ValidRange: "0.3 2"}, Data: "1"},
		}}, core.ErrLookup},
		"bad coefficients": {&matfile.Record{Datasets: []matfile.Dataset{
			{MetaData: matfile.DatasetMeta{DataType: "formula 1"}, Data: "1 x"},
		}}, core.ErrFormat},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromRecord(tc.rec); !errors.Is(err, tc.want) {
				t.Fatalf("FromRecord() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSingleRowTable(t *testing.T) {
	rec := &matfile.Record{Datasets: []matfile.Dataset{
		{MetaData: matfile.DatasetMeta{DataType: "tabulated nk"}, Table: [][]float64{{632.8, 1.45, 0.001}}},
	}}
	m, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("FromRecord() error = %v", err)
	}
	if got := nkAt(t, m, mustSpectrum(t, "nm", 632.8)); got != 1.45+0.001i {
		t.Fatalf("NK() = %v, want 1.45+0.001i", got)
	}
	if _, err := m.NK(mustSpectrum(t, "nm", 600)); !errors.Is(err, core.ErrRange) {
		t.Fatalf("err = %v, want ErrRange", err)
	}
}

func TestRemoveAbsorption(t *testing.T) {
	m, err := FromFile(filepath.Join("testdata", "AlSb.txt"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if err := m.RemoveAbsorption(); err != nil {
		t.Fatalf("RemoveAbsorption() error = %v", err)
	}
	got := nkAt(t, m, mustSpectrum(t, "nm", 500))
	if imag(got) != 0 {
		t.Fatalf("k = %v, want 0", imag(got))
	}
	testutil.RequireRelNearlyEqual(t, real(got), 4.6, 1e-12)
}

func TestExtrapolate(t *testing.T) {
	m, err := FromFile(filepath.Join("testdata", "AlSb.txt"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	far := mustSpectrum(t, "nm", 1000)
	if _, err := m.NK(far); !errors.Is(err, core.ErrRange) {
		t.Fatalf("before Extrapolate err = %v, want ErrRange", err)
	}
	if err := m.Extrapolate(far, spectral.WithSplineOrder(1)); err != nil {
		t.Fatalf("Extrapolate() error = %v", err)
	}
	got := nkAt(t, m, far)
	testutil.RequireFinite(t, []float64{real(got), imag(got)})

	r, err := m.MaxValidRange()
	if err != nil {
		t.Fatalf("MaxValidRange() error = %v", err)
	}
	if r.Max() != 1000 {
		t.Fatalf("MaxValidRange() = %v, want upper bound 1000", r)
	}
	// inside the data range the tabulated values still answer
	testutil.RequireComplexNearlyEqual(t, nkAt(t, m, mustSpectrum(t, "nm", 500)), 4.6+0.4i, 1e-12)

	if err := m.Extrapolate(mustSpectrum(t, "nm", 600)); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("inside range err = %v, want ErrValidation", err)
	}
}

func TestSampleSpectrum(t *testing.T) {
	fixed, err := FixedN(1.5)
	if err != nil {
		t.Fatalf("FixedN() error = %v", err)
	}
	s, err := fixed.SampleSpectrum(50)
	if err != nil {
		t.Fatalf("SampleSpectrum() error = %v", err)
	}
	if s.Len() != 50 || s.Min() != 100 || s.Max() != 2000 || s.Unit() != spectrum.UnitNanometer {
		t.Fatalf("SampleSpectrum() = %d values [%v, %v] %v", s.Len(), s.Min(), s.Max(), s.Unit())
	}

	m, err := FromFile(filepath.Join("testdata", "AlSb.txt"))
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	s, err = m.SampleSpectrum(0)
	if err != nil {
		t.Fatalf("SampleSpectrum() error = %v", err)
	}
	if s.Len() != spectral.DefaultSamples || s.Min() != 400 || s.Max() != 800 {
		t.Fatalf("SampleSpectrum() = %d values [%v, %v]", s.Len(), s.Min(), s.Max())
	}
	if _, err := m.NK(s); err != nil {
		t.Fatalf("NK(sample) error = %v", err)
	}
}
