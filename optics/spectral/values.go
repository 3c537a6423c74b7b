package spectral

// Values is the result of an evaluation. It keeps the shape of the input
// spectrum: IsScalar reports whether the input was a scalar.
type Values struct {
	data   []complex128
	scalar bool
}

// NewValues wraps data; scalar marks a single-value result taken from a
// scalar input.
func NewValues(data []complex128, scalar bool) Values {
	return Values{data: data, scalar: scalar && len(data) == 1}
}

// RealValues builds Values with zero imaginary parts.
func RealValues(re []float64, scalar bool) Values {
	data := make([]complex128, len(re))
	for i, v := range re {
		data[i] = complex(v, 0)
	}
	return NewValues(data, scalar)
}

// Combine returns re + i·im element-wise. The parts must have equal length;
// the result keeps the shape of re.
func Combine(re, im Values) Values {
	data := make([]complex128, len(re.data))
	for i := range data {
		data[i] = re.data[i] + 1i*im.data[i]
	}
	return Values{data: data, scalar: re.scalar}
}

// Len returns the number of values.
func (v Values) Len() int { return len(v.data) }

// IsScalar reports whether the values came from a scalar spectrum.
func (v Values) IsScalar() bool { return v.scalar }

// At returns the i-th value.
func (v Values) At(i int) complex128 { return v.data[i] }

// Scalar returns the first value, which is the only one for scalar results.
func (v Values) Scalar() complex128 { return v.data[0] }

// Complex returns a copy of the values.
func (v Values) Complex() []complex128 { return append([]complex128(nil), v.data...) }

// Real returns the real parts.
func (v Values) Real() []float64 {
	out := make([]float64, len(v.data))
	for i, c := range v.data {
		out[i] = real(c)
	}
	return out
}

// Imag returns the imaginary parts.
func (v Values) Imag() []float64 {
	out := make([]float64, len(v.data))
	for i, c := range v.data {
		out[i] = imag(c)
	}
	return out
}

// Map applies f to every value and returns the result with the same shape.
func (v Values) Map(f func(complex128) complex128) Values {
	data := make([]complex128, len(v.data))
	for i, c := range v.data {
		data[i] = f(c)
	}
	return Values{data: data, scalar: v.scalar}
}
