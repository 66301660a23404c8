package gulu

// Dtype identifies the element type of a device buffer. The numeric core
// is polymorphic over exactly these four types; all dispatch is keyed on
// the tag rather than inspecting data at runtime.
type Dtype uint8

const (
	Float32 Dtype = iota
	Float64
	Complex64
	Complex128
)

// Size returns the element size in bytes.
func (dt Dtype) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	}
	return 0
}

// IsComplex reports whether the element type is complex-valued.
func (dt Dtype) IsComplex() bool {
	return dt == Complex64 || dt == Complex128
}

// Real returns the real dtype of matching precision. Real dtypes map to
// themselves. Used when a real-valued companion buffer (for example a
// permutation matrix) accompanies a complex factorization.
func (dt Dtype) Real() Dtype {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	}
	return dt
}

// Valid reports whether dt is one of the four supported element types.
func (dt Dtype) Valid() bool {
	return dt <= Complex128
}

func (dt Dtype) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	}
	return "invalid"
}
