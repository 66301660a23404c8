package linalg

import (
	"fmt"

	"gulu"
)

// Order is the storage order of a matrix buffer. The solver primitive
// requires column-major buffers; the extraction kernels emit row-major
// factors. Every kernel takes the order explicitly rather than inferring it.
type Order uint8

const (
	RowMajor Order = iota
	ColMajor
)

func (o Order) String() string {
	if o == ColMajor {
		return "col-major"
	}
	return "row-major"
}

// Matrix is a dense rank-2 device buffer of a single element type with an
// explicit storage order.
type Matrix struct {
	Rows, Cols int
	Order      Order
	Dtype      gulu.Dtype
	Data       gulu.DevicePtr
}

// NewMatrix allocates an uninitialized rows×cols matrix on the context.
func NewMatrix(ctx *gulu.Context, dt gulu.Dtype, rows, cols int, order Order) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, newInvalidShape("NewMatrix", fmt.Sprintf("dimensions must be positive, got (%d, %d)", rows, cols))
	}
	if !dt.Valid() {
		return nil, newUnsupportedType("NewMatrix", fmt.Sprintf("unsupported dtype (actual: %v)", dt))
	}
	ptr, err := ctx.Malloc(rows * cols * dt.Size())
	if err != nil {
		return nil, err
	}
	return &Matrix{Rows: rows, Cols: cols, Order: order, Dtype: dt, Data: ptr}, nil
}

// Free releases the matrix buffer back to the context's pool.
func (m *Matrix) Free(ctx *gulu.Context) error {
	return ctx.Free(m.Data)
}

// NewFloat32 allocates a rows×cols float32 matrix initialized from the host
// slice, which must hold rows*cols elements in the given order.
func NewFloat32(ctx *gulu.Context, rows, cols int, order Order, data []float32) (*Matrix, error) {
	m, err := newFrom(ctx, gulu.Float32, rows, cols, order, len(data))
	if err != nil {
		return nil, err
	}
	copy(m.Data.Float32(), data)
	return m, nil
}

// NewFloat64 allocates a rows×cols float64 matrix initialized from the host
// slice.
func NewFloat64(ctx *gulu.Context, rows, cols int, order Order, data []float64) (*Matrix, error) {
	m, err := newFrom(ctx, gulu.Float64, rows, cols, order, len(data))
	if err != nil {
		return nil, err
	}
	copy(m.Data.Float64(), data)
	return m, nil
}

// NewComplex64 allocates a rows×cols complex64 matrix initialized from the
// host slice.
func NewComplex64(ctx *gulu.Context, rows, cols int, order Order, data []complex64) (*Matrix, error) {
	m, err := newFrom(ctx, gulu.Complex64, rows, cols, order, len(data))
	if err != nil {
		return nil, err
	}
	copy(m.Data.Complex64(), data)
	return m, nil
}

// NewComplex128 allocates a rows×cols complex128 matrix initialized from
// the host slice.
func NewComplex128(ctx *gulu.Context, rows, cols int, order Order, data []complex128) (*Matrix, error) {
	m, err := newFrom(ctx, gulu.Complex128, rows, cols, order, len(data))
	if err != nil {
		return nil, err
	}
	copy(m.Data.Complex128(), data)
	return m, nil
}

func newFrom(ctx *gulu.Context, dt gulu.Dtype, rows, cols int, order Order, n int) (*Matrix, error) {
	if n != rows*cols {
		return nil, newInvalidShape("NewMatrix", fmt.Sprintf("host data holds %d elements, want %d", n, rows*cols))
	}
	return NewMatrix(ctx, dt, rows, cols, order)
}

// index returns the linear offset of element (r, c).
func (m *Matrix) index(r, c int) int {
	if m.Order == ColMajor {
		return r + c*m.Rows
	}
	return r*m.Cols + c
}

// At returns element (r, c) widened to complex128. Real matrices yield a
// zero imaginary part.
func (m *Matrix) At(r, c int) complex128 {
	i := m.index(r, c)
	switch m.Dtype {
	case gulu.Float32:
		return complex(float64(m.Data.Float32()[i]), 0)
	case gulu.Float64:
		return complex(m.Data.Float64()[i], 0)
	case gulu.Complex64:
		return complex128(m.Data.Complex64()[i])
	default:
		return m.Data.Complex128()[i]
	}
}

// Set stores v into element (r, c), narrowing to the matrix element type.
func (m *Matrix) Set(r, c int, v complex128) {
	i := m.index(r, c)
	switch m.Dtype {
	case gulu.Float32:
		m.Data.Float32()[i] = float32(real(v))
	case gulu.Float64:
		m.Data.Float64()[i] = real(v)
	case gulu.Complex64:
		m.Data.Complex64()[i] = complex64(v)
	default:
		m.Data.Complex128()[i] = v
	}
}

// newIdentity allocates an n×n row-major identity matrix of the given
// element type.
func newIdentity(ctx *gulu.Context, dt gulu.Dtype, n int) (*Matrix, error) {
	m, err := NewMatrix(ctx, dt, n, n, RowMajor)
	if err != nil {
		return nil, err
	}
	clear(m.Data.Byte()[:n*n*dt.Size()])
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m, nil
}
