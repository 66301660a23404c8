package linalg_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"gulu"
	"gulu/linalg"
	"gulu/solver"
)

func testHandle(t *testing.T) *solver.Handle {
	t.Helper()
	h, err := solver.NewHandle(nil)
	require.NoError(t, err)
	return h
}

var testDtypes = []gulu.Dtype{gulu.Float32, gulu.Float64, gulu.Complex64, gulu.Complex128}

// newRandom builds a rows×cols matrix of the given type filled with values
// in [-1, 1). With dominant set, the diagonal is boosted so the matrix is
// comfortably non-singular.
func newRandom(t *testing.T, dt gulu.Dtype, rows, cols int, order linalg.Order, rng *rand.Rand, dominant bool) *linalg.Matrix {
	t.Helper()
	m, err := linalg.NewMatrix(gulu.DefaultContext(), dt, rows, cols, order)
	require.NoError(t, err)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := complex(2*rng.Float64()-1, 0)
			if dt.IsComplex() {
				v += complex(0, 2*rng.Float64()-1)
			}
			if dominant && r == c {
				v += complex(float64(rows+cols), 0)
			}
			m.Set(r, c, v)
		}
	}
	return m
}

// newFromHost builds a matrix from a host row-of-rows form, narrowing the
// complex128 cells to the target element type.
func newFromHost(t *testing.T, dt gulu.Dtype, order linalg.Order, data [][]complex128) *linalg.Matrix {
	t.Helper()
	m, err := linalg.NewMatrix(gulu.DefaultContext(), dt, len(data), len(data[0]), order)
	require.NoError(t, err)
	for r := range data {
		for c := range data[r] {
			m.Set(r, c, data[r][c])
		}
	}
	return m
}

// silenceWarnings redirects Warnf for the duration of the test and returns
// a pointer to the last formatted message.
func silenceWarnings(t *testing.T) *string {
	t.Helper()
	var last string
	old := linalg.Warnf
	linalg.Warnf = func(format string, v ...interface{}) {
		last = fmt.Sprintf(format, v...)
	}
	t.Cleanup(func() { linalg.Warnf = old })
	return &last
}

// toHost copies a matrix into a host row-of-rows form widened to complex128.
func toHost(m *linalg.Matrix) [][]complex128 {
	out := make([][]complex128, m.Rows)
	for r := range out {
		out[r] = make([]complex128, m.Cols)
		for c := range out[r] {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

func matmul(a, b [][]complex128) [][]complex128 {
	rows, inner, cols := len(a), len(b), len(b[0])
	out := make([][]complex128, rows)
	for r := range out {
		out[r] = make([]complex128, cols)
		for c := 0; c < cols; c++ {
			var sum complex128
			for i := 0; i < inner; i++ {
				sum += a[r][i] * b[i][c]
			}
			out[r][c] = sum
		}
	}
	return out
}

func conjTranspose(a [][]complex128, conj bool) [][]complex128 {
	rows, cols := len(a), len(a[0])
	out := make([][]complex128, cols)
	for r := range out {
		out[r] = make([]complex128, rows)
		for c := 0; c < rows; c++ {
			v := a[c][r]
			if conj {
				v = complex(real(v), -imag(v))
			}
			out[r][c] = v
		}
	}
	return out
}

// requireNear asserts element-wise closeness at the dtype's tolerance.
func requireNear(t *testing.T, want, got [][]complex128, dt gulu.Dtype, what string) {
	t.Helper()
	tol := gulu.ToleranceFor(dt)
	require.Equal(t, len(want), len(got), what)
	for r := range want {
		require.Equal(t, len(want[r]), len(got[r]), what)
		for c := range want[r] {
			require.True(t, gulu.NearEqualComplex(want[r][c], got[r][c], tol),
				"%s: mismatch at (%d,%d): want %v, got %v", what, r, c, want[r][c], got[r][c])
		}
	}
}
