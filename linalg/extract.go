package linalg

import (
	"gulu"
	"gulu/solver"
)

// Factors holds the explicit factors extracted from a packed factorization.
// P is nil when extraction was asked to fold the permutation into L.
type Factors struct {
	P *Matrix // (M, M) permutation, real-valued, nil in permuted-L mode
	L *Matrix // (M, K) unit lower trapezoidal, or P·L in permuted-L mode
	U *Matrix // (K, N) upper trapezoidal
}

// splitLUKernel partitions the packed column-major (m, n) factorization
// into the explicit row-major factors L (m, k) and U (k, n), k = min(m, n).
// One task per cell of the (m, n) grid; each task writes at most one cell
// of L and one of U, and no two tasks write the same cell, so the kernel is
// race-free under parallel execution.
func splitLUKernel[T any](lu, l, u []T, m, n, k int) gulu.KernelFunc {
	return func(tid gulu.ThreadID, _ ...interface{}) {
		i := tid.Global()
		if i >= m*n {
			return
		}
		row, col := i/n, i%n
		luVal := lu[row+col*m]

		var lVal, uVal T
		one := oneOf[T]()
		switch {
		case row > col:
			lVal = luVal
		case row == col:
			lVal = one
			uVal = luVal
		default:
			uVal = luVal
		}
		if col < k {
			l[col+row*k] = lVal
		}
		if row < k {
			u[col+row*n] = uVal
		}
	}
}

// oneOf returns the multiplicative identity of the element type.
func oneOf[T any]() T {
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *complex64:
		*p = 1
	case *complex128:
		*p = 1
	}
	return one
}

// ExtractFactors splits a packed factorization into explicit factors.
//
// In the default mode it returns (P, L, U) with P·L·U = A: P is the (M, M)
// permutation matrix, real-valued at the factorization's precision, L is
// (M, K) unit lower trapezoidal, and U is (K, N) upper trapezoidal,
// K = min(M, N).
//
// With permuteL set it skips P and returns (P·L, U), folding the
// permutation into L's rows.
//
// The factorization is read-only; all outputs are freshly allocated
// row-major matrices owned by the caller.
func ExtractFactors(h *solver.Handle, f *Factorization, permuteL bool) (*Factors, error) {
	const op = "ExtractFactors"

	if h == nil || f == nil || f.LU == nil {
		return nil, newInvalidArgument(op, "nil handle or factorization", 0)
	}
	if f.LU.Order != ColMajor {
		return nil, newInvalidShape(op, "packed factorization must be column-major")
	}

	ctx := h.Context()
	m, n := f.LU.Rows, f.LU.Cols
	k := min(m, n)

	l, err := NewMatrix(ctx, f.LU.Dtype, m, k, RowMajor)
	if err != nil {
		return nil, err
	}
	u, err := NewMatrix(ctx, f.LU.Dtype, k, n, RowMajor)
	if err != nil {
		l.Free(ctx)
		return nil, err
	}

	var fn gulu.KernelFunc
	switch f.LU.Dtype {
	case gulu.Float32:
		fn = splitLUKernel(f.LU.Data.Float32(), l.Data.Float32(), u.Data.Float32(), m, n, k)
	case gulu.Float64:
		fn = splitLUKernel(f.LU.Data.Float64(), l.Data.Float64(), u.Data.Float64(), m, n, k)
	case gulu.Complex64:
		fn = splitLUKernel(f.LU.Data.Complex64(), l.Data.Complex64(), u.Data.Complex64(), m, n, k)
	default:
		fn = splitLUKernel(f.LU.Data.Complex128(), l.Data.Complex128(), u.Data.Complex128(), m, n, k)
	}
	if err := launch1D(ctx, m*n, fn); err != nil {
		l.Free(ctx)
		u.Free(ctx)
		return nil, err
	}

	if permuteL {
		if err := applyRowSwaps(ctx, l, f.Piv, true); err != nil {
			l.Free(ctx)
			u.Free(ctx)
			return nil, err
		}
		return &Factors{L: l, U: u}, nil
	}

	p, err := newIdentity(ctx, f.LU.Dtype.Real(), m)
	if err != nil {
		l.Free(ctx)
		u.Free(ctx)
		return nil, err
	}
	if err := applyRowSwaps(ctx, p, f.Piv, true); err != nil {
		p.Free(ctx)
		l.Free(ctx)
		u.Free(ctx)
		return nil, err
	}
	return &Factors{P: p, L: l, U: u}, nil
}
