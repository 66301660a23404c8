package linalg

import (
	"fmt"

	"gulu/solver"
)

// TransMode selects the system variant Solve targets.
type TransMode int

const (
	NoTranspose        TransMode = iota // solve A·X = B
	Transpose                           // solve Aᵀ·X = B
	ConjugateTranspose                  // solve Aᴴ·X = B
)

func (m TransMode) String() string {
	switch m {
	case NoTranspose:
		return "NoTranspose"
	case Transpose:
		return "Transpose"
	case ConjugateTranspose:
		return "ConjugateTranspose"
	default:
		return fmt.Sprintf("TransMode(%d)", int(m))
	}
}

func (m TransMode) trans() solver.Trans {
	switch m {
	case Transpose:
		return solver.TransT
	case ConjugateTranspose:
		return solver.ConjTrans
	default:
		return solver.NoTrans
	}
}

// Solve solves op(A)·X = B against a factorization of the square matrix A,
// where op is selected by mode. B must have as many rows as the
// factorization; its storage is reused for the solution when overwriteB is
// set and B is already column-major, otherwise a fresh matrix is returned.
//
// When checkFinite is set, both the packed factors and B are scanned for
// non-finite values first. Note that a factorization of an exactly
// singular matrix contains NaN (see Factorize), so checked solves against
// singular factorizations fail here.
//
// Singularity is not re-checked at solve time: the primitive reported it
// when factorizing, and solving against a singular factorization yields
// non-finite results rather than an error.
func Solve(h *solver.Handle, f *Factorization, b *Matrix, mode TransMode, overwriteB, checkFinite bool) (*Matrix, error) {
	const op = "Solve"

	if h == nil || f == nil || f.LU == nil || b == nil {
		return nil, newInvalidArgument(op, "nil handle, factorization, or right-hand side", 0)
	}
	if mode != NoTranspose && mode != Transpose && mode != ConjugateTranspose {
		return nil, newInvalidArgument(op, fmt.Sprintf("unknown mode %v", mode), 0)
	}
	if f.LU.Rows != f.LU.Cols {
		return nil, newInvalidShape(op, fmt.Sprintf("factorization must be square, got (%d, %d)", f.LU.Rows, f.LU.Cols))
	}
	if f.LU.Order != ColMajor {
		return nil, newInvalidShape(op, "packed factorization must be column-major")
	}
	if b.Dtype != f.LU.Dtype {
		return nil, newUnsupportedType(op, fmt.Sprintf("right-hand side dtype %v does not match factorization dtype %v", b.Dtype, f.LU.Dtype))
	}
	m := f.LU.Rows
	if b.Rows != m {
		return nil, newInvalidShape(op, fmt.Sprintf("incompatible dimensions: factorization has %d rows, right-hand side has %d", m, b.Rows))
	}

	if checkFinite {
		if err := ensureFinite(op, f.LU,
			"array must not contain infs or NaNs "+
				"(note: the factorization of a singular matrix contains NaN rather than zeros)"); err != nil {
			return nil, err
		}
		if err := ensureFinite(op, b, "array must not contain infs or NaNs"); err != nil {
			return nil, err
		}
	}

	ctx := h.Context()
	x, err := asOrder(ctx, b, ColMajor, overwriteB)
	if err != nil {
		return nil, err
	}
	owned := x.Data != b.Data

	ipiv := ToOneOrigin(f.Piv)
	status := h.Backend().Solve(h, f.LU.Dtype, mode.trans(), m, x.Cols, f.LU.Data, m, ipiv, x.Data, m)
	if arg := status.BadArg(); arg != 0 {
		if owned {
			x.Free(ctx)
		}
		return nil, newInvalidArgument(op, "illegal value in getrs argument", arg)
	}
	return x, nil
}
