package linalg

import (
	"fmt"

	"gulu/solver"
)

// Factorization holds the packed LU output of Factorize together with its
// pivot record. The packed matrix stores U in its upper triangle (diagonal
// included) and L without its implicit unit diagonal in its strict lower
// triangle. It is always column-major because the primitive requires it.
//
// A Factorization is read-only to its consumers: any number of Solve calls
// and an ExtractFactors call may share it, concurrently.
type Factorization struct {
	LU  *Matrix // packed factors, column-major, shape (M, N)
	Piv []int32 // 0-origin incremental row swaps, length min(M, N)

	// SingularAt is the 1-origin diagonal position of the first exactly
	// zero pivot the primitive reported, or 0 if the matrix is not
	// exactly singular.
	SingularAt int
}

// IsSingular reports whether the primitive flagged the matrix as exactly
// singular during factorization.
func (f *Factorization) IsSingular() bool { return f.SingularAt > 0 }

// Factorize computes the LU decomposition of the rank-2 matrix a with
// partial pivoting, such that P·L·U = A for the permutation encoded by the
// returned pivots.
//
// When overwrite is set and a is already column-major, a's storage is
// reused and holds the packed factors on return; otherwise a is left
// untouched and the factorization owns fresh storage.
//
// When checkFinite is set, a is scanned first and a NonFinite error is
// returned if it contains NaN or Inf values. Disabling the scan trades
// safety for speed; non-finite inputs then produce unspecified results.
//
// A singular input is NOT an error: the factorization is returned as the
// primitive produced it — with non-finite values below the first zero
// pivot rather than the zero-filled convention of reference
// implementations — the position is recorded in SingularAt, and an
// advisory is emitted through Warnf.
func Factorize(h *solver.Handle, a *Matrix, overwrite, checkFinite bool) (*Factorization, error) {
	const op = "Factorize"

	if h == nil || a == nil {
		return nil, newInvalidArgument(op, "nil handle or matrix", 0)
	}
	if !a.Dtype.Valid() {
		return nil, newUnsupportedType(op, fmt.Sprintf("unsupported dtype (actual: %v)", a.Dtype))
	}
	if a.Rows <= 0 || a.Cols <= 0 {
		return nil, newInvalidShape(op, fmt.Sprintf("expected a rank-2 matrix with positive dimensions, got (%d, %d)", a.Rows, a.Cols))
	}
	if checkFinite {
		if err := ensureFinite(op, a, "array must not contain infs or NaNs"); err != nil {
			return nil, err
		}
	}

	ctx := h.Context()
	lu, err := asOrder(ctx, a, ColMajor, overwrite)
	if err != nil {
		return nil, err
	}
	owned := lu.Data != a.Data

	m, n := lu.Rows, lu.Cols
	k := min(m, n)

	wsBytes, err := h.Backend().WorkspaceSize(lu.Dtype, m, n)
	if err != nil {
		if owned {
			lu.Free(ctx)
		}
		return nil, newUnsupportedType(op, err.Error())
	}
	work, err := ctx.Malloc(wsBytes)
	if err != nil {
		if owned {
			lu.Free(ctx)
		}
		return nil, err
	}
	defer ctx.Free(work)

	ipiv := make([]int32, k)
	status := h.Backend().Factorize(h, lu.Dtype, m, n, lu.Data, m, work, ipiv)

	if arg := status.BadArg(); arg != 0 {
		if owned {
			lu.Free(ctx)
		}
		return nil, newInvalidArgument(op, "illegal value in getrf argument", arg)
	}

	singular := status.SingularAt()
	if singular != 0 {
		Warnf("linalg: diagonal number %d is exactly zero, singular matrix (Factorize)", singular)
	}

	return &Factorization{
		LU:         lu,
		Piv:        ToZeroOrigin(ipiv),
		SingularAt: singular,
	}, nil
}
