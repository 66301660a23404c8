package linalg

import (
	"gulu"
)

// rowSwapKernel replays the 0-origin incremental row-swap list piv against
// the rows×cols row-major matrix a, one task per column. Swaps only move
// data within a column, so columns never interact and the replay is
// race-free under any task interleaving.
//
// Forward replay applies the swaps in the order the factorization recorded
// them (ascending, each against the row state as of that step) — the
// action of P⁻¹ on the rows. Reverse replay (descending) applies the
// inverse, i.e. the action of P itself; it is what reconstructs an explicit
// permutation from an identity matrix, mirroring the two directions of
// LAPACK's laswp.
func rowSwapKernel[T any](a []T, cols int, piv []int32, reverse bool) gulu.KernelFunc {
	k := len(piv)
	return func(tid gulu.ThreadID, _ ...interface{}) {
		col := tid.Global()
		if col >= cols {
			return
		}
		if reverse {
			for rk := k - 1; rk >= 0; rk-- {
				rj := int(piv[rk])
				if rj <= rk {
					continue
				}
				a[rk*cols+col], a[rj*cols+col] = a[rj*cols+col], a[rk*cols+col]
			}
			return
		}
		for rk := 0; rk < k; rk++ {
			rj := int(piv[rk])
			if rj <= rk {
				continue
			}
			a[rk*cols+col], a[rj*cols+col] = a[rj*cols+col], a[rk*cols+col]
		}
	}
}

// applyRowSwaps launches the row-swap kernel over m's columns. m must be
// row-major; piv entries must be valid row indices of m.
func applyRowSwaps(ctx *gulu.Context, m *Matrix, piv []int32, reverse bool) error {
	const op = "applyRowSwaps"
	if m.Order != RowMajor {
		return newInvalidShape(op, "target matrix must be row-major")
	}
	var fn gulu.KernelFunc
	switch m.Dtype {
	case gulu.Float32:
		fn = rowSwapKernel(m.Data.Float32(), m.Cols, piv, reverse)
	case gulu.Float64:
		fn = rowSwapKernel(m.Data.Float64(), m.Cols, piv, reverse)
	case gulu.Complex64:
		fn = rowSwapKernel(m.Data.Complex64(), m.Cols, piv, reverse)
	default:
		fn = rowSwapKernel(m.Data.Complex128(), m.Cols, piv, reverse)
	}
	return launch1D(ctx, m.Cols, fn)
}
