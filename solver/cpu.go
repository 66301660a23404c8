package solver

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/constraints"

	"gulu"
)

// cpuBackend is the reference implementation of the primitive: an unblocked
// right-looking factorization with partial pivoting and serial triangular
// solves, specialized per element type through dispatch tables.
//
// It reproduces the device primitive's documented singular behavior: on an
// exactly-zero pivot the elimination divide still happens, so the packed
// factor carries Inf/NaN below the reported diagonal instead of the
// zero-filled convention of reference LAPACK.
type cpuBackend struct {
	factorize map[gulu.Dtype]factorizeFunc
	solve     map[gulu.Dtype]solveFunc
}

type factorizeFunc func(m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status

type solveFunc func(trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status

type scalar interface {
	constraints.Float | constraints.Complex
}

// ops binds the element-type specific pieces the generic routines need.
// abs is the pivot magnitude: plain |x| for reals and |re|+|im| (cabs1)
// for complex values.
type ops[T scalar] struct {
	abs  func(T) float64
	conj func(T) T
}

var (
	opsF32 = ops[float32]{
		abs:  func(x float32) float64 { return math.Abs(float64(x)) },
		conj: func(x float32) float32 { return x },
	}
	opsF64 = ops[float64]{
		abs:  math.Abs,
		conj: func(x float64) float64 { return x },
	}
	opsC64 = ops[complex64]{
		abs:  func(x complex64) float64 { return cabs1(complex128(x)) },
		conj: func(x complex64) complex64 { return complex64(cmplx.Conj(complex128(x))) },
	}
	opsC128 = ops[complex128]{
		abs:  cabs1,
		conj: cmplx.Conj,
	}
)

func cabs1(x complex128) float64 {
	return math.Abs(real(x)) + math.Abs(imag(x))
}

func newCPUBackend() *cpuBackend {
	return &cpuBackend{
		factorize: map[gulu.Dtype]factorizeFunc{
			gulu.Float32: func(m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status {
				return getf2(opsF32, m, n, a.Float32(), lda, work.Float32(), ipiv)
			},
			gulu.Float64: func(m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status {
				return getf2(opsF64, m, n, a.Float64(), lda, work.Float64(), ipiv)
			},
			gulu.Complex64: func(m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status {
				return getf2(opsC64, m, n, a.Complex64(), lda, work.Complex64(), ipiv)
			},
			gulu.Complex128: func(m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status {
				return getf2(opsC128, m, n, a.Complex128(), lda, work.Complex128(), ipiv)
			},
		},
		solve: map[gulu.Dtype]solveFunc{
			gulu.Float32: func(trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status {
				return getrs(opsF32, trans, n, nrhs, a.Float32(), lda, ipiv, b.Float32(), ldb)
			},
			gulu.Float64: func(trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status {
				return getrs(opsF64, trans, n, nrhs, a.Float64(), lda, ipiv, b.Float64(), ldb)
			},
			gulu.Complex64: func(trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status {
				return getrs(opsC64, trans, n, nrhs, a.Complex64(), lda, ipiv, b.Complex64(), ldb)
			},
			gulu.Complex128: func(trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status {
				return getrs(opsC128, trans, n, nrhs, a.Complex128(), lda, ipiv, b.Complex128(), ldb)
			},
		},
	}
}

func (c *cpuBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "cpu",
		Description: "unblocked reference factorization with partial pivoting",
	}
}

// WorkspaceSize reports the scratch requirement: one matrix row, used as
// the row-exchange buffer during pivoting.
func (c *cpuBackend) WorkspaceSize(dt gulu.Dtype, m, n int) (int, error) {
	if !dt.Valid() {
		return 0, ErrUnsupportedType
	}
	if n < 1 {
		n = 1
	}
	return n * dt.Size(), nil
}

func (c *cpuBackend) Factorize(h *Handle, dt gulu.Dtype, m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status {
	fn, ok := c.factorize[dt]
	if !ok {
		return Status(-2)
	}
	return fn(m, n, a, lda, work, ipiv)
}

func (c *cpuBackend) Solve(h *Handle, dt gulu.Dtype, trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status {
	fn, ok := c.solve[dt]
	if !ok {
		return Status(-2)
	}
	return fn(trans, n, nrhs, a, lda, ipiv, b, ldb)
}

// getf2 factorizes the m×n column-major matrix a in place with partial
// pivoting. Argument numbering for negative statuses: m=1, n=2, a=3, lda=4,
// work=5, ipiv=6. On a zero pivot column the first such diagonal (1-origin)
// is reported while elimination continues, deliberately dividing by zero.
func getf2[T scalar](o ops[T], m, n int, a []T, lda int, work []T, ipiv []int32) Status {
	k := min(m, n)
	switch {
	case m < 0:
		return -1
	case n < 0:
		return -2
	case n > 0 && len(a) < (n-1)*lda+m:
		return -3
	case lda < max(1, m):
		return -4
	case len(work) < n:
		return -5
	case len(ipiv) < k:
		return -6
	}
	if k == 0 {
		return 0
	}

	var zero T
	var info Status
	for j := 0; j < k; j++ {
		// Pivot: largest magnitude on or below the diagonal of column j.
		p := j
		pmax := o.abs(a[j+j*lda])
		for i := j + 1; i < m; i++ {
			if v := o.abs(a[i+j*lda]); v > pmax {
				p, pmax = i, v
			}
		}
		ipiv[j] = int32(p + 1)

		if a[p+j*lda] == zero && info == 0 {
			info = Status(j + 1)
		}

		if p != j {
			swapRows(a, lda, n, j, p, work)
		}

		// Scale the subdiagonal of column j. The divide is unconditional:
		// a zero pivot yields Inf/NaN multipliers that propagate through
		// the trailing update.
		piv := a[j+j*lda]
		for i := j + 1; i < m; i++ {
			a[i+j*lda] /= piv
		}

		// Rank-1 trailing update. Zero multipliers are not skipped so that
		// non-finite values keep propagating.
		for c := j + 1; c < n; c++ {
			ujc := a[j+c*lda]
			for i := j + 1; i < m; i++ {
				a[i+c*lda] -= a[i+j*lda] * ujc
			}
		}
	}
	return info
}

// swapRows exchanges rows r1 and r2 of the column-major matrix a through
// the scratch row buffer.
func swapRows[T scalar](a []T, lda, n, r1, r2 int, work []T) {
	for c := 0; c < n; c++ {
		work[c] = a[r1+c*lda]
	}
	for c := 0; c < n; c++ {
		a[r1+c*lda] = a[r2+c*lda]
	}
	for c := 0; c < n; c++ {
		a[r2+c*lda] = work[c]
	}
}

// getrs solves op(A)·X = B for the n×n packed factorization a, overwriting
// the n×nrhs column-major matrix b. Argument numbering for negative
// statuses: trans=1, n=2, nrhs=3, a=4, lda=5, ipiv=6, b=7, ldb=8.
func getrs[T scalar](o ops[T], trans Trans, n, nrhs int, a []T, lda int, ipiv []int32, b []T, ldb int) Status {
	switch {
	case trans != NoTrans && trans != TransT && trans != ConjTrans:
		return -1
	case n < 0:
		return -2
	case nrhs < 0:
		return -3
	case n > 0 && len(a) < (n-1)*lda+n:
		return -4
	case lda < max(1, n):
		return -5
	case len(ipiv) < n:
		return -6
	case nrhs > 0 && len(b) < (nrhs-1)*ldb+n:
		return -7
	case ldb < max(1, n):
		return -8
	}
	if n == 0 || nrhs == 0 {
		return 0
	}

	if trans == NoTrans {
		// B ← P⁻¹·B: replay the recorded interchanges in ascending order.
		for r := 0; r < n; r++ {
			p := int(ipiv[r]) - 1
			if p == r {
				continue
			}
			for c := 0; c < nrhs; c++ {
				b[r+c*ldb], b[p+c*ldb] = b[p+c*ldb], b[r+c*ldb]
			}
		}
		for c := 0; c < nrhs; c++ {
			col := b[c*ldb : c*ldb+n]
			// L·Y = B, unit lower triangle, forward substitution.
			for i := 1; i < n; i++ {
				for j := 0; j < i; j++ {
					col[i] -= a[i+j*lda] * col[j]
				}
			}
			// U·X = Y, backward substitution.
			for i := n - 1; i >= 0; i-- {
				for j := i + 1; j < n; j++ {
					col[i] -= a[i+j*lda] * col[j]
				}
				col[i] /= a[i+i*lda]
			}
		}
		return 0
	}

	cj := func(x T) T { return x }
	if trans == ConjTrans {
		cj = o.conj
	}
	for c := 0; c < nrhs; c++ {
		col := b[c*ldb : c*ldb+n]
		// op(U)·Y = B: op(U) is lower triangular, forward substitution.
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				col[i] -= cj(a[j+i*lda]) * col[j]
			}
			col[i] /= cj(a[i+i*lda])
		}
		// op(L)·Z = Y: op(L) is unit upper triangular, backward.
		for i := n - 2; i >= 0; i-- {
			for j := i + 1; j < n; j++ {
				col[i] -= cj(a[j+i*lda]) * col[j]
			}
		}
	}
	// X ← P·Z: replay the interchanges in descending order.
	for r := n - 1; r >= 0; r-- {
		p := int(ipiv[r]) - 1
		if p == r {
			continue
		}
		for c := 0; c < nrhs; c++ {
			b[r+c*ldb], b[p+c*ldb] = b[p+c*ldb], b[r+c*ldb]
		}
	}
	return 0
}
