package linalg_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gulu"
	"gulu/linalg"
)

func TestSolveRoundTrip(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(31))

	modes := []linalg.TransMode{linalg.NoTranspose, linalg.Transpose, linalg.ConjugateTranspose}

	for _, dt := range testDtypes {
		for _, mode := range modes {
			t.Run(fmt.Sprintf("%v_%v", dt, mode), func(t *testing.T) {
				const n, nrhs = 6, 2

				a := newRandom(t, dt, n, n, linalg.RowMajor, rng, true)
				defer a.Free(ctx)
				x := newRandom(t, dt, n, nrhs, linalg.ColMajor, rng, false)
				defer x.Free(ctx)
				wantX := toHost(x)

				// Build B = op(A)·X on the host so the solve is checked
				// against an independent reference.
				opA := toHost(a)
				switch mode {
				case linalg.Transpose:
					opA = conjTranspose(opA, false)
				case linalg.ConjugateTranspose:
					opA = conjTranspose(opA, true)
				}
				b := newFromHost(t, dt, linalg.ColMajor, matmul(opA, wantX))
				defer b.Free(ctx)

				f, err := linalg.Factorize(h, a, false, true)
				require.NoError(t, err)
				defer f.LU.Free(ctx)
				require.False(t, f.IsSingular())

				got, err := linalg.Solve(h, f, b, mode, false, true)
				require.NoError(t, err)
				defer got.Free(ctx)

				requireNear(t, wantX, toHost(got), dt, "solution")
			})
		}
	}
}

func TestSolveWithRowInterchanges(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()

	// A cyclic permutation pivots at every column (piv = [1, 2, 2]); the
	// solution of A·X = B is exactly Aᵀ·B, so any replay-direction mistake
	// shows up as a permuted result.
	a, err := linalg.NewFloat64(ctx, 3, 3, linalg.RowMajor, []float64{
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
	})
	require.NoError(t, err)
	defer a.Free(ctx)

	b, err := linalg.NewFloat64(ctx, 3, 1, linalg.ColMajor, []float64{1, 2, 3})
	require.NoError(t, err)
	defer b.Free(ctx)

	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)
	require.Equal(t, []int32{1, 2, 2}, f.Piv)

	x, err := linalg.Solve(h, f, b, linalg.NoTranspose, false, true)
	require.NoError(t, err)
	defer x.Free(ctx)

	want := [][]complex128{{2}, {3}, {1}}
	requireNear(t, want, toHost(x), gulu.Float64, "solution")

	// Aᵀ·X = B then has the solution A·B.
	xt, err := linalg.Solve(h, f, b, linalg.Transpose, false, true)
	require.NoError(t, err)
	defer xt.Free(ctx)

	wantT := [][]complex128{{3}, {1}, {2}}
	requireNear(t, wantT, toHost(xt), gulu.Float64, "transposed solution")
}

func TestSolveOverwriteReusesColMajorStorage(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()

	a, err := linalg.NewFloat64(ctx, 2, 2, linalg.ColMajor, []float64{4, 6, 3, 3})
	require.NoError(t, err)
	defer a.Free(ctx)
	b, err := linalg.NewFloat64(ctx, 2, 1, linalg.ColMajor, []float64{10, 12})
	require.NoError(t, err)
	defer b.Free(ctx)

	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)

	x, err := linalg.Solve(h, f, b, linalg.NoTranspose, true, true)
	require.NoError(t, err)
	assert.Equal(t, b.Data, x.Data, "column-major overwrite must solve in place")

	tol := gulu.StrictTolerance()
	assert.True(t, gulu.NearEqual(real(x.At(0, 0)), 1, tol))
	assert.True(t, gulu.NearEqual(real(x.At(1, 0)), 2, tol))
}

func TestSolveRejectsBadInput(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(32))

	a := newRandom(t, gulu.Float64, 3, 3, linalg.RowMajor, rng, true)
	defer a.Free(ctx)
	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)

	b := newRandom(t, gulu.Float64, 3, 1, linalg.ColMajor, rng, false)
	defer b.Free(ctx)

	_, err = linalg.Solve(nil, f, b, linalg.NoTranspose, false, false)
	assert.True(t, linalg.IsInvalidArgument(err))

	_, err = linalg.Solve(h, f, nil, linalg.NoTranspose, false, false)
	assert.True(t, linalg.IsInvalidArgument(err))

	_, err = linalg.Solve(h, f, b, linalg.TransMode(9), false, false)
	assert.True(t, linalg.IsInvalidArgument(err))

	short := newRandom(t, gulu.Float64, 2, 1, linalg.ColMajor, rng, false)
	defer short.Free(ctx)
	_, err = linalg.Solve(h, f, short, linalg.NoTranspose, false, false)
	assert.True(t, linalg.IsInvalidShape(err))

	mismatched := newRandom(t, gulu.Float32, 3, 1, linalg.ColMajor, rng, false)
	defer mismatched.Free(ctx)
	_, err = linalg.Solve(h, f, mismatched, linalg.NoTranspose, false, false)
	assert.True(t, linalg.IsUnsupportedType(err))
}

func TestSolveRejectsNonSquareFactorization(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(33))

	a := newRandom(t, gulu.Float64, 4, 2, linalg.RowMajor, rng, true)
	defer a.Free(ctx)
	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)

	b := newRandom(t, gulu.Float64, 4, 1, linalg.ColMajor, rng, false)
	defer b.Free(ctx)

	_, err = linalg.Solve(h, f, b, linalg.NoTranspose, false, false)
	assert.True(t, linalg.IsInvalidShape(err))
}

func TestSolveCheckFiniteRejectsSingularFactorization(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	silenceWarnings(t)

	a, err := linalg.NewFloat64(ctx, 2, 2, linalg.RowMajor, []float64{
		0, 1,
		0, 0,
	})
	require.NoError(t, err)
	defer a.Free(ctx)

	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)
	require.True(t, f.IsSingular())

	b, err := linalg.NewFloat64(ctx, 2, 1, linalg.ColMajor, []float64{1, 2})
	require.NoError(t, err)
	defer b.Free(ctx)

	// The packed factor carries NaN below the zero pivot, so a checked
	// solve fails the finiteness scan.
	_, err = linalg.Solve(h, f, b, linalg.NoTranspose, false, true)
	assert.True(t, linalg.IsNonFinite(err))
}
