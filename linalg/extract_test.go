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

var extractShapes = []struct{ rows, cols int }{
	{4, 4},
	{5, 3},
	{3, 5},
	{1, 1},
}

func TestExtractFactorsReconstructsInput(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(21))

	for _, dt := range testDtypes {
		for _, shape := range extractShapes {
			t.Run(fmt.Sprintf("%v_%dx%d", dt, shape.rows, shape.cols), func(t *testing.T) {
				a := newRandom(t, dt, shape.rows, shape.cols, linalg.RowMajor, rng, true)
				defer a.Free(ctx)
				want := toHost(a)

				f, err := linalg.Factorize(h, a, false, true)
				require.NoError(t, err)
				defer f.LU.Free(ctx)
				require.False(t, f.IsSingular())

				out, err := linalg.ExtractFactors(h, f, false)
				require.NoError(t, err)
				defer out.P.Free(ctx)
				defer out.L.Free(ctx)
				defer out.U.Free(ctx)

				k := min(shape.rows, shape.cols)
				require.Equal(t, shape.rows, out.P.Rows)
				require.Equal(t, shape.rows, out.P.Cols)
				require.Equal(t, dt.Real(), out.P.Dtype)
				require.Equal(t, shape.rows, out.L.Rows)
				require.Equal(t, k, out.L.Cols)
				require.Equal(t, k, out.U.Rows)
				require.Equal(t, shape.cols, out.U.Cols)

				for i := 0; i < k; i++ {
					assert.Equal(t, complex(1, 0), out.L.At(i, i), "L diagonal must be unit")
					for j := i + 1; j < k; j++ {
						assert.Equal(t, complex(0, 0), out.L.At(i, j), "L must be lower trapezoidal")
					}
					for j := 0; j < i && j < shape.cols; j++ {
						assert.Equal(t, complex(0, 0), out.U.At(i, j), "U must be upper trapezoidal")
					}
				}

				got := matmul(toHost(out.P), matmul(toHost(out.L), toHost(out.U)))
				requireNear(t, want, got, dt, "P·L·U")
			})
		}
	}
}

func TestExtractFactorsPermutedL(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(22))

	for _, dt := range testDtypes {
		t.Run(dt.String(), func(t *testing.T) {
			a := newRandom(t, dt, 5, 5, linalg.RowMajor, rng, true)
			defer a.Free(ctx)
			want := toHost(a)

			f, err := linalg.Factorize(h, a, false, true)
			require.NoError(t, err)
			defer f.LU.Free(ctx)

			out, err := linalg.ExtractFactors(h, f, true)
			require.NoError(t, err)
			defer out.L.Free(ctx)
			defer out.U.Free(ctx)

			assert.Nil(t, out.P, "permuted-L mode must not build P")

			got := matmul(toHost(out.L), toHost(out.U))
			requireNear(t, want, got, dt, "(P·L)·U")
		})
	}
}

func TestExtractFactorsPermutationMatrix(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()

	// A cyclic permutation factorizes into L = U = I with overlapping
	// transpositions (piv = [1, 2, 2]), so the extracted P must reproduce
	// A itself. An ascending replay would produce Pᵀ here instead.
	a, err := linalg.NewFloat64(ctx, 3, 3, linalg.RowMajor, []float64{
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
	})
	require.NoError(t, err)
	defer a.Free(ctx)
	want := toHost(a)

	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)
	require.False(t, f.IsSingular())
	require.Equal(t, []int32{1, 2, 2}, f.Piv)

	out, err := linalg.ExtractFactors(h, f, false)
	require.NoError(t, err)
	defer out.P.Free(ctx)
	defer out.L.Free(ctx)
	defer out.U.Free(ctx)

	requireNear(t, want, toHost(out.P), gulu.Float64, "P")
	got := matmul(toHost(out.P), matmul(toHost(out.L), toHost(out.U)))
	requireNear(t, want, got, gulu.Float64, "P·L·U")

	pl, err := linalg.ExtractFactors(h, f, true)
	require.NoError(t, err)
	defer pl.L.Free(ctx)
	defer pl.U.Free(ctx)

	requireNear(t, want, matmul(toHost(pl.L), toHost(pl.U)), gulu.Float64, "(P·L)·U")
}

func TestExtractFactorsReconstructsWithPivoting(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()
	rng := rand.New(rand.NewSource(23))

	// Without diagonal dominance partial pivoting performs real row
	// interchanges, so the replay that builds P is actually exercised.
	for _, dt := range testDtypes {
		t.Run(dt.String(), func(t *testing.T) {
			a := newRandom(t, dt, 6, 6, linalg.RowMajor, rng, false)
			defer a.Free(ctx)
			want := toHost(a)

			f, err := linalg.Factorize(h, a, false, true)
			require.NoError(t, err)
			defer f.LU.Free(ctx)
			require.False(t, f.IsSingular())

			pivoted := false
			for i, p := range f.Piv {
				if int(p) != i {
					pivoted = true
				}
			}
			require.True(t, pivoted, "expected at least one row interchange, got piv=%v", f.Piv)

			out, err := linalg.ExtractFactors(h, f, false)
			require.NoError(t, err)
			defer out.P.Free(ctx)
			defer out.L.Free(ctx)
			defer out.U.Free(ctx)

			got := matmul(toHost(out.P), matmul(toHost(out.L), toHost(out.U)))
			requireNear(t, want, got, dt, "P·L·U")

			pl, err := linalg.ExtractFactors(h, f, true)
			require.NoError(t, err)
			defer pl.L.Free(ctx)
			defer pl.U.Free(ctx)

			requireNear(t, want, matmul(toHost(pl.L), toHost(pl.U)), dt, "(P·L)·U")
		})
	}
}

func TestExtractFactorsScalar(t *testing.T) {
	h := testHandle(t)
	ctx := gulu.DefaultContext()

	a, err := linalg.NewFloat64(ctx, 1, 1, linalg.ColMajor, []float64{7})
	require.NoError(t, err)
	defer a.Free(ctx)

	f, err := linalg.Factorize(h, a, false, true)
	require.NoError(t, err)
	defer f.LU.Free(ctx)
	require.Equal(t, []int32{0}, f.Piv)

	out, err := linalg.ExtractFactors(h, f, false)
	require.NoError(t, err)
	defer out.P.Free(ctx)
	defer out.L.Free(ctx)
	defer out.U.Free(ctx)

	assert.Equal(t, complex(1, 0), out.P.At(0, 0))
	assert.Equal(t, complex(1, 0), out.L.At(0, 0))
	assert.Equal(t, complex(7, 0), out.U.At(0, 0))
}

func TestExtractFactorsRejectsBadInput(t *testing.T) {
	h := testHandle(t)

	_, err := linalg.ExtractFactors(h, nil, false)
	assert.True(t, linalg.IsInvalidArgument(err))

	_, err = linalg.ExtractFactors(nil, &linalg.Factorization{}, false)
	assert.True(t, linalg.IsInvalidArgument(err))

	rowMajor := &linalg.Factorization{
		LU:  &linalg.Matrix{Rows: 2, Cols: 2, Order: linalg.RowMajor, Dtype: gulu.Float64},
		Piv: []int32{0, 1},
	}
	_, err = linalg.ExtractFactors(h, rowMajor, false)
	assert.True(t, linalg.IsInvalidShape(err))
}
