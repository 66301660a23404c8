package linalg

import (
	"gulu"
)

// launch1D runs fn once per index in [0, total) and waits for completion.
func launch1D(ctx *gulu.Context, total int, fn gulu.KernelFunc) error {
	bd := gulu.DefaultBlockSize
	grid := gulu.Dim3{X: (total + bd - 1) / bd, Y: 1, Z: 1}
	block := gulu.Dim3{X: bd, Y: 1, Z: 1}
	if err := ctx.LaunchFunc(fn, grid, block); err != nil {
		return err
	}
	return ctx.Synchronize()
}

// relayoutKernel copies a rows×cols matrix between storage orders, one task
// per element.
func relayoutKernel[T any](src, dst []T, rows, cols int, srcOrder, dstOrder Order) gulu.KernelFunc {
	return func(tid gulu.ThreadID, _ ...interface{}) {
		i := tid.Global()
		if i >= rows*cols {
			return
		}
		r, c := i/cols, i%cols
		si := r*cols + c
		if srcOrder == ColMajor {
			si = r + c*rows
		}
		di := r*cols + c
		if dstOrder == ColMajor {
			di = r + c*rows
		}
		dst[di] = src[si]
	}
}

// asOrder returns a matrix with m's contents in the requested order.
// When m already complies, reuse selects between aliasing m's storage
// (a fresh header sharing the buffer) and a private copy. Otherwise a new
// buffer is allocated and filled by the relayout kernel.
func asOrder(ctx *gulu.Context, m *Matrix, order Order, reuse bool) (*Matrix, error) {
	if m.Order == order && reuse {
		alias := *m
		return &alias, nil
	}

	out, err := NewMatrix(ctx, m.Dtype, m.Rows, m.Cols, order)
	if err != nil {
		return nil, err
	}
	if m.Order == order {
		err = ctx.Memcpy(out.Data, m.Data, m.Rows*m.Cols*m.Dtype.Size(), gulu.MemcpyDeviceToDevice)
		if err != nil {
			out.Free(ctx)
			return nil, err
		}
		return out, nil
	}

	total := m.Rows * m.Cols
	var fn gulu.KernelFunc
	switch m.Dtype {
	case gulu.Float32:
		fn = relayoutKernel(m.Data.Float32(), out.Data.Float32(), m.Rows, m.Cols, m.Order, order)
	case gulu.Float64:
		fn = relayoutKernel(m.Data.Float64(), out.Data.Float64(), m.Rows, m.Cols, m.Order, order)
	case gulu.Complex64:
		fn = relayoutKernel(m.Data.Complex64(), out.Data.Complex64(), m.Rows, m.Cols, m.Order, order)
	default:
		fn = relayoutKernel(m.Data.Complex128(), out.Data.Complex128(), m.Rows, m.Cols, m.Order, order)
	}
	if err := launch1D(ctx, total, fn); err != nil {
		out.Free(ctx)
		return nil, err
	}
	return out, nil
}
