// Package solver abstracts the dense factorization/solve primitive that the
// linalg package orchestrates. Backends provide getrf/getrs-style entry
// points for the four supported element types; the primitive operates on
// column-major buffers and reports 1-origin pivot indices and LAPACK-style
// status codes. A CPU reference backend is registered by default; an
// accelerator-backed implementation can be swapped in with Register.
package solver

import (
	"errors"
	"fmt"
	"sync"

	"gulu"
)

// Status is the primitive's result code: 0 means success, -k means the k-th
// argument was invalid, and +k means the factorization completed but found
// an exactly-zero pivot at 1-origin diagonal position k.
type Status int32

// OK reports whether the operation succeeded without diagnostics.
func (s Status) OK() bool { return s == 0 }

// BadArg returns the 1-origin index of the offending argument, or 0 when
// the status does not indicate an argument error.
func (s Status) BadArg() int {
	if s < 0 {
		return int(-s)
	}
	return 0
}

// SingularAt returns the 1-origin diagonal position of the first exactly
// zero pivot, or 0 when the factorization found none.
func (s Status) SingularAt() int {
	if s > 0 {
		return int(s)
	}
	return 0
}

func (s Status) String() string {
	switch {
	case s == 0:
		return "ok"
	case s < 0:
		return fmt.Sprintf("bad argument %d", -s)
	default:
		return fmt.Sprintf("singular at diagonal %d", s)
	}
}

// Trans selects the system variant solved against a factorization.
type Trans uint8

const (
	NoTrans   Trans = iota // solve A·X = B
	TransT                 // solve Aᵀ·X = B
	ConjTrans              // solve Aᴴ·X = B
)

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Description string
}

// Backend is implemented by factorization/solve primitives. All buffers are
// column-major with the given leading dimension. Pivot buffers use the
// primitive's native 1-origin convention.
//
// Argument numbering for negative statuses is 1-origin over the operation's
// parameter list starting at m (Factorize) or trans (Solve).
type Backend interface {
	Info() BackendInfo

	// WorkspaceSize reports the scratch buffer size in bytes that
	// Factorize requires for an (m, n) matrix of the given element type.
	WorkspaceSize(dt gulu.Dtype, m, n int) (int, error)

	// Factorize computes the packed LU factorization of the m×n matrix in
	// a, in place, with partial pivoting. ipiv receives min(m, n) 1-origin
	// incremental row-swap indices. A positive status reports a singular
	// matrix; the packed output is still written and may contain
	// non-finite values.
	Factorize(h *Handle, dt gulu.Dtype, m, n int, a gulu.DevicePtr, lda int, work gulu.DevicePtr, ipiv []int32) Status

	// Solve solves op(A)·X = B against the packed factorization in a,
	// overwriting the n×nrhs right-hand side b with the solution.
	Solve(h *Handle, dt gulu.Dtype, trans Trans, n, nrhs int, a gulu.DevicePtr, lda int, ipiv []int32, b gulu.DevicePtr, ldb int) Status
}

// ErrNoBackend is returned when no backend is registered.
var ErrNoBackend = errors.New("solver: no backend registered")

// ErrUnsupportedType is returned for element types outside the four the
// primitive supports.
var ErrUnsupportedType = errors.New("solver: unsupported element type")

var (
	backendMu sync.RWMutex
	backend   Backend = newCPUBackend()
)

// Register installs a backend, replacing the current one. Passing nil
// restores the CPU reference backend.
func Register(b Backend) {
	backendMu.Lock()
	if b == nil {
		b = newCPUBackend()
	}
	backend = b
	backendMu.Unlock()
}

// CurrentBackendInfo reports the registered backend.
func CurrentBackendInfo() BackendInfo {
	return getBackend().Info()
}

func getBackend() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}

// Handle is a device-bound, reusable connection to the primitive. Its
// lifecycle is managed by the caller; the numeric core only uses it.
// Multiple operations may share a handle; the backend entry points are safe
// for concurrent use on read-only factorizations.
type Handle struct {
	ctx     *gulu.Context
	stream  *gulu.Stream
	backend Backend
}

// NewHandle binds a handle to the given context using the registered
// backend. A nil context selects the default context.
func NewHandle(ctx *gulu.Context) (*Handle, error) {
	if ctx == nil {
		ctx = gulu.DefaultContext()
	}
	b := getBackend()
	if b == nil {
		return nil, ErrNoBackend
	}
	return &Handle{
		ctx:     ctx,
		stream:  ctx.DefaultStream(),
		backend: b,
	}, nil
}

// Context returns the execution context the handle is bound to.
func (h *Handle) Context() *gulu.Context { return h.ctx }

// Stream returns the stream backend operations are ordered on.
func (h *Handle) Stream() *gulu.Stream { return h.stream }

// Backend returns the primitive implementation behind the handle.
func (h *Handle) Backend() Backend { return h.backend }
