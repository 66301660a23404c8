// Package gulu provides dense LU factorization and solving of linear
// systems on a CUDA-style CPU execution substrate.
//
// The root package is the substrate: devices, contexts, streams, device
// memory, and data-parallel kernel launch. The numeric core lives in the
// subpackages:
//
//   - solver: the external factorization/solve primitive (getrf/getrs
//     analogue) behind a pluggable backend interface, with a CPU
//     reference backend.
//   - linalg: the user-facing Factorize / ExtractFactors / Solve pipeline
//     together with the data-parallel kernels that split a packed LU
//     buffer into explicit triangular factors and replay pivot swaps.
//
// Matrices are precision-polymorphic over four element types: float32,
// float64, complex64, and complex128.
package gulu
