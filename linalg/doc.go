// Package linalg implements dense LU factorization, factor extraction, and
// linear system solving over the solver primitive.
//
// The pipeline is:
//
//	f, _ := linalg.Factorize(h, a, false, true)           // packed LU + pivots
//	fs, _ := linalg.ExtractFactors(h, f, false)           // explicit P, L, U
//	x, _ := linalg.Solve(h, f, b, linalg.NoTranspose, false, true)
//
// Factorization output stays in the primitive's packed column-major form;
// the extraction step reshapes it into explicit row-major triangular
// factors with data-parallel kernels launched on the execution substrate.
// Pivot indices are 0-origin everywhere in this package; translation to the
// primitive's 1-origin convention happens at the call boundary.
package linalg
