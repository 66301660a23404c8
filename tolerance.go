// Package gulu tolerance-based verification for floating-point comparisons.
package gulu

import (
	"math"
	"math/cmplx"
)

// ToleranceConfig defines tolerance parameters for floating-point
// comparison.
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// CheckNaN determines if NaN values should be considered equal
	CheckNaN bool

	// CheckInf determines if Inf values should be considered equal
	CheckInf bool
}

// DefaultTolerance returns the default tolerance configuration, suitable
// for single-precision results.
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-5,
		RelTol:   1e-4,
		CheckNaN: true,
		CheckInf: true,
	}
}

// StrictTolerance returns a tolerance configuration for double-precision
// results.
func StrictTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol:   1e-10,
		RelTol:   1e-9,
		CheckNaN: true,
		CheckInf: true,
	}
}

// ToleranceFor returns the tolerance configuration appropriate for results
// computed in the given element type.
func ToleranceFor(dt Dtype) ToleranceConfig {
	switch dt {
	case Float64, Complex128:
		return StrictTolerance()
	default:
		return DefaultTolerance()
	}
}

// NearEqual checks if two float64 values are equal within tolerance.
func NearEqual(a, b float64, tol ToleranceConfig) bool {
	if tol.CheckNaN && math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if tol.CheckInf {
		if math.IsInf(a, 1) && math.IsInf(b, 1) {
			return true
		}
		if math.IsInf(a, -1) && math.IsInf(b, -1) {
			return true
		}
	}

	// Exactly equal (handles ±0)
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	// A non-finite difference never satisfies a tolerance; without this
	// guard Inf <= Inf*RelTol would hold below.
	if math.IsInf(diff, 0) || math.IsNaN(diff) {
		return false
	}
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*tol.RelTol
}

// NearEqualComplex checks if two complex128 values are equal within
// tolerance, comparing by modulus of the difference.
func NearEqualComplex(a, b complex128, tol ToleranceConfig) bool {
	if tol.CheckNaN && cmplx.IsNaN(a) && cmplx.IsNaN(b) {
		return true
	}
	if tol.CheckInf && cmplx.IsInf(a) && cmplx.IsInf(b) {
		return true
	}
	if a == b {
		return true
	}

	diff := cmplx.Abs(a - b)
	if math.IsInf(diff, 0) || math.IsNaN(diff) {
		return false
	}
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(cmplx.Abs(a), cmplx.Abs(b))
	return diff <= larger*tol.RelTol
}

// Float32NearEqual checks if two float32 values are equal within tolerance.
func Float32NearEqual(a, b float32, tol ToleranceConfig) bool {
	return NearEqual(float64(a), float64(b), tol)
}
