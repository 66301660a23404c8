package linalg

import (
	"math"

	"gulu"
)

// ensureFinite fails with a NonFinite error when any element of m is NaN or
// infinite. Read-only; complex elements are checked component-wise.
func ensureFinite(op string, m *Matrix, msg string) error {
	n := m.Rows * m.Cols
	finite := true
	switch m.Dtype {
	case gulu.Float32:
		for _, v := range m.Data.Float32()[:n] {
			if !finite64(float64(v)) {
				finite = false
				break
			}
		}
	case gulu.Float64:
		for _, v := range m.Data.Float64()[:n] {
			if !finite64(v) {
				finite = false
				break
			}
		}
	case gulu.Complex64:
		for _, v := range m.Data.Complex64()[:n] {
			if !finite64(float64(real(v))) || !finite64(float64(imag(v))) {
				finite = false
				break
			}
		}
	default:
		for _, v := range m.Data.Complex128()[:n] {
			if !finite64(real(v)) || !finite64(imag(v)) {
				finite = false
				break
			}
		}
	}
	if finite {
		return nil
	}
	return newNonFinite(op, msg)
}

func finite64(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
