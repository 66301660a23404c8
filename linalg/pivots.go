package linalg

// Pivot convention translation. The primitive reports 1-origin incremental
// row-swap indices; this package stores and exposes 0-origin ones. Both
// directions return a fresh slice and never mutate the argument.

// ToZeroOrigin converts 1-origin pivot indices to 0-origin.
func ToZeroOrigin(piv []int32) []int32 {
	out := make([]int32, len(piv))
	for i, p := range piv {
		out[i] = p - 1
	}
	return out
}

// ToOneOrigin converts 0-origin pivot indices to 1-origin.
func ToOneOrigin(piv []int32) []int32 {
	out := make([]int32, len(piv))
	for i, p := range piv {
		out[i] = p + 1
	}
	return out
}
