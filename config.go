// Package gulu configuration constants
package gulu

// Thread and block dimensions
const (
	// Default block size for 1-D kernel launches
	DefaultBlockSize = 256

	// Maximum threads per block (CUDA compatibility)
	MaxThreadsPerBlock = 1024
)

// Memory pool parameters
const (
	// Memory alignment for allocations, matches the cache line size
	MemoryAlignment = 64

	// Free list size threshold for reuse
	FreeListThreshold = 100
)
