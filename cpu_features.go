package gulu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks available CPU instruction set extensions.
type CPUFeatures struct {
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasSSE4    bool
	HasNEON    bool
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct.
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasNEON:    cpu.ARM64.HasASIMD,
	}
}

// GetCPUFeatures returns the detected CPU features.
func GetCPUFeatures() CPUFeatures {
	return cpuFeatures
}

// vectorISA names the widest detected vector extension.
func vectorISA() string {
	switch {
	case cpuFeatures.HasAVX512F:
		return "AVX512"
	case cpuFeatures.HasAVX2:
		return "AVX2"
	case cpuFeatures.HasAVX:
		return "AVX"
	case cpuFeatures.HasSSE4:
		return "SSE4"
	case cpuFeatures.HasNEON:
		return "NEON"
	}
	return "scalar"
}

// deviceName builds the human-readable device description.
func deviceName() string {
	return fmt.Sprintf("CPU (%s/%s, %s)", runtime.GOOS, runtime.GOARCH, vectorISA())
}
