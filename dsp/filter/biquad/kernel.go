package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// blockKernel filters buf in place with one section starting from state
// (d0, d1) and returns the final state.
type blockKernel func(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64)

type kernelEntry struct {
	name  string
	level cpu.SIMDLevel
	fn    blockKernel
}

// kernels is ordered by preference. Every kernel performs the same
// operations in the same order, so outputs are bit-identical across CPUs.
var kernels = []kernelEntry{
	{"unrolled4", cpu.SIMDAVX2, processBlockUnrolled},
	{"generic", cpu.SIMDNone, processBlockGeneric},
}

var (
	activeKernel     kernelEntry
	activeKernelOnce sync.Once
)

func kernel() kernelEntry {
	activeKernelOnce.Do(func() {
		activeKernel = selectKernel(cpu.DetectFeatures())
	})
	return activeKernel
}

// KernelName returns the name of the block kernel selected for this CPU.
func KernelName() string {
	return kernel().name
}

func selectKernel(f cpu.Features) kernelEntry {
	for _, k := range kernels {
		if supports(f, k.level) {
			return k
		}
	}
	return kernels[len(kernels)-1]
}

func supports(f cpu.Features, level cpu.SIMDLevel) bool {
	if f.ForceGeneric {
		return level == cpu.SIMDNone
	}
	switch level {
	case cpu.SIMDNone:
		return true
	case cpu.SIMDSSE2:
		return f.HasSSE2
	case cpu.SIMDAVX2:
		return f.HasAVX2
	default:
		return false
	}
}

func processBlockGeneric(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}
	return d0, d1
}

// processBlockUnrolled handles four samples per iteration.
func processBlockUnrolled(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	i := 0
	for ; i+3 < len(buf); i += 4 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		d0, d1 = b1*x0-a1*y0+d1, b2*x0-a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + d0
		d0, d1 = b1*x1-a1*y1+d1, b2*x1-a2*y1

		x2 := buf[i+2]
		y2 := b0*x2 + d0
		d0, d1 = b1*x2-a1*y2+d1, b2*x2-a2*y2

		x3 := buf[i+3]
		y3 := b0*x3 + d0
		d0, d1 = b1*x3-a1*y3+d1, b2*x3-a2*y3

		buf[i], buf[i+1], buf[i+2], buf[i+3] = y0, y1, y2, y3
	}
	return processBlockGeneric(c, d0, d1, buf[i:])
}
