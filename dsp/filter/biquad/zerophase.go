package biquad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/core"
)

// ErrSignalTooShort is returned by FiltFilt when the input cannot hold the
// edge padding the cascade needs.
var ErrSignalTooShort = errors.New("biquad: signal too short for zero-phase filtering")

// PadLen returns the number of samples FiltFilt mirrors onto each edge of the
// input: three times the number of taps of the cascade. Trailing first-order
// sections do not contribute their missing tap.
func PadLen(coeffs []Coefficients) int {
	if len(coeffs) == 0 {
		return 0
	}

	firstOrder := 0
	for _, c := range coeffs {
		if c.IsFirstOrder() {
			firstOrder++
		}
	}

	taps := 2*len(coeffs) + 1 - firstOrder
	return 3 * taps
}

// FiltFilt applies the cascade described by coeffs forward and then backward
// over x and returns a new slice; x is not modified.
//
// Output sample i is aligned with input sample i: the phase responses of the
// two passes cancel and the magnitude response is squared. The input is
// extended at both ends by PadLen samples of odd (point-symmetric) reflection
// and every section starts from its steady state for the first sample, which
// keeps edge transients small.
func FiltFilt(coeffs []Coefficients, x []float64) ([]float64, error) {
	if len(coeffs) == 0 {
		return core.Clone(x), nil
	}

	padLen := PadLen(coeffs)
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrSignalTooShort, len(x), padLen)
	}

	ext := oddExtend(x, padLen)
	chain := NewChain(coeffs)

	chain.SettleTo(ext[0])
	chain.ProcessBlock(ext)

	core.Reverse(ext)
	chain.SettleTo(ext[0])
	chain.ProcessBlock(ext)
	core.Reverse(ext)

	out := make([]float64, len(x))
	copy(out, ext[padLen:padLen+len(x)])
	return out, nil
}

// oddExtend returns x with n samples of point-symmetric reflection about the
// first and last samples prepended and appended.
func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, len(x)+2*n)

	for i := 0; i < n; i++ {
		ext[i] = 2*x[0] - x[n-i]
	}

	copy(ext[n:], x)

	for i := 1; i <= n; i++ {
		ext[n+last+i] = 2*x[last] - x[last-i]
	}

	return ext
}
