// Package window generates analysis windows for spectral measurements of ECG
// traces.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var errMismatchedLength = errors.New("window: samples and coefficients must have same length")

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) { c.periodic = true }
}

// Generate returns window coefficients of the given length. A non-positive
// length yields nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = eval(t, position(i, length, cfg.periodic))
	}
	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", size)
	}
	return Generate(TypeHann, size, opts...), nil
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyCoefficients returns samples multiplied by coeffs.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}
	out := append([]float64(nil), samples...)
	vecmath.MulBlockInPlace(out, coeffs)
	return out, nil
}

// CoherentGain returns the mean of the coefficients, the amplitude scaling a
// windowed sinusoid experiences.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range coeffs {
		sum += w
	}
	return sum / float64(len(coeffs))
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errors.New("window: coefficients must not be empty")
	}

	var sum, sumSq float64
	for _, w := range coeffs {
		sum += w
		sumSq += w * w
	}
	if sum == 0 {
		return 0, errors.New("window: coherent gain is zero")
	}
	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}

// position maps sample n to [0, 1]; 1 is reached only by the symmetric form.
func position(n, size int, periodic bool) float64 {
	if size == 1 {
		return 0.5
	}
	if periodic {
		return float64(n) / float64(size)
	}
	return float64(n) / float64(size-1)
}

func eval(t Type, x float64) float64 {
	c := math.Cos(2 * math.Pi * x)
	switch t {
	case TypeHann:
		return 0.5 - 0.5*c
	case TypeHamming:
		return 0.54 - 0.46*c
	case TypeBlackman:
		return 0.42 - 0.5*c + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}
