package spectrum

import (
	"fmt"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ecg/dsp/window"
)

// Periodogram is a one-sided power spectrum.
//
// Power[k] is the power of the bin at k*BinHz, scaled so that summing the
// bins of a band gives the mean-square signal power in that band.
type Periodogram struct {
	BinHz float64
	Power []float64
}

// NewPeriodogram computes the spectrum of x windowed by win. The FFT length is
// the next power of two at or above len(x); the input is zero padded.
func NewPeriodogram(x []float64, sampleRate float64, win window.Type) (Periodogram, error) {
	if len(x) < 2 {
		return Periodogram{}, fmt.Errorf("periodogram: need at least 2 samples: %d", len(x))
	}
	if !(sampleRate > 0) {
		return Periodogram{}, fmt.Errorf("periodogram: sample rate must be > 0: %v", sampleRate)
	}

	n := nextPowerOf2(len(x))
	coeffs := window.Generate(win, len(x), window.WithPeriodic())
	windowed, err := window.ApplyCoefficients(x, coeffs)
	if err != nil {
		return Periodogram{}, err
	}

	in := make([]complex128, n)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Periodogram{}, fmt.Errorf("periodogram: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return Periodogram{}, fmt.Errorf("periodogram: %w", err)
	}

	half := n/2 + 1
	power := Power(out[:half])

	// Mean-square scaling: |X|^2 / (nfft * sum(w^2)), doubled for the folded
	// negative frequencies.
	var sumSq float64
	for _, w := range coeffs {
		sumSq += w * w
	}
	scale := 1 / (float64(n) * sumSq)
	for k := range power {
		s := 2 * scale
		if k == 0 || k == half-1 {
			s = scale
		}
		power[k] *= s
	}

	return Periodogram{BinHz: sampleRate / float64(n), Power: power}, nil
}

// BandPower returns the summed power of the bins whose centre lies in
// [lo, hi] Hz.
func (p Periodogram) BandPower(lo, hi float64) float64 {
	if p.BinHz <= 0 || hi < lo {
		return 0
	}
	sum := 0.0
	for k, v := range p.Power {
		f := float64(k) * p.BinHz
		if f >= lo && f <= hi {
			sum += v
		}
	}
	return sum
}

// TotalPower returns the sum of all bins.
func (p Periodogram) TotalPower() float64 {
	return p.BandPower(0, float64(len(p.Power))*p.BinHz)
}

// Power returns |X[k]|^2 for each complex bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Power(out, re, im)
	return out
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
