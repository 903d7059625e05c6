package design

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrequency reports a design frequency outside the open interval
// (0, Nyquist) for the given sample rate.
var ErrInvalidFrequency = errors.New("design: frequency must lie strictly between 0 and Nyquist")

// NormalizedFrequency returns freq / (sampleRate/2), the cutoff expressed as
// a fraction of the Nyquist frequency. It fails unless the result lies
// strictly between 0 and 1.
func NormalizedFrequency(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: sample rate %v", ErrInvalidFrequency, sampleRate)
	}

	wn := freq / (sampleRate / 2)
	if !(wn > 0 && wn < 1) {
		return 0, fmt.Errorf("%w: %v Hz at %v Hz (normalized %v)", ErrInvalidFrequency, freq, sampleRate, wn)
	}

	return wn, nil
}
