package pass

import (
	"math"

	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
)

// sectionQs returns the quality factors of the order/2 conjugate pole pairs
// of an analog Butterworth prototype, smallest first.
func sectionQs(order int) []float64 {
	qs := make([]float64, 0, order/2)
	for k := order/2 - 1; k >= 0; k-- {
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		qs = append(qs, 1/(2*math.Sin(theta)))
	}
	return qs
}

// firstOrder is the bilinear transform of the real pole left over by odd
// orders. freq must already be validated.
func firstOrder(resp Response, freq, sampleRate float64) biquad.Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	c := biquad.Coefficients{A1: (k - 1) * norm}
	if resp == Highpass {
		c.B0, c.B1 = norm, -norm
	} else {
		c.B0, c.B1 = k*norm, k*norm
	}
	return c
}
