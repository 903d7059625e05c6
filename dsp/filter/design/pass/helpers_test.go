package pass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
)

func mustDesign(t *testing.T, resp Response, freq float64, order int, sampleRate float64) []biquad.Coefficients {
	t.Helper()
	sections, err := Butterworth(resp, freq, order, sampleRate)
	if err != nil {
		t.Fatalf("Butterworth(%d, %v, %d, %v): %v", resp, freq, order, sampleRate, err)
	}
	return sections
}

// poleRadius returns the largest pole magnitude of c, the roots of
// z^2 + A1 z + A2.
func poleRadius(c biquad.Coefficients) float64 {
	sq := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))
	a1 := complex(c.A1, 0)
	return math.Max(cmplx.Abs((-a1+sq)/2), cmplx.Abs((-a1-sq)/2))
}
