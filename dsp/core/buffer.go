package core

import "math"

// Clone returns an independent copy of buf. A nil or empty input yields nil.
func Clone(buf []float64) []float64 {
	if len(buf) == 0 {
		return nil
	}
	out := make([]float64, len(buf))
	copy(out, buf)
	return out
}

// Reverse reverses buf in place.
func Reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// FirstNonFinite returns the index of the first NaN or Inf value in buf,
// or -1 when every value is finite.
func FirstNonFinite(buf []float64) int {
	for i, v := range buf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
