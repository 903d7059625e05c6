package core

import "math"

// Clamp limits value to the inclusive range spanned by lo and hi, in either
// order.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(value, lo), hi)
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// LinearToDB converts an amplitude ratio to dB (20*log10).
// Zero maps to -Inf and negative values to NaN.
func LinearToDB(linear float64) float64 {
	return decibels(linear, 20)
}

// LinearPowerToDB converts a power ratio to dB (10*log10).
// Zero maps to -Inf and negative values to NaN.
func LinearPowerToDB(power float64) float64 {
	return decibels(power, 10)
}

func decibels(v, scale float64) float64 {
	if v < 0 {
		return math.NaN()
	}
	return scale * math.Log10(v)
}
