// Package time computes time-domain amplitude statistics of ECG traces.
package time

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats holds amplitude statistics of one trace.
type Stats struct {
	Length      int
	Mean        float64 // baseline offset
	StdDev      float64 // population standard deviation
	RMS         float64
	Min         float64
	MinPos      int
	Max         float64
	MaxPos      int
	Peak        float64 // max(|Min|, |Max|)
	PeakToPeak  float64
	CrestFactor float64 // Peak / RMS, 0 for silence
}

// RMSdB returns the RMS level in dB relative to one signal unit.
func (s Stats) RMSdB() float64 {
	if s.RMS == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(s.RMS)
}

// Calculate computes all statistics of signal. An empty signal yields the
// zero value.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{}
	}

	minPos := floats.MinIdx(signal)
	maxPos := floats.MaxIdx(signal)
	minVal, maxVal := signal[minPos], signal[maxPos]

	mean := DC(signal)
	var sq float64
	for _, x := range signal {
		d := x - mean
		sq += d * d
	}

	rms := RMS(signal)
	peak := math.Max(math.Abs(minVal), math.Abs(maxVal))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:      n,
		Mean:        mean,
		StdDev:      math.Sqrt(sq / float64(n)),
		RMS:         rms,
		Min:         minVal,
		MinPos:      minPos,
		Max:         maxVal,
		MaxPos:      maxPos,
		Peak:        peak,
		PeakToPeak:  maxVal - minVal,
		CrestFactor: crest,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(signal, signal) / float64(len(signal)))
}

// DC returns the mean of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Kahan summation keeps long recordings with a large offset accurate.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum / float64(len(signal))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Min(signal)), math.Abs(floats.Max(signal)))
}

// Residual returns the RMS of a - b over the common length. It measures how
// much a filter changed a trace.
func Residual(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	d := make([]float64, n)
	floats.SubTo(d, a[:n], b[:n])
	return RMS(d)
}
