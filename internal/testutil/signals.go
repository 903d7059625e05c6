package testutil

import (
	"math"
	"math/rand"
)

// Tone is one sinusoidal component of a test signal.
type Tone struct {
	FreqHz    float64
	Amplitude float64
}

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// ToneMix sums the given tones, all starting at phase 0.
func ToneMix(sampleRate float64, length int, tones ...Tone) []float64 {
	out := make([]float64, length)
	for _, tone := range tones {
		step := 2 * math.Pi * tone.FreqHz / sampleRate
		for i := range out {
			out[i] += tone.Amplitude * math.Sin(step*float64(i))
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates 0, 1, 2, ... length-1.
func Ramp(length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// ToneAmplitude estimates the amplitude of the freqHz component of x with a
// single-bin DFT. It is exact for tones with a whole number of cycles in x.
func ToneAmplitude(x []float64, freqHz, sampleRate float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var re, im float64
	step := 2 * math.Pi * freqHz / sampleRate
	for n, v := range x {
		re += v * math.Cos(step*float64(n))
		im -= v * math.Sin(step*float64(n))
	}
	return 2 * math.Hypot(re, im) / float64(len(x))
}
