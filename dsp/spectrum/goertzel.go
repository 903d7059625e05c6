package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates one DFT bin of a block of samples.
//
// The analyzer accumulates every sample processed since the last Reset.
// Amplitude is exact when the block spans a whole number of cycles of the
// target frequency; otherwise leakage lowers it.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
	n          int
}

// NewGoertzel creates an analyzer for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0, g.s1, g.n = 0, 0, 0
}

// ProcessBlock feeds a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}
	g.s0, g.s1 = s0, s1
	g.n += len(input)
}

// Power returns |X[k]|^2 of the samples processed so far.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns |X[k]|.
func (g *Goertzel) Magnitude() float64 {
	p := g.Power()
	if p <= 0 {
		return 0
	}
	return math.Sqrt(p)
}

// Amplitude returns the peak amplitude of a sinusoid at the target frequency,
// 2|X[k]|/N. At DC and Nyquist it is |X[k]|/N.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}
	a := g.Magnitude() / float64(g.n)
	if g.frequency == 0 || g.frequency == g.sampleRate/2 {
		return a
	}
	return 2 * a
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// ToneAmplitude returns the amplitude of the frequency component of input.
func ToneAmplitude(input []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	g.ProcessBlock(input)
	return g.Amplitude(), nil
}

// Harmonics measures the fundamental and its integer multiples up to
// the Nyquist frequency, at most count of them.
type Harmonics struct {
	analyzers []*Goertzel
}

// NewHarmonics creates analyzers for fundamental, 2*fundamental, ...
func NewHarmonics(fundamental float64, count int, sampleRate float64) (*Harmonics, error) {
	if count <= 0 {
		return nil, fmt.Errorf("goertzel: harmonic count must be > 0: %d", count)
	}
	if !(fundamental > 0) {
		return nil, fmt.Errorf("goertzel: fundamental must be > 0: %v", fundamental)
	}

	h := &Harmonics{}
	for k := 1; k <= count; k++ {
		f := fundamental * float64(k)
		if f >= sampleRate/2 {
			break
		}
		g, err := NewGoertzel(f, sampleRate)
		if err != nil {
			return nil, err
		}
		h.analyzers = append(h.analyzers, g)
	}
	if len(h.analyzers) == 0 {
		return nil, fmt.Errorf("goertzel: fundamental %v Hz is at or above Nyquist", fundamental)
	}
	return h, nil
}

// ProcessBlock feeds every analyzer.
func (h *Harmonics) ProcessBlock(input []float64) {
	for _, g := range h.analyzers {
		g.ProcessBlock(input)
	}
}

// Frequencies returns the analysed frequencies.
func (h *Harmonics) Frequencies() []float64 {
	out := make([]float64, len(h.analyzers))
	for i, g := range h.analyzers {
		out[i] = g.Frequency()
	}
	return out
}

// Amplitudes returns the amplitude at each frequency.
func (h *Harmonics) Amplitudes() []float64 {
	out := make([]float64, len(h.analyzers))
	for i, g := range h.analyzers {
		out[i] = g.Amplitude()
	}
	return out
}

// Reset clears all analyzers.
func (h *Harmonics) Reset() {
	for _, g := range h.analyzers {
		g.Reset()
	}
}
