package signal

import (
	"fmt"
	"math"
)

// ECGConfig describes a synthetic recording. Amplitudes are in millivolts.
type ECGConfig struct {
	HeartRate float64 // beats per minute
	Amplitude float64 // R-wave height

	WanderHz  float64 // baseline wander frequency
	WanderAmp float64

	HumHz  float64 // powerline interference frequency
	HumAmp float64

	NoiseAmp float64
}

// DefaultECGConfig is a 60 bpm trace with 0.2 Hz wander, 50 Hz hum and a
// little broadband noise.
func DefaultECGConfig() ECGConfig {
	return ECGConfig{
		HeartRate: 60,
		Amplitude: 1,
		WanderHz:  0.2,
		WanderAmp: 0.3,
		HumHz:     50,
		HumAmp:    0.1,
		NoiseAmp:  0.02,
	}
}

// wave is one Gaussian component of a beat, placed at phase theta (radians,
// R peak at 0) with width b and relative height a.
type wave struct {
	theta, a, b float64
}

// P, Q, R, S and T waves.
var beatWaves = [...]wave{
	{-math.Pi / 3, 1.2, 0.25},
	{-math.Pi / 12, -5, 0.1},
	{0, 30, 0.1},
	{math.Pi / 12, -7.5, 0.1},
	{math.Pi / 2, 0.75, 0.4},
}

// Beat evaluates the clean beat template at phase theta in [-pi, pi),
// normalized to an R height of 1.
func Beat(theta float64) float64 {
	var v float64
	for _, w := range beatWaves {
		d := math.Remainder(theta-w.theta, 2*math.Pi)
		v += w.a * math.Exp(-d*d/(2*w.b*w.b))
	}
	return v / beatWaves[2].a
}

// CleanECG generates the beat train alone.
func (g *Generator) CleanECG(cfg ECGConfig, samples int) ([]float64, error) {
	if err := g.check(samples); err != nil {
		return nil, err
	}
	if !(cfg.HeartRate > 0) {
		return nil, fmt.Errorf("heart rate must be > 0: %f", cfg.HeartRate)
	}

	beatHz := cfg.HeartRate / 60
	out := make([]float64, samples)
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		phase := math.Mod(t*beatHz, 1)
		out[i] = cfg.Amplitude * Beat(2*math.Pi*phase-math.Pi)
	}
	return out, nil
}

// ECG generates a beat train with baseline wander, powerline hum and noise
// added. Each component is deterministic for a given seed.
func (g *Generator) ECG(cfg ECGConfig, samples int) ([]float64, error) {
	out, err := g.CleanECG(cfg, samples)
	if err != nil {
		return nil, err
	}

	add := func(x []float64, err error) error {
		if err != nil {
			return err
		}
		for i := range out {
			out[i] += x[i]
		}
		return nil
	}

	if cfg.WanderAmp != 0 {
		if err := add(g.Sine(cfg.WanderHz, cfg.WanderAmp, samples)); err != nil {
			return nil, err
		}
	}
	if cfg.HumAmp != 0 {
		if cfg.HumHz >= g.cfg.SampleRate/2 {
			return nil, fmt.Errorf("hum frequency %f Hz must be below Nyquist", cfg.HumHz)
		}
		if err := add(g.Sine(cfg.HumHz, cfg.HumAmp, samples)); err != nil {
			return nil, err
		}
	}
	if cfg.NoiseAmp != 0 {
		if err := add(g.WhiteNoise(cfg.NoiseAmp, samples)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
