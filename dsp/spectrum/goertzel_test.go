package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func TestGoertzelAmplitude(t *testing.T) {
	const rate = 1000.0

	tests := []struct {
		name  string
		input []float64
		freq  float64
		want  float64
	}{
		{"pure 50 Hz", testutil.DeterministicSine(50, rate, 1.5, 1000), 50, 1.5},
		{"50 Hz in mix", testutil.ToneMix(rate, 1000,
			testutil.Tone{FreqHz: 10, Amplitude: 3},
			testutil.Tone{FreqHz: 50, Amplitude: 0.25}), 50, 0.25},
		{"absent tone", testutil.DeterministicSine(10, rate, 1, 1000), 60, 0},
		{"dc", testutil.DC(0.7, 500), 0, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToneAmplitude(tt.input, tt.freq, rate)
			if err != nil {
				t.Fatalf("ToneAmplitude: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("amplitude = %.12f, want %.12f", got, tt.want)
			}
		})
	}
}

func TestGoertzelMatchesDFT(t *testing.T) {
	const rate = 500.0
	x := testutil.DeterministicNoise(3, 1, 777)

	got, err := ToneAmplitude(x, 50, rate)
	if err != nil {
		t.Fatal(err)
	}
	want := testutil.ToneAmplitude(x, 50, rate)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("goertzel %.12f, dft %.12f", got, want)
	}
}

func TestGoertzelBlocksAccumulate(t *testing.T) {
	x := testutil.DeterministicSine(25, 1000, 1, 1000)

	whole, err := NewGoertzel(25, 1000)
	if err != nil {
		t.Fatal(err)
	}
	whole.ProcessBlock(x)

	split, _ := NewGoertzel(25, 1000)
	split.ProcessBlock(x[:333])
	split.ProcessBlock(x[333:])

	if math.Abs(whole.Power()-split.Power()) > 1e-6 {
		t.Fatalf("power differs: %v vs %v", whole.Power(), split.Power())
	}

	split.Reset()
	if split.Amplitude() != 0 {
		t.Fatalf("amplitude after reset = %v", split.Amplitude())
	}
}

func TestNewGoertzelErrors(t *testing.T) {
	tests := []struct {
		name       string
		freq, rate float64
	}{
		{"zero rate", 50, 0},
		{"nan rate", 50, math.NaN()},
		{"above nyquist", 600, 1000},
		{"negative freq", -1, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGoertzel(tt.freq, tt.rate); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHarmonics(t *testing.T) {
	const rate = 1000.0

	h, err := NewHarmonics(50, 20, rate)
	if err != nil {
		t.Fatal(err)
	}

	freqs := h.Frequencies()
	if len(freqs) != 9 {
		t.Fatalf("got %d harmonics below Nyquist, want 9", len(freqs))
	}
	if freqs[0] != 50 || freqs[8] != 450 {
		t.Fatalf("frequencies = %v", freqs)
	}

	h.ProcessBlock(testutil.ToneMix(rate, 1000,
		testutil.Tone{FreqHz: 50, Amplitude: 1},
		testutil.Tone{FreqHz: 150, Amplitude: 0.5}))

	amps := h.Amplitudes()
	want := []float64{1, 0, 0.5, 0, 0, 0, 0, 0, 0}
	for i := range want {
		if math.Abs(amps[i]-want[i]) > 1e-9 {
			t.Fatalf("harmonic %d amplitude = %v, want %v", i+1, amps[i], want[i])
		}
	}

	if _, err := NewHarmonics(600, 3, rate); err == nil {
		t.Fatal("expected error for fundamental above Nyquist")
	}
	if _, err := NewHarmonics(50, 0, rate); err == nil {
		t.Fatal("expected error for zero count")
	}
}
