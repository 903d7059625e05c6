package design

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
)

func TestNotch_ZeroAtCenter(t *testing.T) {
	c := Notch(50, 30, 1000)

	if got := c.MagnitudeSquared(50, 1000); got > 1e-20 {
		t.Fatalf("|H(50 Hz)|^2 = %v, want 0", got)
	}

	if got := c.MagnitudeDB(0, 1000); math.Abs(got) > 1e-9 {
		t.Fatalf("|H(0)| = %v dB, want 0", got)
	}

	if got := c.MagnitudeDB(500, 1000); math.Abs(got) > 1e-9 {
		t.Fatalf("|H(Nyquist)| = %v dB, want 0", got)
	}
}

func TestNotch_Bandwidth(t *testing.T) {
	// With Q=30 the -3 dB band is about 50/30 Hz wide.
	c := Notch(50, 30, 1000)
	halfBW := 50.0 / 30 / 2

	for _, f := range []float64{50 - halfBW, 50 + halfBW} {
		got := c.MagnitudeDB(f, 1000)
		if math.Abs(got+3.01) > 0.1 {
			t.Fatalf("|H(%.3f Hz)| = %.3f dB, want about -3 dB", f, got)
		}
	}

	if got := c.MagnitudeDB(10, 1000); math.Abs(got) > 0.01 {
		t.Fatalf("|H(10 Hz)| = %v dB, want ~0", got)
	}
}

func TestNotch_InvalidInputs(t *testing.T) {
	zero := biquad.Coefficients{}
	tests := []struct {
		name          string
		freq, q, rate float64
	}{
		{name: "above-nyquist", freq: 60, q: 30, rate: 100},
		{name: "zero-freq", freq: 0, q: 30, rate: 1000},
		{name: "zero-q", freq: 50, q: 0, rate: 1000},
		{name: "bad-rate", freq: 50, q: 30, rate: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notch(tt.freq, tt.q, tt.rate); got != zero {
				t.Fatalf("expected zero coefficients, got %+v", got)
			}
		})
	}
}

func TestLowpassHighpass_DCAndNyquist(t *testing.T) {
	lp := Lowpass(40, defaultQ, 1000)
	hp := Highpass(40, defaultQ, 1000)

	if got := lp.DCGain(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("lowpass DC gain = %v, want 1", got)
	}
	if got := hp.DCGain(); math.Abs(got) > 1e-12 {
		t.Fatalf("highpass DC gain = %v, want 0", got)
	}
	if got := hp.MagnitudeDB(499.9, 1000); math.Abs(got) > 1e-3 {
		t.Fatalf("highpass near Nyquist = %v dB, want ~0", got)
	}
}

func TestNormalizedFrequency(t *testing.T) {
	tests := []struct {
		name    string
		freq    float64
		rate    float64
		want    float64
		wantErr bool
	}{
		{name: "highpass", freq: 0.5, rate: 1000, want: 0.001},
		{name: "lowpass", freq: 40, rate: 1000, want: 0.08},
		{name: "at-nyquist", freq: 40, rate: 80, wantErr: true},
		{name: "above-nyquist", freq: 50, rate: 80, wantErr: true},
		{name: "zero", freq: 0, rate: 1000, wantErr: true},
		{name: "negative-rate", freq: 10, rate: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizedFrequency(tt.freq, tt.rate)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFrequency) {
					t.Fatalf("expected ErrInvalidFrequency, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-15 {
				t.Fatalf("NormalizedFrequency = %v, want %v", got, tt.want)
			}
		})
	}
}
