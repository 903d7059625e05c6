package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func sineAt(freq, rate float64, n int) []float64 {
	return testutil.DeterministicSine(freq, rate, 1, n)
}

func TestNewForRatesRatio(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{360, 500, 25, 18},
		{1000, 500, 1, 2},
		{500, 1000, 2, 1},
		{250, 360, 36, 25},
		{128, 250, 125, 64},
	}
	for _, tt := range tests {
		r, err := NewForRates(tt.in, tt.out)
		if err != nil {
			t.Fatalf("NewForRates(%v, %v): %v", tt.in, tt.out, err)
		}
		up, down := r.Ratio()
		if up != tt.up || down != tt.down {
			t.Errorf("%v -> %v: ratio %d/%d, want %d/%d", tt.in, tt.out, up, down, tt.up, tt.down)
		}
	}
}

func TestOptions(t *testing.T) {
	r, err := NewForRates(44100, 48000)
	if err != nil {
		t.Fatal(err)
	}
	if up, down := r.Ratio(); up != 160 || down != 147 {
		t.Errorf("default ratio %d/%d, want 160/147", up, down)
	}
	if r.Quality() != QualityBalanced {
		t.Errorf("default quality %v, want balanced", r.Quality())
	}

	if up, down := approximateRatio(48000.0/44100, 16); up != 12 || down != 11 {
		t.Errorf("ratio capped at 16: %d/%d, want 12/11", up, down)
	}

	r, err = NewForRates(44100, 48000, WithQuality(QualityFast))
	if err != nil {
		t.Fatal(err)
	}
	if r.Quality() != QualityFast {
		t.Errorf("quality %v, want fast", r.Quality())
	}
	if got, want := len(r.taps), QualityProfile(QualityFast).TapsPerPhase*160+1; got != want {
		t.Errorf("taps = %d, want %d", got, want)
	}
}

func TestInvalidArguments(t *testing.T) {
	if _, err := NewRational(0, 1); !errors.Is(err, ErrInvalidRatio) {
		t.Errorf("NewRational(0, 1) err = %v", err)
	}
	for _, rates := range [][2]float64{{0, 500}, {500, -1}, {math.NaN(), 500}, {math.Inf(1), 500}} {
		if _, err := NewForRates(rates[0], rates[1]); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("NewForRates(%v, %v) err = %v", rates[0], rates[1], err)
		}
	}
}

func TestApplyTracksTone(t *testing.T) {
	tests := []struct {
		name      string
		in, out   float64
		freq      float64
		n, margin int
	}{
		{"360 to 500", 360, 500, 5, 720, 64},
		{"1000 to 500", 1000, 500, 10, 1000, 20},
		{"500 to 1000", 500, 1000, 10, 500, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewForRates(tt.in, tt.out)
			if err != nil {
				t.Fatal(err)
			}
			y := r.Apply(sineAt(tt.freq, tt.in, tt.n))
			if len(y) != r.OutputLen(tt.n) {
				t.Fatalf("len = %d, want %d", len(y), r.OutputLen(tt.n))
			}
			want := sineAt(tt.freq, tt.out, len(y))
			for m := tt.margin; m < len(y)-tt.margin; m++ {
				if d := math.Abs(y[m] - want[m]); d > 1e-3 {
					t.Fatalf("y[%d] = %.6f, want %.6f", m, y[m], want[m])
				}
			}
		})
	}
}

func TestApplyKeepsBaseline(t *testing.T) {
	for _, rates := range [][2]float64{{360, 500}, {1000, 500}, {500, 1000}} {
		y, err := Convert(testutil.DC(1.5, 100), rates[0], rates[1])
		if err != nil {
			t.Fatal(err)
		}
		for m, v := range y {
			if math.Abs(v-1.5) > 1e-3 {
				t.Fatalf("%v -> %v: y[%d] = %v", rates[0], rates[1], m, v)
			}
		}
	}
}

func TestApplyRejectsAlias(t *testing.T) {
	// 400 Hz would fold onto 100 Hz at 500 Hz.
	y, err := Convert(sineAt(400, 1000, 1000), 1000, 500)
	if err != nil {
		t.Fatal(err)
	}
	if a := testutil.ToneAmplitude(y[50:450], 100, 500); a > 1e-2 {
		t.Errorf("aliased amplitude = %v", a)
	}
}

func TestConvertSameRateCopies(t *testing.T) {
	x := []float64{1, 2, 3}
	y, err := Convert(x, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	y[0] = 9
	if x[0] != 1 || len(y) != 3 {
		t.Errorf("Convert aliased its input: x=%v y=%v", x, y)
	}
	if out := (&Resampler{up: 1, down: 1}).Apply(nil); out != nil {
		t.Errorf("Apply(nil) = %v", out)
	}
}
