package cascade

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
	"github.com/cwbudde/algo-ecg/dsp/filter/design"
	"github.com/cwbudde/algo-ecg/dsp/filter/design/pass"
	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

const rate = 1000.0

func TestNew_DefaultStages(t *testing.T) {
	c, err := New(rate)
	if err != nil {
		t.Fatal(err)
	}

	stages := c.Stages()
	want := []struct {
		kind     StageKind
		freq     float64
		sections int
	}{
		{StageHighpass, 0.5, 2},
		{StageNotch, 50, 1},
		{StageLowpass, 40, 2},
	}

	if len(stages) != len(want) {
		t.Fatalf("stages = %d, want %d", len(stages), len(want))
	}
	for i, w := range want {
		if stages[i].Kind != w.kind || stages[i].Freq != w.freq || len(stages[i].Sections) != w.sections {
			t.Fatalf("stage %d = %v %v Hz %d sections, want %v %v Hz %d sections",
				i, stages[i].Kind, stages[i].Freq, len(stages[i].Sections), w.kind, w.freq, w.sections)
		}
	}

	if c.MinLength() != 15 {
		t.Fatalf("MinLength = %d, want 15", c.MinLength())
	}
}

func TestNew_FilterDesignErrors(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		opts  []Option
		cause error
		stage string
	}{
		{name: "lowpass-at-nyquist", rate: 80, opts: []Option{WithNotch(30, 30)}, cause: design.ErrInvalidFrequency, stage: "lowpass"},
		{name: "notch-above-nyquist", rate: 90, cause: design.ErrInvalidFrequency, stage: "notch"},
		{name: "zero-highpass", rate: rate, opts: []Option{WithHighpass(0, 4)}, cause: design.ErrInvalidFrequency, stage: "highpass"},
		{name: "zero-order", rate: rate, opts: []Option{WithLowpass(40, 0)}, cause: pass.ErrInvalidOrder, stage: "lowpass"},
		{name: "bad-q", rate: rate, opts: []Option{WithNotch(50, 0)}, stage: "notch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rate, tt.opts...)
			if !errors.Is(err, ecg.ErrFilterDesign) {
				t.Fatalf("expected ErrFilterDesign, got %v", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Fatalf("expected %v in chain, got %v", tt.cause, err)
			}
			if !strings.Contains(err.Error(), tt.stage) {
				t.Fatalf("error %q does not name stage %s", err, tt.stage)
			}
		})
	}
}

func TestNew_InvalidRate(t *testing.T) {
	for _, r := range []float64{0, -1000, math.NaN(), math.Inf(1)} {
		if _, err := New(r); !errors.Is(err, ecg.ErrInvalidInput) {
			t.Fatalf("rate %v: expected ErrInvalidInput, got %v", r, err)
		}
	}
}

func TestApply_InvalidSamples(t *testing.T) {
	c, err := New(rate)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Apply(nil); !errors.Is(err, ecg.ErrInvalidInput) {
		t.Fatalf("empty: expected ErrInvalidInput, got %v", err)
	}

	short := make([]float64, c.MinLength())
	_, err = c.Apply(short)
	if !errors.Is(err, ecg.ErrInvalidInput) || !errors.Is(err, biquad.ErrSignalTooShort) {
		t.Fatalf("short: expected ErrInvalidInput wrapping ErrSignalTooShort, got %v", err)
	}

	bad := testutil.DC(1, 100)
	bad[40] = math.NaN()
	if _, err := c.Apply(bad); !errors.Is(err, ecg.ErrInvalidInput) {
		t.Fatalf("NaN: expected ErrInvalidInput, got %v", err)
	}
}

func TestApply_Deterministic(t *testing.T) {
	x := testutil.DeterministicNoise(7, 1, 3000)

	a, err := Apply(x, rate)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Apply(x, rate)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireBitIdentical(t, a, b)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	x := testutil.DeterministicNoise(3, 1, 500)
	orig := append([]float64(nil), x...)

	if _, err := Apply(x, rate); err != nil {
		t.Fatal(err)
	}

	testutil.RequireBitIdentical(t, x, orig)
}

func TestApply_StagesRunInOrder(t *testing.T) {
	x := testutil.DeterministicNoise(11, 1, 2000)
	c, err := New(rate)
	if err != nil {
		t.Fatal(err)
	}

	want := x
	for _, s := range c.Stages() {
		want, err = biquad.FiltFilt(s.Sections, want)
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.Apply(x)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireBitIdentical(t, got, want)
}

func TestApply_ZeroPhase(t *testing.T) {
	// 10 Hz at 1000 Hz: one period is 100 samples, crests at 25 + 100k.
	x := testutil.DeterministicSine(10, rate, 1, 10000)

	y, err := Apply(x, rate)
	if err != nil {
		t.Fatal(err)
	}

	for start := 4000; start < 6000; start += 100 {
		inPeak, outPeak := argmax(x[start:start+100]), argmax(y[start:start+100])
		if d := inPeak - outPeak; d < -1 || d > 1 {
			t.Fatalf("period at %d: input crest %d, output crest %d", start, start+inPeak, start+outPeak)
		}
	}
}

func TestApply_RemovesPowerlineKeepsCardiacBand(t *testing.T) {
	// 20 s of a 1 Hz "heartbeat" with 50 Hz mains hum.
	x := testutil.ToneMix(rate, 20000,
		testutil.Tone{FreqHz: 1, Amplitude: 1},
		testutil.Tone{FreqHz: 50, Amplitude: 0.5},
	)

	y, err := Apply(x, rate)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireFinite(t, y)

	// Measure away from the edges on a whole number of cycles of both tones.
	in, out := x[8000:12000], y[8000:12000]

	humIn := testutil.ToneAmplitude(in, 50, rate)
	humOut := testutil.ToneAmplitude(out, 50, rate)
	if reduction := 20 * math.Log10(humIn/humOut); reduction < 20 {
		t.Fatalf("50 Hz reduced by %.1f dB, want >= 20 dB", reduction)
	}

	beatIn := testutil.ToneAmplitude(in, 1, rate)
	beatOut := testutil.ToneAmplitude(out, 1, rate)
	if change := math.Abs(beatOut-beatIn) / beatIn; change >= 0.05 {
		t.Fatalf("1 Hz amplitude changed by %.2f%%, want < 5%%", 100*change)
	}
}

func TestApply_RemovesBaselineOffset(t *testing.T) {
	x := testutil.ToneMix(rate, 20000, testutil.Tone{FreqHz: 5, Amplitude: 1})
	for i := range x {
		x[i] += 2
	}

	y, err := Apply(x, rate)
	if err != nil {
		t.Fatal(err)
	}

	mean := 0.0
	for _, v := range y[8000:12000] {
		mean += v
	}
	mean /= 4000

	if math.Abs(mean) > 0.05 {
		t.Fatalf("residual offset %v, want ~0", mean)
	}
}

func TestWithPowerline60Hz(t *testing.T) {
	c, err := New(rate, WithPowerline60Hz())
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Config().NotchHz; got != 60 {
		t.Fatalf("NotchHz = %v, want 60", got)
	}

	x := testutil.ToneMix(rate, 20000,
		testutil.Tone{FreqHz: 5, Amplitude: 1},
		testutil.Tone{FreqHz: 60, Amplitude: 0.5},
	)
	y, err := c.Apply(x)
	if err != nil {
		t.Fatal(err)
	}

	humIn := testutil.ToneAmplitude(x[8000:12000], 60, rate)
	humOut := testutil.ToneAmplitude(y[8000:12000], 60, rate)
	if reduction := 20 * math.Log10(humIn/humOut); reduction < 20 {
		t.Fatalf("60 Hz reduced by %.1f dB, want >= 20 dB", reduction)
	}
}

func TestMagnitudeDB(t *testing.T) {
	c, err := New(rate)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.MagnitudeDB(10); math.Abs(got) > 0.1 {
		t.Fatalf("|H(10 Hz)| = %.3f dB, want ~0", got)
	}
	if got := c.MagnitudeDB(50); got > -20 {
		t.Fatalf("|H(50 Hz)| = %.3f dB, want below -20 dB", got)
	}
	if got := c.MagnitudeDB(0.1); got > -40 {
		t.Fatalf("|H(0.1 Hz)| = %.3f dB, want below -40 dB", got)
	}
}

func TestStageKindString(t *testing.T) {
	if StageNotch.String() != "notch" || StageKind(9).String() != "unknown" {
		t.Fatal("unexpected StageKind names")
	}
}

func argmax(x []float64) int {
	best := 0
	for i := range x {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}
