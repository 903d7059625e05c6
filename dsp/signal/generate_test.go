package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func TestSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(500))
	s, err := g.Sine(5, 2, 200)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, s, testutil.DeterministicSine(5, 500, 2, 200), 1e-12)
}

func TestGeneratorErrors(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(1, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
	if _, err := g.WhiteNoise(-1, 10); err == nil {
		t.Fatal("expected error for negative amplitude")
	}

	bad := NewGenerator(core.WithSampleRate(0))
	if _, err := bad.Sine(1, 1, 10); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))
	g3 := NewGeneratorWithOptions(nil, WithSeed(43))

	n1, err := g1.WhiteNoise(1, 64)
	if err != nil {
		t.Fatal(err)
	}
	n2, _ := g2.WhiteNoise(1, 64)
	n3, _ := g3.WhiteNoise(1, 64)

	testutil.RequireBitIdentical(t, n1, n2)
	if d, err := testutil.MaxAbsDiff(n1, n3); err != nil || d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
	for i, v := range n1 {
		if math.Abs(v) > 1 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestSamples(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(360))
	if got := g.Samples(2.5); got != 900 {
		t.Fatalf("Samples(2.5) = %d, want 900", got)
	}
	if g.SampleRate() != 360 {
		t.Fatalf("SampleRate() = %v", g.SampleRate())
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireBitIdentical(t, out, []float64{0, 0})

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("expected error for negative target")
	}
}
