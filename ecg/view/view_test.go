package view

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func TestCompute_FlatLine(t *testing.T) {
	samples := testutil.DC(0.7, 5000)

	w, err := Compute(3000, 2, 1000, 1, samples)
	if err != nil {
		t.Fatal(err)
	}
	if w.YMin != w.YMax || w.YMin != 0.7 {
		t.Fatalf("bounds = [%v, %v], want [0.7, 0.7]", w.YMin, w.YMax)
	}
}

func TestCompute_Indices(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		width      float64
		n          int
		start, end int
	}{
		{name: "full-width", cursor: 3000, width: 2, n: 5000, start: 1000, end: 3000},
		{name: "clamped-start", cursor: 500, width: 2, n: 5000, start: 0, end: 500},
		{name: "fractional-width", cursor: 1000, width: 0.2505, n: 5000, start: 750, end: 1000},
		{name: "cursor-past-end", cursor: 9000, width: 1, n: 5000, start: 4000, end: 5000},
		{name: "negative-cursor", cursor: -3, width: 1, n: 5000, start: 0, end: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Compute(tt.cursor, tt.width, 1000, 1, testutil.Ramp(tt.n))
			if err != nil {
				t.Fatal(err)
			}
			if w.StartIdx != tt.start || w.EndIdx != tt.end {
				t.Fatalf("window = [%d, %d), want [%d, %d)", w.StartIdx, w.EndIdx, tt.start, tt.end)
			}
			if len(w.T) != tt.end-tt.start || len(w.V) != tt.end-tt.start {
				t.Fatalf("slice lengths %d/%d, want %d", len(w.T), len(w.V), tt.end-tt.start)
			}
			if w.XStart != float64(tt.start)/1000 || w.XEnd != w.XStart+tt.width {
				t.Fatalf("x range = [%v, %v]", w.XStart, w.XEnd)
			}
		})
	}
}

func TestCompute_VisibleSlice(t *testing.T) {
	samples := testutil.Ramp(100)

	w, err := Compute(60, 0.02, 1000, 1, samples)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireBitIdentical(t, w.V, samples[40:60])
	for i, tv := range w.T {
		if tv != float64(40+i)/1000 {
			t.Fatalf("T[%d] = %v", i, tv)
		}
	}
}

func TestCompute_BoundsIncludeLookahead(t *testing.T) {
	// Ramp values equal their index. At 100 Hz the look-ahead is 10 samples,
	// so bounds span [startIdx, cursor+10].
	samples := testutil.Ramp(1000)

	w, err := Compute(500, 1, 100, 1, samples)
	if err != nil {
		t.Fatal(err)
	}
	if w.YMin != 400 || w.YMax != 510 {
		t.Fatalf("bounds = [%v, %v], want [400, 510]", w.YMin, w.YMax)
	}

	// Near the end the look-ahead is cut at the last sample.
	w, err = Compute(995, 1, 100, 1, samples)
	if err != nil {
		t.Fatal(err)
	}
	if w.YMax != 999 {
		t.Fatalf("YMax = %v, want 999", w.YMax)
	}
}

func TestCompute_YZoom(t *testing.T) {
	samples := testutil.DeterministicSine(5, 1000, 2, 4000)

	tests := []struct {
		zoom    float64
		halfGap float64
	}{
		{1, 2},
		{2, 1},
		{0.5, 4},
	}

	for _, tt := range tests {
		w, err := Compute(2000, 1, 1000, tt.zoom, samples)
		if err != nil {
			t.Fatal(err)
		}
		if got := (w.YMax - w.YMin) / 2; math.Abs(got-tt.halfGap) > 1e-9 {
			t.Fatalf("zoom %v: half range %v, want %v", tt.zoom, got, tt.halfGap)
		}
		if center := (w.YMax + w.YMin) / 2; math.Abs(center) > 1e-9 {
			t.Fatalf("zoom %v: center %v, want 0", tt.zoom, center)
		}
	}
}

func TestCalculator_KeepsBoundsWhenEmpty(t *testing.T) {
	var c Calculator

	w, err := c.Compute(200, 1, 100, 1, testutil.Ramp(300))
	if err != nil {
		t.Fatal(err)
	}
	prev := w.Bounds

	w, err = c.Compute(0, 1, 100, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.Bounds != prev || c.Last() != prev {
		t.Fatalf("bounds = %+v, want previous %+v", w.Bounds, prev)
	}
	if len(w.V) != 0 || len(w.T) != 0 {
		t.Fatal("empty input must give an empty slice")
	}
}

func TestCompute_InvalidParameters(t *testing.T) {
	samples := testutil.Ramp(10)
	tests := []struct {
		name              string
		width, rate, zoom float64
	}{
		{"zero-width", 0, 1000, 1},
		{"zero-rate", 1, 0, 1},
		{"zero-zoom", 1, 1000, 0},
		{"negative-zoom", 1, 1000, -2},
		{"nan-width", math.NaN(), 1000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compute(5, tt.width, tt.rate, tt.zoom, samples); !errors.Is(err, ecg.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPair_IndependentBounds(t *testing.T) {
	raw := testutil.DeterministicSine(5, 1000, 3, 4000)
	filtered := testutil.DeterministicSine(5, 1000, 1, 4000)

	var p Pair
	f, err := p.Compute(2000, 1, 1000, 1, raw, filtered)
	if err != nil {
		t.Fatal(err)
	}

	if f.Raw.StartIdx != f.Filtered.StartIdx || f.Raw.XStart != f.Filtered.XStart {
		t.Fatal("traces must share the x range")
	}
	if math.Abs(f.Raw.YMax-3) > 1e-9 || math.Abs(f.Filtered.YMax-1) > 1e-9 {
		t.Fatalf("YMax raw=%v filtered=%v", f.Raw.YMax, f.Filtered.YMax)
	}

	p.Reset()
	f, err = p.Compute(0, 1, 1000, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Raw.Bounds != (Bounds{}) {
		t.Fatalf("bounds after reset = %+v", f.Raw.Bounds)
	}
}
