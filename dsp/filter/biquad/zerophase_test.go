package biquad

import (
	"errors"
	"math"
	"testing"
)

func TestPadLen(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []Coefficients
		want   int
	}{
		{name: "empty", coeffs: nil, want: 0},
		{name: "one-biquad", coeffs: []Coefficients{lowpassCoeffs()}, want: 9},
		{name: "two-biquads", coeffs: twoSectionCoeffs(), want: 15},
		{
			name: "biquad-plus-first-order",
			coeffs: []Coefficients{
				lowpassCoeffs(),
				{B0: 0.5, B1: 0.5, A1: -0.1},
			},
			want: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PadLen(tt.coeffs); got != tt.want {
				t.Fatalf("PadLen = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOddExtend(t *testing.T) {
	x := []float64{1, 2, 4, 7}
	got := oddExtend(x, 2)
	want := []float64{
		2*1 - 4, 2*1 - 2,
		1, 2, 4, 7,
		2*7 - 4, 2*7 - 2,
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ext[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFiltFilt_TooShort(t *testing.T) {
	_, err := FiltFilt(twoSectionCoeffs(), make([]float64, 15))
	if !errors.Is(err, ErrSignalTooShort) {
		t.Fatalf("expected ErrSignalTooShort, got %v", err)
	}
}

func TestFiltFilt_DoesNotModifyInput(t *testing.T) {
	x := make([]float64, 64)
	for i := range x {
		x[i] = math.Sin(float64(i) * 0.3)
	}
	orig := append([]float64(nil), x...)

	if _, err := FiltFilt(twoSectionCoeffs(), x); err != nil {
		t.Fatal(err)
	}

	for i := range x {
		if x[i] != orig[i] {
			t.Fatalf("input modified at %d", i)
		}
	}
}

func TestFiltFilt_NoSectionsCopies(t *testing.T) {
	x := []float64{1, 2, 3}
	got, err := FiltFilt(nil, x)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 10
	if x[0] != 1 {
		t.Fatal("FiltFilt without sections returned shared storage")
	}
}

func TestFiltFilt_ConstantInputPassesUnityDC(t *testing.T) {
	// Normalize the lowpass to unity DC gain so a constant must pass unchanged.
	c := lowpassCoeffs()
	g := c.DCGain()
	c.B0 /= g
	c.B1 /= g
	c.B2 /= g

	x := make([]float64, 100)
	for i := range x {
		x[i] = 0.75
	}

	got, err := FiltFilt([]Coefficients{c, c}, x)
	if err != nil {
		t.Fatal(err)
	}

	for i := range got {
		if !almostEqual(got[i], 0.75, 1e-12) {
			t.Fatalf("sample %d: got %v, want 0.75", i, got[i])
		}
	}
}

func TestFiltFilt_ZeroPhase(t *testing.T) {
	// A symmetric input through a zero-phase filter stays symmetric.
	n := 201
	x := make([]float64, n)
	for i := range x {
		d := float64(i - n/2)
		x[i] = math.Exp(-d * d / 200)
	}

	got, err := FiltFilt(twoSectionCoeffs(), x)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i := range got {
		if got[i] > got[peak] {
			peak = i
		}
	}

	if peak != n/2 {
		t.Fatalf("peak moved from %d to %d", n/2, peak)
	}
}
