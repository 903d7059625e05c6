package core

import (
	"math"
	"testing"
)

func TestCloneIndependent(t *testing.T) {
	src := []float64{1, 2, 3}

	out := Clone(src)
	out[0] = 42

	if src[0] != 1 {
		t.Fatalf("Clone shares storage: src[0] = %v", src[0])
	}

	if Clone(nil) != nil {
		t.Fatal("Clone(nil) should be nil")
	}
}

func TestReverse(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5}
	Reverse(buf)

	want := []float64{5, 4, 3, 2, 1}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestFirstNonFinite(t *testing.T) {
	if got := FirstNonFinite([]float64{1, 2}); got != -1 {
		t.Fatalf("FirstNonFinite = %d, want -1", got)
	}

	if got := FirstNonFinite([]float64{1, math.NaN(), math.Inf(1)}); got != 1 {
		t.Fatalf("FirstNonFinite = %d, want 1", got)
	}
}
