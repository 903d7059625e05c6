package powerline_test

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/internal/testutil"
	"github.com/cwbudde/algo-ecg/measure/powerline"
)

func ExampleAnalyze() {
	const rate = 1000.0
	raw := testutil.ToneMix(rate, 10000,
		testutil.Tone{FreqHz: 1, Amplitude: 1},
		testutil.Tone{FreqHz: 50, Amplitude: 0.2})
	clean := testutil.DeterministicSine(1, rate, 1, 10000)

	r, err := powerline.Analyze(raw, clean, rate, powerline.WithHarmonics(1))
	if err != nil {
		panic(err)
	}
	fmt.Printf("50 Hz before %.2f after %.2f\n", r.Raw.Line[0], r.Filtered.Line[0])

	// Output:
	// 50 Hz before 0.20 after 0.00
}
