package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-ecg/stats/time"
)

func ExampleCalculate() {
	s := timestats.Calculate([]float64{0.1, 1.2, -0.3, 0.1})
	fmt.Printf("peak=%.1f p2p=%.1f at %d..%d\n", s.Peak, s.PeakToPeak, s.MinPos, s.MaxPos)

	// Output:
	// peak=1.2 p2p=1.5 at 2..1
}
