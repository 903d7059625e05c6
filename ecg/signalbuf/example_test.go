package signalbuf_test

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func ExampleBuffer() {
	b := signalbuf.New()
	if err := b.Load(testutil.DeterministicSine(1, 1000, 1, 3000), 1000); err != nil {
		fmt.Println(err)
		return
	}

	_ = b.ApplyFilterCascade()
	_ = b.ApplyFilterCascade()
	fmt.Println(b.ApplicationCount(), b.Filtered())

	_ = b.Reset()
	fmt.Println(b.ApplicationCount(), b.Filtered())
	// Output:
	// 2 true
	// 0 false
}
