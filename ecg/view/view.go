// Package view computes the visible window of a scrolling ECG display: the
// slice of samples left of the playback cursor and the axis bounds that frame
// it.
package view

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
)

// LookaheadSeconds is how far past the cursor samples still count for the
// amplitude bounds. It keeps the axis from jumping when a beat scrolls in.
const LookaheadSeconds = 0.1

// Bounds is a vertical axis range.
type Bounds struct {
	YMin, YMax float64
}

// Window is the renderable state of one trace.
type Window struct {
	StartIdx int
	EndIdx   int
	XStart   float64
	XEnd     float64
	Bounds
	// T and V are the visible time and sample values, samples[StartIdx:EndIdx].
	T []float64
	V []float64
}

// Calculator derives windows for one trace. It remembers the last bounds so
// that a window with no samples to measure keeps the previous axis.
// The zero value is ready to use.
type Calculator struct {
	last Bounds
}

// Last returns the most recently computed bounds.
func (c *Calculator) Last() Bounds { return c.last }

// Compute returns the window ending at cursor for a display widthSeconds wide.
//
// The visible slice is samples[startIdx:cursor] with
// startIdx = max(0, cursor - floor(widthSeconds*rate)). The y bounds cover the
// samples from startIdx up to and including cursor + floor(0.1*rate) and are
// scaled around their center by 1/yZoom. A cursor beyond the data is clamped.
func (c *Calculator) Compute(cursor int, widthSeconds, rate, yZoom float64, samples []float64) (Window, error) {
	if err := validate(widthSeconds, rate, yZoom); err != nil {
		return Window{}, err
	}

	n := len(samples)
	cursor = min(max(cursor, 0), n)

	startIdx := max(0, cursor-int(math.Floor(widthSeconds*rate)))
	xStart := float64(startIdx) / rate

	w := Window{
		StartIdx: startIdx,
		EndIdx:   cursor,
		XStart:   xStart,
		XEnd:     xStart + widthSeconds,
		T:        timeSlice(startIdx, cursor, rate),
		V:        samples[startIdx:cursor],
	}

	hi := min(n, cursor+int(math.Floor(LookaheadSeconds*rate))+1)
	if hi > startIdx {
		c.last = scaledBounds(samples[startIdx:hi], yZoom)
	}
	w.Bounds = c.last

	return w, nil
}

// Compute is the stateless form of Calculator.Compute. An empty bounds slice
// yields zero bounds.
func Compute(cursor int, widthSeconds, rate, yZoom float64, samples []float64) (Window, error) {
	var c Calculator
	return c.Compute(cursor, widthSeconds, rate, yZoom, samples)
}

func scaledBounds(x []float64, yZoom float64) Bounds {
	lo, hi := floats.Min(x), floats.Max(x)
	center := (hi + lo) / 2
	halfRange := (hi - lo) / 2
	return Bounds{
		YMin: center - halfRange/yZoom,
		YMax: center + halfRange/yZoom,
	}
}

func timeSlice(start, end int, rate float64) []float64 {
	t := make([]float64, end-start)
	for i := range t {
		t[i] = float64(start+i) / rate
	}
	return t
}

func validate(widthSeconds, rate, yZoom float64) error {
	switch {
	case !(widthSeconds > 0) || !core.IsFinite(widthSeconds):
		return fmt.Errorf("%w: display width must be > 0: %v", ecg.ErrInvalidInput, widthSeconds)
	case !(rate > 0) || !core.IsFinite(rate):
		return fmt.Errorf("%w: sample rate must be > 0: %v", ecg.ErrInvalidInput, rate)
	case !(yZoom > 0) || !core.IsFinite(yZoom):
		return fmt.Errorf("%w: y zoom must be > 0: %v", ecg.ErrInvalidInput, yZoom)
	}
	return nil
}
