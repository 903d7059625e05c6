package view

// Pair tracks the raw and filtered panels of the display, each with its own
// remembered bounds.
type Pair struct {
	raw      Calculator
	filtered Calculator
}

// Frame is the window of both traces at one cursor position. Both traces share
// the x range.
type Frame struct {
	Raw      Window
	Filtered Window
}

// Compute returns the windows of both traces. raw and filtered must have the
// same length.
func (p *Pair) Compute(cursor int, widthSeconds, rate, yZoom float64, raw, filtered []float64) (Frame, error) {
	r, err := p.raw.Compute(cursor, widthSeconds, rate, yZoom, raw)
	if err != nil {
		return Frame{}, err
	}
	f, err := p.filtered.Compute(cursor, widthSeconds, rate, yZoom, filtered)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Raw: r, Filtered: f}, nil
}

// Reset forgets the remembered bounds of both traces.
func (p *Pair) Reset() {
	p.raw = Calculator{}
	p.filtered = Calculator{}
}
