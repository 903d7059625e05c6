package pass

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
	"github.com/cwbudde/algo-ecg/dsp/filter/design"
)

// Response selects the pass band of a Butterworth cascade.
type Response int

const (
	Lowpass Response = iota
	Highpass
)

var (
	// ErrInvalidOrder reports an order below one.
	ErrInvalidOrder = errors.New("pass: order must be >= 1")
	// ErrInvalidResponse reports a Response other than Lowpass or Highpass.
	ErrInvalidResponse = errors.New("pass: unknown response")
)

// Butterworth designs an order-n Butterworth cascade whose -3 dB point is
// freq. Second-order sections come first in ascending Q. Odd orders end with
// a first-order section (B2=A2=0).
//
// It fails with ErrInvalidOrder, ErrInvalidResponse or
// design.ErrInvalidFrequency when freq is not strictly inside (0, Nyquist).
func Butterworth(resp Response, freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	var section func(freq, q, sampleRate float64) biquad.Coefficients
	switch resp {
	case Lowpass:
		section = design.Lowpass
	case Highpass:
		section = design.Highpass
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidResponse, resp)
	}
	if order < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}
	if _, err := design.NormalizedFrequency(freq, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]biquad.Coefficients, 0, (order+1)/2)
	for _, q := range sectionQs(order) {
		sections = append(sections, section(freq, q, sampleRate))
	}
	if order%2 == 1 {
		sections = append(sections, firstOrder(resp, freq, sampleRate))
	}
	return sections, nil
}

// ButterworthLP designs a lowpass cascade. See Butterworth.
func ButterworthLP(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	return Butterworth(Lowpass, freq, order, sampleRate)
}

// ButterworthHP designs a highpass cascade. See Butterworth.
func ButterworthHP(freq float64, order int, sampleRate float64) ([]biquad.Coefficients, error) {
	return Butterworth(Highpass, freq, order, sampleRate)
}
