package cascade

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/filter/biquad"
	"github.com/cwbudde/algo-ecg/dsp/filter/design"
	"github.com/cwbudde/algo-ecg/dsp/filter/design/pass"
	"github.com/cwbudde/algo-ecg/ecg"
)

// StageKind identifies the role of a cascade stage.
type StageKind int

const (
	StageHighpass StageKind = iota
	StageNotch
	StageLowpass
)

// String returns a short name for the stage kind.
func (k StageKind) String() string {
	switch k {
	case StageHighpass:
		return "highpass"
	case StageNotch:
		return "notch"
	case StageLowpass:
		return "lowpass"
	default:
		return "unknown"
	}
}

// Stage is one designed filter of the cascade.
type Stage struct {
	Kind     StageKind
	Freq     float64
	Order    int
	Sections []biquad.Coefficients
}

// MagnitudeDB returns the zero-phase magnitude of the stage at freq.
func (s Stage) MagnitudeDB(freq, sampleRate float64) float64 {
	return biquad.NewChain(s.Sections).ZeroPhaseMagnitudeDB(freq, sampleRate)
}

// Cascade is a designed three-stage filter for one sample rate.
type Cascade struct {
	cfg    Config
	rate   float64
	stages []Stage
}

// New designs the cascade for sampleRate.
//
// It fails with ecg.ErrInvalidInput for a non-positive or non-finite rate and
// with ecg.ErrFilterDesign when a cutoff is not strictly between 0 and the
// Nyquist frequency, an order is below one, or the notch Q is not positive.
func New(sampleRate float64, opts ...Option) (*Cascade, error) {
	if !(sampleRate > 0) || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %v", ecg.ErrInvalidInput, sampleRate)
	}

	cfg := ApplyOptions(opts...)

	hp, err := pass.ButterworthHP(cfg.HighpassHz, cfg.HighpassOrder, sampleRate)
	if err != nil {
		return nil, designError(StageHighpass, err)
	}
	notch, err := notchSection(cfg.NotchHz, cfg.NotchQ, sampleRate)
	if err != nil {
		return nil, designError(StageNotch, err)
	}
	lp, err := pass.ButterworthLP(cfg.LowpassHz, cfg.LowpassOrder, sampleRate)
	if err != nil {
		return nil, designError(StageLowpass, err)
	}

	stages := []Stage{
		{Kind: StageHighpass, Freq: cfg.HighpassHz, Order: cfg.HighpassOrder, Sections: hp},
		{Kind: StageNotch, Freq: cfg.NotchHz, Order: 2, Sections: []biquad.Coefficients{notch}},
		{Kind: StageLowpass, Freq: cfg.LowpassHz, Order: cfg.LowpassOrder, Sections: lp},
	}

	return &Cascade{cfg: cfg, rate: sampleRate, stages: stages}, nil
}

func designError(kind StageKind, err error) error {
	return fmt.Errorf("%w: %s: %w", ecg.ErrFilterDesign, kind, err)
}

func notchSection(freq, q, sampleRate float64) (biquad.Coefficients, error) {
	if _, err := design.NormalizedFrequency(freq, sampleRate); err != nil {
		return biquad.Coefficients{}, err
	}
	if !(q > 0) || !core.IsFinite(q) {
		return biquad.Coefficients{}, fmt.Errorf("quality factor must be > 0: %v", q)
	}
	return design.Notch(freq, q, sampleRate), nil
}

// Apply runs the three stages over samples and returns a new slice. The input
// is never modified.
//
// It fails with ecg.ErrInvalidInput when samples is empty, contains NaN or
// Inf, or is not longer than MinLength.
func (c *Cascade) Apply(samples []float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ecg.ErrInvalidInput)
	}
	if i := core.FirstNonFinite(samples); i >= 0 {
		return nil, fmt.Errorf("%w: non-finite sample at index %d", ecg.ErrInvalidInput, i)
	}

	out := samples
	for _, stage := range c.stages {
		next, err := biquad.FiltFilt(stage.Sections, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ecg.ErrInvalidInput, stage.Kind, err)
		}
		out = next
	}

	return out, nil
}

// Stages returns a copy of the designed stages in application order.
func (c *Cascade) Stages() []Stage {
	out := make([]Stage, len(c.stages))
	for i, s := range c.stages {
		s.Sections = append([]biquad.Coefficients(nil), s.Sections...)
		out[i] = s
	}
	return out
}

// Config returns the configuration the cascade was designed from.
func (c *Cascade) Config() Config { return c.cfg }

// SampleRate returns the sample rate the cascade was designed for.
func (c *Cascade) SampleRate() float64 { return c.rate }

// MinLength returns the largest edge padding of any stage. Apply needs more
// samples than this.
func (c *Cascade) MinLength() int {
	n := 0
	for _, s := range c.stages {
		if p := biquad.PadLen(s.Sections); p > n {
			n = p
		}
	}
	return n
}

// MagnitudeDB returns the zero-phase magnitude of the whole cascade at freq.
func (c *Cascade) MagnitudeDB(freq float64) float64 {
	total := 0.0
	for _, s := range c.stages {
		total += s.MagnitudeDB(freq, c.rate)
	}
	return total
}

// Apply designs the cascade for sampleRate and runs it over samples. Without
// options the default stages are used.
func Apply(samples []float64, sampleRate float64, opts ...Option) ([]float64, error) {
	c, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}
	return c.Apply(samples)
}
