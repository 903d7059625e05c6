// Package powerline quantifies how well a filtered ECG trace is cleared of
// mains interference and baseline wander compared with the raw trace.
package powerline

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/spectrum"
	"github.com/cwbudde/algo-ecg/dsp/window"
	"github.com/cwbudde/algo-ecg/ecg"
	timestats "github.com/cwbudde/algo-ecg/stats/time"
)

// Trace holds the measurements of one trace.
type Trace struct {
	// Line holds the amplitude at LineHz and each harmonic.
	Line []float64
	// BaselinePower is the mean-square power below the baseline cutoff,
	// DC included.
	BaselinePower float64
	Stats         timestats.Stats
}

// Report compares a raw trace with its filtered version.
type Report struct {
	Config     Config
	SampleRate float64
	// Start and End delimit the analysed sample range.
	Start, End int
	// Frequencies lists the measured line multiples in Hz.
	Frequencies []float64

	Raw      Trace
	Filtered Trace

	// LineReductionDB is the attenuation at LineHz. +Inf means the filtered
	// trace has no line component left.
	LineReductionDB float64
	// BaselineReductionDB is the attenuation of the baseline band power.
	BaselineReductionDB float64
	// Residual is the RMS of raw minus filtered.
	Residual float64
}

// Analyze measures raw and filtered, which must have the same length and
// sample rate.
func Analyze(raw, filtered []float64, sampleRate float64, opts ...Option) (Report, error) {
	cfg := ApplyOptions(opts...)
	if err := validate(cfg, raw, filtered, sampleRate); err != nil {
		return Report{}, err
	}

	start, end := 0, len(raw)
	edge := int(math.Round(cfg.EdgeSeconds * sampleRate))
	if edge > 0 && 4*edge <= len(raw) {
		start, end = edge, len(raw)-edge
	}

	bank, err := spectrum.NewHarmonics(cfg.LineHz, cfg.Harmonics, sampleRate)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
	}

	r := Report{
		Config:      cfg,
		SampleRate:  sampleRate,
		Start:       start,
		End:         end,
		Frequencies: bank.Frequencies(),
	}

	r.Raw, err = measure(raw[start:end], sampleRate, cfg, bank)
	if err != nil {
		return Report{}, err
	}
	r.Filtered, err = measure(filtered[start:end], sampleRate, cfg, bank)
	if err != nil {
		return Report{}, err
	}

	r.LineReductionDB = reductionDB(r.Raw.Line[0], r.Filtered.Line[0], core.LinearToDB)
	r.BaselineReductionDB = reductionDB(r.Raw.BaselinePower, r.Filtered.BaselinePower, core.LinearPowerToDB)
	r.Residual = timestats.Residual(raw[start:end], filtered[start:end])

	return r, nil
}

func measure(x []float64, sampleRate float64, cfg Config, bank *spectrum.Harmonics) (Trace, error) {
	bank.Reset()
	bank.ProcessBlock(x)

	p, err := spectrum.NewPeriodogram(x, sampleRate, window.TypeHann)
	if err != nil {
		return Trace{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
	}

	return Trace{
		Line:          bank.Amplitudes(),
		BaselinePower: p.BandPower(0, cfg.BaselineCutoffHz),
		Stats:         timestats.Calculate(x),
	}, nil
}

func reductionDB(before, after float64, toDB func(float64) float64) float64 {
	switch {
	case before == 0:
		return 0
	case after == 0:
		return math.Inf(1)
	}
	return toDB(before) - toDB(after)
}

func validate(cfg Config, raw, filtered []float64, sampleRate float64) error {
	switch {
	case !(sampleRate > 0) || math.IsInf(sampleRate, 0):
		return fmt.Errorf("%w: sample rate must be > 0: %v", ecg.ErrInvalidInput, sampleRate)
	case len(raw) < 2:
		return fmt.Errorf("%w: need at least 2 samples: %d", ecg.ErrInvalidInput, len(raw))
	case len(raw) != len(filtered):
		return fmt.Errorf("%w: trace lengths differ: %d != %d", ecg.ErrInvalidInput, len(raw), len(filtered))
	case !(cfg.LineHz > 0) || cfg.LineHz >= sampleRate/2:
		return fmt.Errorf("%w: line frequency must be in (0, %v): %v", ecg.ErrInvalidInput, sampleRate/2, cfg.LineHz)
	case cfg.BaselineCutoffHz < 0 || cfg.EdgeSeconds < 0:
		return fmt.Errorf("%w: baseline cutoff and edge must be >= 0", ecg.ErrInvalidInput)
	}
	if i := core.FirstNonFinite(raw); i >= 0 {
		return fmt.Errorf("%w: raw sample %d is not finite", ecg.ErrInvalidInput, i)
	}
	if i := core.FirstNonFinite(filtered); i >= 0 {
		return fmt.Errorf("%w: filtered sample %d is not finite", ecg.ErrInvalidInput, i)
	}
	return nil
}
