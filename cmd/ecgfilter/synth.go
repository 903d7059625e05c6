package main

import (
	"context"
	"io"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/signal"
	"github.com/cwbudde/algo-ecg/ecg/recording"
	"github.com/cwbudde/algo-ecg/internal/logging"
)

func runSynth(_ context.Context, args []string, _, stderr io.Writer) error {
	def := signal.DefaultECGConfig()

	fs, lf := newFlagSet("synth", "-out FILE [flags]", stderr)
	out := fs.String("out", "", "output recording (.txt, .csv, .edf)")
	seconds := fs.Float64("seconds", 10, "duration in seconds")
	rate := fs.Float64("rate", core.DefaultSampleRate, "sample rate in Hz")
	seed := fs.Int64("seed", 1, "noise seed")
	label := fs.String("label", "synthetic ECG", "signal label")
	cfg := def
	fs.Float64Var(&cfg.HeartRate, "heart-rate", def.HeartRate, "beats per minute")
	fs.Float64Var(&cfg.Amplitude, "amplitude", def.Amplitude, "R-wave height in mV")
	fs.Float64Var(&cfg.WanderHz, "wander-hz", def.WanderHz, "baseline wander frequency in Hz")
	fs.Float64Var(&cfg.WanderAmp, "wander", def.WanderAmp, "baseline wander amplitude in mV")
	fs.Float64Var(&cfg.HumHz, "hum-hz", def.HumHz, "powerline hum frequency in Hz")
	fs.Float64Var(&cfg.HumAmp, "hum", def.HumAmp, "powerline hum amplitude in mV")
	fs.Float64Var(&cfg.NoiseAmp, "noise", def.NoiseAmp, "uniform noise amplitude in mV")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *out == "" {
		return usageError{"synth: -out is required"}
	}
	if !(*seconds > 0) {
		return usageError{"synth: -seconds must be > 0"}
	}

	logger := lf.logger(stderr)
	defer func() { _ = logging.Sync(logger) }()

	g := signal.NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(*rate)}, signal.WithSeed(*seed))
	x, err := g.ECG(cfg, g.Samples(*seconds))
	if err != nil {
		return err
	}

	if err := recording.Save(*out, recording.Recording{Samples: x, Rate: *rate, Label: *label}); err != nil {
		return err
	}
	logger.Info("synthetic recording written", logging.Path(*out), logging.Samples(len(x)), logging.Rate(*rate))
	return nil
}
