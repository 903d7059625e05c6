package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/resample"
	"github.com/cwbudde/algo-ecg/ecg/cascade"
	"github.com/cwbudde/algo-ecg/ecg/recording"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
	"github.com/cwbudde/algo-ecg/internal/logging"
	"github.com/cwbudde/algo-ecg/measure/powerline"
)

const watchDebounce = 200 * time.Millisecond

type filterJob struct {
	in, out  string
	rate     float64
	resample float64
	quality  resample.Quality
	passes   int
	lineHz   int
	signal   string
	report   bool
	cascade  []cascade.Option
	stdout   io.Writer
	logger   *zap.Logger
}

func runFilter(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, lf := newFlagSet("filter", "-in FILE -out FILE [flags]", stderr)
	in := fs.String("in", "", "input recording (.txt, .dat, .csv, .edf, .parquet)")
	out := fs.String("out", "", "output table (.txt, .csv, .edf, .parquet)")
	rate := fs.Float64("rate", core.DefaultSampleRate, "sample rate in Hz for formats that do not store one")
	resampleHz := fs.Float64("resample", 0, "convert to this sample rate before filtering (0 keeps the input rate)")
	quality := fs.String("resample-quality", "balanced", "resampler quality: fast, balanced or best")
	passes := fs.Int("passes", 1, "how many times the cascade is applied")
	line := fs.Int("powerline", 50, "mains frequency to notch: 50 or 60")
	sig := fs.String("signal", "", "EDF signal label to load (default: first signal)")
	report := fs.Bool("report", false, "print interference measurements after filtering")
	watch := fs.Bool("watch", false, "filter again whenever the input file changes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *in == "" || *out == "" {
		return usageError{"filter: -in and -out are required"}
	}
	if *passes < 1 {
		return usageError{fmt.Sprintf("filter: -passes must be >= 1, got %d", *passes)}
	}
	if *resampleHz < 0 {
		return usageError{fmt.Sprintf("filter: -resample must be >= 0, got %g", *resampleHz)}
	}
	q, err := resampleQuality(*quality)
	if err != nil {
		return err
	}
	opts, err := powerlineOptions(*line)
	if err != nil {
		return err
	}

	logger := lf.logger(stderr)
	defer func() { _ = logging.Sync(logger) }()

	job := filterJob{
		in:       *in,
		out:      *out,
		rate:     *rate,
		resample: *resampleHz,
		quality:  q,
		passes:   *passes,
		lineHz:   *line,
		signal:   *sig,
		report:   *report,
		cascade:  opts,
		stdout:   stdout,
		logger:   logger,
	}

	err = job.run()
	if !*watch {
		return err
	}
	if err != nil {
		logger.Error("filter failed", logging.Path(*in), zap.Error(err))
	}

	logger.Info("watching input", logging.Path(*in))
	return watchFile(ctx, *in, watchDebounce, logger, func() {
		if err := job.run(); err != nil {
			logger.Error("filter failed", logging.Path(*in), zap.Error(err))
		}
	})
}

func resampleQuality(name string) (resample.Quality, error) {
	switch name {
	case "fast":
		return resample.QualityFast, nil
	case "balanced":
		return resample.QualityBalanced, nil
	case "best":
		return resample.QualityBest, nil
	default:
		return 0, usageError{fmt.Sprintf("filter: -resample-quality must be fast, balanced or best, got %q", name)}
	}
}

func (j filterJob) run() error {
	rec, err := recording.Load(j.in, recording.WithRate(j.rate), recording.WithSignalLabel(j.signal))
	if err != nil {
		return err
	}

	if j.resample > 0 && j.resample != rec.Rate {
		x, err := resample.Convert(rec.Samples, rec.Rate, j.resample, resample.WithQuality(j.quality))
		if err != nil {
			return err
		}
		j.logger.Debug("recording resampled", logging.Rate(rec.Rate), zap.Float64("to", j.resample),
			logging.Samples(len(x)))
		rec.Samples, rec.Rate = x, j.resample
	}

	buf := signalbuf.New(j.cascade...)
	if err := buf.Load(rec.Samples, rec.Rate); err != nil {
		return err
	}
	for range j.passes {
		if err := buf.ApplyFilterCascade(); err != nil {
			return err
		}
	}

	tbl, err := buf.Export()
	if err != nil {
		return err
	}
	if err := recording.Export(j.out, tbl); err != nil {
		return err
	}

	j.logger.Info("recording filtered",
		logging.Path(j.in),
		logging.Samples(buf.Len()),
		logging.Rate(buf.Rate()),
		zap.Int("passes", j.passes),
		zap.String("out", j.out),
	)

	if !j.report {
		return nil
	}
	r, err := powerline.Analyze(buf.OriginalView(), buf.CurrentView(), buf.Rate(),
		powerline.WithLineHz(float64(j.lineHz)))
	if err != nil {
		return err
	}
	return printReport(j.stdout, rec.Label, r)
}

func printReport(w io.Writer, label string, r powerline.Report) error {
	fmt.Fprintf(w, "%s: %.1f s analysed (samples %d..%d at %g Hz)\n\n",
		label, float64(r.End-r.Start)/r.SampleRate, r.Start, r.End, r.SampleRate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Measure\tRaw\tFiltered\tChange [dB]\n")
	fmt.Fprintf(tw, "-------\t---\t--------\t-----------\n")

	for i, f := range r.Frequencies {
		fmt.Fprintf(tw, "%g Hz line\t%.6f\t%.6f\t%s\n", f, r.Raw.Line[i], r.Filtered.Line[i],
			formatChange(core.LinearToDB(r.Filtered.Line[i])-core.LinearToDB(r.Raw.Line[i])))
	}
	fmt.Fprintf(tw, "baseline < %g Hz (power)\t%.6f\t%.6f\t%s\n", r.Config.BaselineCutoffHz,
		r.Raw.BaselinePower, r.Filtered.BaselinePower, formatChange(-r.BaselineReductionDB))
	fmt.Fprintf(tw, "mean\t%.6f\t%.6f\t\n", r.Raw.Stats.Mean, r.Filtered.Stats.Mean)
	fmt.Fprintf(tw, "rms\t%.6f\t%.6f\t%s\n", r.Raw.Stats.RMS, r.Filtered.Stats.RMS,
		formatChange(r.Filtered.Stats.RMSdB()-r.Raw.Stats.RMSdB()))
	fmt.Fprintf(tw, "peak-to-peak\t%.6f\t%.6f\t\n", r.Raw.Stats.PeakToPeak, r.Filtered.Stats.PeakToPeak)
	fmt.Fprintf(tw, "residual rms\t\t%.6f\t\n", r.Residual)

	return tw.Flush()
}

func formatChange(db float64) string {
	switch {
	case math.IsNaN(db):
		return "n/a"
	case math.IsInf(db, -1):
		return "removed"
	case math.IsInf(db, 1):
		return "new"
	default:
		return fmt.Sprintf("%+.1f", db)
	}
}
