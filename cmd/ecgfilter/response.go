package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg/cascade"
)

var responseFrequencies = []float64{
	0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 1, 2, 5, 10, 15, 20, 25, 30, 35, 40,
	45, 48, 50, 52, 55, 58, 60, 62, 70, 80, 100, 150, 200,
}

func runResponse(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs, _ := newFlagSet("response", "[flags]", stderr)
	rate := fs.Float64("rate", core.DefaultSampleRate, "sample rate in Hz")
	line := fs.Int("powerline", 50, "mains frequency to notch: 50 or 60")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	opts, err := powerlineOptions(*line)
	if err != nil {
		return err
	}
	c, err := cascade.New(*rate, opts...)
	if err != nil {
		return err
	}

	return printResponse(stdout, c)
}

func printResponse(w io.Writer, c *cascade.Cascade) error {
	stages := c.Stages()

	for _, s := range stages {
		fmt.Fprintf(w, "%-9s %6.1f Hz  order %d\n", s.Kind, s.Freq, s.Order)
	}
	fmt.Fprintf(w, "\nSample rate %g Hz. Zero-phase filtering squares each magnitude.\n\n", c.SampleRate())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"Freq [Hz]"}
	for _, s := range stages {
		header = append(header, s.Kind.String()+" [dB]")
	}
	header = append(header, "cascade [dB]", "zero-phase [dB]")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, f := range responseFrequencies {
		if f >= c.SampleRate()/2 {
			break
		}
		row := []string{fmt.Sprintf("%g", f)}
		for _, s := range stages {
			row = append(row, formatDB(s.MagnitudeDB(f, c.SampleRate())))
		}
		total := c.MagnitudeDB(f)
		row = append(row, formatDB(total), formatDB(2*total))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}

func formatDB(db float64) string {
	if db < -300 {
		return "-inf"
	}
	return fmt.Sprintf("%.2f", db)
}
