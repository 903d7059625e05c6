package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
)

// Format identifies a file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatCSV
	FormatEDF
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCSV:
		return "csv"
	case FormatEDF:
		return "edf"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".dat":
		return FormatText
	case ".csv":
		return FormatCSV
	case ".edf":
		return FormatEDF
	case ".parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}

// Recording is a loaded sample sequence.
type Recording struct {
	Samples []float64
	Rate    float64
	Label   string
}

// Duration returns the length of the recording in seconds.
func (r Recording) Duration() float64 {
	if r.Rate <= 0 {
		return 0
	}
	return float64(len(r.Samples)) / r.Rate
}

// Options controls loading.
type Options struct {
	Rate        float64
	SignalLabel string
	SignalIndex int
}

// Option mutates Options.
type Option func(*Options)

// WithRate sets the sample rate for formats that do not store one.
func WithRate(hz float64) Option {
	return func(o *Options) { o.Rate = hz }
}

// WithSignalLabel selects an EDF signal by label, case-insensitively.
func WithSignalLabel(label string) Option {
	return func(o *Options) { o.SignalLabel = label }
}

// WithSignalIndex selects an EDF signal by position.
func WithSignalIndex(i int) Option {
	return func(o *Options) { o.SignalIndex = i }
}

func applyOptions(opts []Option) (Options, error) {
	o := Options{Rate: core.DefaultSampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if !(o.Rate > 0) || !core.IsFinite(o.Rate) {
		return Options{}, fmt.Errorf("%w: sample rate must be > 0: %v", ecg.ErrInvalidInput, o.Rate)
	}
	return o, nil
}

// Load reads the recording at path.
func Load(path string, opts ...Option) (Recording, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return Recording{}, err
	}

	format := FormatOf(path)
	if format == FormatUnknown {
		return Recording{}, fmt.Errorf("%w: %q", ecg.ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("recording: open: %w", err)
	}
	defer f.Close()

	var rec Recording
	switch format {
	case FormatText:
		rec, err = ReadText(f, o.Rate)
	case FormatCSV:
		rec, err = ReadCSV(f, o.Rate)
	case FormatEDF:
		rec, err = ReadEDF(f, o)
	case FormatParquet:
		rec, err = ReadParquet(f)
	}
	if err != nil {
		return Recording{}, fmt.Errorf("recording: %s: %w", filepath.Base(path), err)
	}

	if rec.Label == "" {
		rec.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return rec, nil
}

// Export writes tbl to path in the format implied by its extension.
func Export(path string, tbl signalbuf.Table) (err error) {
	format := FormatOf(path)
	if format == FormatUnknown || (format == FormatText && strings.ToLower(filepath.Ext(path)) != ".txt") {
		return fmt.Errorf("%w: cannot export %q", ecg.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if tbl.Len() == 0 {
		return fmt.Errorf("%w: empty table", ecg.ErrInvalidInput)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recording: create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("recording: close: %w", cerr)
		}
	}()

	switch format {
	case FormatText:
		err = WriteDelimited(f, tbl, '\t')
	case FormatCSV:
		err = WriteDelimited(f, tbl, ',')
	case FormatEDF:
		err = WriteEDF(f, tbl)
	case FormatParquet:
		err = WriteParquet(f, tbl)
	}
	if err != nil {
		return fmt.Errorf("recording: %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Save writes a single recording to path. Text files hold one sample per
// line, CSV files a header row with the label followed by the samples, and
// EDF files one signal. Parquet holds tables only; use Export.
func Save(path string, rec Recording) (err error) {
	if err := checkSamples(rec.Samples); err != nil {
		return err
	}

	format := FormatOf(path)
	if format == FormatUnknown || format == FormatParquet {
		return fmt.Errorf("%w: cannot save a recording as %q", ecg.ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recording: create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("recording: close: %w", cerr)
		}
	}()

	switch format {
	case FormatText:
		err = WriteText(f, rec)
	case FormatCSV:
		err = WriteCSV(f, rec)
	case FormatEDF:
		err = WriteEDFRecording(f, rec)
	}
	if err != nil {
		return fmt.Errorf("recording: %s: %w", filepath.Base(path), err)
	}
	return nil
}

func checkSamples(samples []float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: no samples", ecg.ErrInvalidInput)
	}
	if i := core.FirstNonFinite(samples); i >= 0 {
		return fmt.Errorf("%w: non-finite sample at index %d", ecg.ErrInvalidInput, i)
	}
	return nil
}
