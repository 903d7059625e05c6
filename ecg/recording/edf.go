package recording

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
)

const (
	edfDigitalMin = math.MinInt16
	edfDigitalMax = math.MaxInt16

	// edfMaxRecordBytes is the data record size limit the EDF writer enforces.
	edfMaxRecordBytes = 61440

	edfLabelWidth    = 16
	edfLabelOriginal = "ECG original"
	edfLabelFiltered = "ECG filtered"
)

// edfLayout is the part of an EDF header needed to pick a signal and derive
// its rate. The edf reader keeps its parsed header private.
type edfLayout struct {
	records          int
	recordSeconds    float64
	labels           []string
	samplesPerRecord []int
}

func readEDFLayout(r io.ReadSeeker) (edfLayout, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return edfLayout{}, err
	}
	br := bufio.NewReader(r)

	fixed := make([]byte, 256)
	if _, err := io.ReadFull(br, fixed); err != nil {
		return edfLayout{}, fmt.Errorf("%w: edf header: %w", ecg.ErrInvalidInput, err)
	}

	var (
		l   edfLayout
		err error
	)
	if l.records, err = atoiField(fixed[236:244]); err != nil {
		return edfLayout{}, err
	}
	if l.recordSeconds, err = strconv.ParseFloat(strings.TrimSpace(string(fixed[244:252])), 64); err != nil {
		return edfLayout{}, fmt.Errorf("%w: edf record duration: %w", ecg.ErrInvalidInput, err)
	}
	ns, err := atoiField(fixed[252:256])
	if err != nil {
		return edfLayout{}, err
	}
	if ns <= 0 {
		return edfLayout{}, fmt.Errorf("%w: edf file has no signals", ecg.ErrInvalidInput)
	}

	// Per-signal fields, each an array of ns entries.
	widths := []int{16, 80, 8, 8, 8, 8, 8, 80, 8, 32}
	fields := make([][]string, len(widths))
	for f, w := range widths {
		fields[f] = make([]string, ns)
		buf := make([]byte, w)
		for i := 0; i < ns; i++ {
			if _, err := io.ReadFull(br, buf); err != nil {
				return edfLayout{}, fmt.Errorf("%w: edf signal header: %w", ecg.ErrInvalidInput, err)
			}
			fields[f][i] = strings.TrimSpace(string(buf))
		}
	}

	l.labels = fields[0]
	l.samplesPerRecord = make([]int, ns)
	for i, s := range fields[8] {
		if l.samplesPerRecord[i], err = strconv.Atoi(s); err != nil {
			return edfLayout{}, fmt.Errorf("%w: edf samples per record: %q", ecg.ErrInvalidInput, s)
		}
	}

	return l, nil
}

func (l edfLayout) signalIndex(o Options) (int, error) {
	if o.SignalLabel != "" {
		for i, label := range l.labels {
			if strings.EqualFold(label, o.SignalLabel) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: no edf signal labelled %q", ecg.ErrInvalidInput, o.SignalLabel)
	}
	if o.SignalIndex < 0 || o.SignalIndex >= len(l.labels) {
		return 0, fmt.Errorf("%w: edf signal index %d out of range [0, %d)", ecg.ErrInvalidInput, o.SignalIndex, len(l.labels))
	}
	return o.SignalIndex, nil
}

// ReadEDF reads one signal of an EDF file. The rate is the signal's samples
// per record divided by the record duration.
func ReadEDF(r io.ReadSeeker, o Options) (Recording, error) {
	layout, err := readEDFLayout(r)
	if err != nil {
		return Recording{}, err
	}
	idx, err := layout.signalIndex(o)
	if err != nil {
		return Recording{}, err
	}
	if layout.recordSeconds <= 0 || layout.records <= 0 {
		return Recording{}, fmt.Errorf("%w: edf file has no data records", ecg.ErrInvalidInput)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Recording{}, err
	}
	er, err := edf.Open(r)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
	}
	sr, err := er.Signal(idx)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
	}

	samples := make([]float64, layout.records*layout.samplesPerRecord[idx])
	n, err := sr.Read(samples)
	if err != nil && err != io.EOF {
		return Recording{}, err
	}
	samples = samples[:n]

	if err := checkSamples(samples); err != nil {
		return Recording{}, err
	}
	return Recording{
		Samples: samples,
		Rate:    float64(layout.samplesPerRecord[idx]) / layout.recordSeconds,
		Label:   layout.labels[idx],
	}, nil
}

// WriteEDF writes the original and filtered columns of tbl as two EDF
// signals in one-second data records. The rate must be a whole number of
// samples per second. The final record is padded with the last sample.
func WriteEDF(w io.WriteSeeker, tbl signalbuf.Table) error {
	_, original, filtered := tbl.Series()
	return writeEDF(w, tbl.Rate,
		[]string{edfLabelOriginal, edfLabelFiltered},
		[][]float64{original, filtered},
	)
}

// WriteEDFRecording writes rec as a single-signal EDF file with the same
// record layout as WriteEDF.
func WriteEDFRecording(w io.WriteSeeker, rec Recording) error {
	if err := checkSamples(rec.Samples); err != nil {
		return err
	}
	label := rec.Label
	if label == "" {
		label = edfLabelOriginal
	}
	if len(label) > edfLabelWidth {
		label = label[:edfLabelWidth]
	}
	return writeEDF(w, rec.Rate, []string{label}, [][]float64{rec.Samples})
}

func writeEDF(w io.WriteSeeker, rate float64, labels []string, series [][]float64) error {
	spr := int(math.Round(rate))
	if spr <= 0 || float64(spr) != rate {
		return fmt.Errorf("%w: edf export needs an integer sample rate, got %v", ecg.ErrUnsupportedFormat, rate)
	}
	if 2*len(series)*spr > edfMaxRecordBytes {
		return fmt.Errorf("%w: edf export supports at most %d Hz for %d signals, got %d",
			ecg.ErrUnsupportedFormat, edfMaxRecordBytes/(2*len(series)), len(series), spr)
	}

	signals := make([]edf.Signal, len(series))
	for i, x := range series {
		signals[i] = edfSignal(labels[i], x, spr)
	}
	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "X",
		RecordingID:        "algo-ecg export",
		StartTime:          time.Now().UTC(),
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            signals,
	}

	ew, err := edf.Create(w, hdr)
	if err != nil {
		return err
	}

	n := len(series[0])
	for start := 0; start < n; start += spr {
		rec := make([][]float64, len(series))
		for i, x := range series {
			rec[i] = padRecord(x, start, spr)
		}
		if err := ew.WriteRecord(rec); err != nil {
			return err
		}
	}

	return ew.Close()
}

func edfSignal(label string, x []float64, spr int) edf.Signal {
	lo, hi := x[0], x[0]
	for _, v := range x {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pmin, pmax := edfPhysicalRange(lo, hi)

	return edf.Signal{
		Label:             label,
		TransducerType:    "ECG electrode",
		PhysicalDimension: "mV",
		PhysicalMin:       pmin,
		PhysicalMax:       pmax,
		DigitalMin:        edfDigitalMin,
		DigitalMax:        edfDigitalMax,
		SamplesPerRecord:  spr,
	}
}

// edfPhysicalRange widens [lo, hi] to values that survive the header's
// eight-character number fields without moving inward.
func edfPhysicalRange(lo, hi float64) (float64, float64) {
	pmin := math.Floor(lo*100)/100 - 0.01
	pmax := math.Ceil(hi*100)/100 + 0.01
	if len(fmt.Sprintf("%.2f", pmin)) > 8 || len(fmt.Sprintf("%.2f", pmax)) > 8 {
		pmin = math.Floor(lo) - 1
		pmax = math.Ceil(hi) + 1
	}
	return pmin, pmax
}

func padRecord(x []float64, start, n int) []float64 {
	rec := make([]float64, n)
	end := min(start+n, len(x))
	copy(rec, x[start:end])
	for i := end - start; i < n; i++ {
		rec[i] = x[len(x)-1]
	}
	return rec
}

func atoiField(b []byte) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%w: edf header field %q", ecg.ErrInvalidInput, strings.TrimSpace(string(b)))
	}
	return v, nil
}
