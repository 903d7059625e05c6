package recording

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
)

// ReadText reads whitespace-separated values, one row per line, and keeps
// the first column. Blank lines and lines starting with # are skipped.
func ReadText(r io.Reader, rate float64) (Recording, error) {
	var samples []float64

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Recording{}, fmt.Errorf("%w: line %d: %q", ecg.ErrInvalidInput, line, fields[0])
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return Recording{}, err
	}

	if err := checkSamples(samples); err != nil {
		return Recording{}, err
	}
	return Recording{Samples: samples, Rate: rate}, nil
}

// ReadCSV reads the first column of a comma-separated file. A first row
// whose first field is not a number is treated as a header and names the
// recording.
func ReadCSV(r io.Reader, rate float64) (Recording, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var (
		samples []float64
		label   string
	)
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Recording{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		field := strings.TrimSpace(rec[0])
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			if row == 0 {
				label = field
				continue
			}
			return Recording{}, fmt.Errorf("%w: row %d: %q", ecg.ErrInvalidInput, row+1, field)
		}
		samples = append(samples, v)
	}

	if err := checkSamples(samples); err != nil {
		return Recording{}, err
	}
	return Recording{Samples: samples, Rate: rate, Label: label}, nil
}

// WriteText writes one sample per line after a comment line naming the
// label and rate. ReadText reads it back.
func WriteText(w io.Writer, rec Recording) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# %s %s Hz\n", rec.Label, formatFloat(rec.Rate)); err != nil {
		return err
	}
	for _, v := range rec.Samples {
		if _, err := bw.WriteString(formatFloat(v) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCSV writes a single-column CSV whose header is the label. ReadCSV
// reads it back.
func WriteCSV(w io.Writer, rec Recording) error {
	label := rec.Label
	if label == "" {
		label = signalbuf.ColumnOriginal
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{label}); err != nil {
		return err
	}
	for _, v := range rec.Samples {
		if err := cw.Write([]string{formatFloat(v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDelimited writes tbl with a header row using sep between columns.
func WriteDelimited(w io.Writer, tbl signalbuf.Table, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	if err := cw.Write(tbl.Columns()); err != nil {
		return err
	}

	rec := make([]string, 3)
	for _, row := range tbl.Rows {
		rec[0] = formatFloat(row.Time)
		rec[1] = formatFloat(row.Original)
		rec[2] = formatFloat(row.Filtered)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadDelimited reads a table written by WriteDelimited. The rate is derived
// from the first two time stamps.
func ReadDelimited(r io.Reader, sep rune) (signalbuf.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep

	header, err := cr.Read()
	if err != nil {
		return signalbuf.Table{}, fmt.Errorf("%w: header: %w", ecg.ErrInvalidInput, err)
	}
	if len(header) != 3 {
		return signalbuf.Table{}, fmt.Errorf("%w: want 3 columns, got %d", ecg.ErrInvalidInput, len(header))
	}

	var tbl signalbuf.Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return signalbuf.Table{}, fmt.Errorf("%w: %w", ecg.ErrInvalidInput, err)
		}

		var vals [3]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i], 64); err != nil {
				return signalbuf.Table{}, fmt.Errorf("%w: %q", ecg.ErrInvalidInput, rec[i])
			}
		}
		tbl.Rows = append(tbl.Rows, signalbuf.Row{Time: vals[0], Original: vals[1], Filtered: vals[2]})
	}

	tbl.Rate = rateFromRows(tbl.Rows)
	return tbl, nil
}

func rateFromRows(rows []signalbuf.Row) float64 {
	if len(rows) < 2 {
		return 0
	}
	dt := rows[1].Time - rows[0].Time
	if dt <= 0 {
		return 0
	}
	// Time stamps are i/rate, so round away the division error.
	return math.Round(1e6/dt) / 1e6
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
