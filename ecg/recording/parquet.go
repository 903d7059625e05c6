package recording

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/parquet-go/parquet-go"

	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/signalbuf"
)

// WriteParquet writes tbl as snappy-compressed Parquet rows.
func WriteParquet(w io.Writer, tbl signalbuf.Table) error {
	pw := parquet.NewGenericWriter[signalbuf.Row](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(tbl.Rows); err != nil {
		return fmt.Errorf("parquet write: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}

// ReadParquetTable reads rows written by WriteParquet.
func ReadParquetTable(r io.ReaderAt) (signalbuf.Table, error) {
	gr := parquet.NewGenericReader[signalbuf.Row](r)
	defer gr.Close()

	rows := make([]signalbuf.Row, 0, 1024)
	batch := make([]signalbuf.Row, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			rows = append(rows, batch[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return signalbuf.Table{}, fmt.Errorf("%w: parquet read: %w", ecg.ErrInvalidInput, err)
		}
	}

	return signalbuf.Table{Rate: rateFromRows(rows), Rows: rows}, nil
}

// ReadParquet loads the original_signal column of an exported table.
func ReadParquet(r io.ReaderAt) (Recording, error) {
	tbl, err := ReadParquetTable(r)
	if err != nil {
		return Recording{}, err
	}
	if tbl.Rate <= 0 || math.IsInf(tbl.Rate, 0) {
		return Recording{}, fmt.Errorf("%w: cannot derive a sample rate from %d rows", ecg.ErrInvalidInput, tbl.Len())
	}

	_, original, _ := tbl.Series()
	if err := checkSamples(original); err != nil {
		return Recording{}, err
	}
	return Recording{Samples: original, Rate: tbl.Rate, Label: signalbuf.ColumnOriginal}, nil
}
