package signalbuf

import "github.com/cwbudde/algo-ecg/ecg"

// Column names of an exported table.
const (
	ColumnTime     = "time"
	ColumnOriginal = "original_signal"
	ColumnFiltered = "filtered_signal"
)

// Row is one exported sample.
type Row struct {
	Time     float64 `parquet:"time"`
	Original float64 `parquet:"original_signal"`
	Filtered float64 `parquet:"filtered_signal"`
}

// Table is the flat (time, original, filtered) export of a buffer in
// increasing time order.
type Table struct {
	Rate float64
	Rows []Row
}

// Columns returns the column names in row order.
func (Table) Columns() []string {
	return []string{ColumnTime, ColumnOriginal, ColumnFiltered}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Export returns one row per sample index.
func (b *Buffer) Export() (Table, error) {
	if !b.Loaded() {
		return Table{}, ecg.ErrNotLoaded
	}

	rows := make([]Row, len(b.original))
	for i := range rows {
		rows[i] = Row{
			Time:     b.time[i],
			Original: b.original[i],
			Filtered: b.current[i],
		}
	}

	return Table{Rate: b.rate, Rows: rows}, nil
}

// Series splits the table back into its three columns.
func (t Table) Series() (times, original, filtered []float64) {
	times = make([]float64, len(t.Rows))
	original = make([]float64, len(t.Rows))
	filtered = make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		times[i] = r.Time
		original[i] = r.Original
		filtered[i] = r.Filtered
	}
	return times, original, filtered
}
