// Package recording loads ECG sample sequences from disk and writes the
// (time, original, filtered) export table.
//
// Formats are chosen by file extension:
//
//	.txt .dat  whitespace separated, first column   (load; .txt also exports, tab separated)
//	.csv       comma separated, first column, optional header row
//	.edf       European Data Format, one signal selected by label or index
//	.parquet   the export table; loads the original_signal column
//
// Text formats carry no sample rate; the rate given with WithRate (default
// 1000 Hz) is used.
package recording
