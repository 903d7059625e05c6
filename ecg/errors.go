package ecg

import "errors"

var (
	// ErrInvalidInput reports an empty or malformed sample sequence or an
	// out-of-range parameter such as a non-positive rate, speed or zoom.
	ErrInvalidInput = errors.New("ecg: invalid input")

	// ErrNotLoaded reports an operation that needs a loaded recording.
	ErrNotLoaded = errors.New("ecg: no recording loaded")

	// ErrFilterDesign reports a cutoff/rate combination that violates the
	// Nyquist limit or the filter order constraints.
	ErrFilterDesign = errors.New("ecg: filter design failed")

	// ErrConcurrentOperation reports a filter application requested while
	// another one is still running.
	ErrConcurrentOperation = errors.New("ecg: filter application already in progress")

	// ErrNoData is the warning returned when playback is started on an empty
	// buffer.
	ErrNoData = errors.New("ecg: no data")

	// ErrStaleResult reports a background filter result that was discarded
	// because the buffer was reset or reloaded while it was computed.
	ErrStaleResult = errors.New("ecg: filter result discarded after reset")

	// ErrUnsupportedFormat reports a recording file type with no loader or
	// exporter.
	ErrUnsupportedFormat = errors.New("ecg: unsupported file format")
)
