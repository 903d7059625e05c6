// Package signalbuf holds a loaded ECG recording: the original samples, the
// current (possibly filtered) samples and the derived time axis.
//
// Every filter application runs the full cascade over the current samples,
// so repeated applications compound. Reset restores the original samples.
//
// A Buffer is not safe for concurrent use; the session package serialises
// access to it.
package signalbuf
