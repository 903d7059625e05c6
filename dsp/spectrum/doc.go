// Package spectrum measures the frequency content of ECG traces: single
// frequencies with the Goertzel algorithm and whole spectra with a windowed
// FFT periodogram.
package spectrum
