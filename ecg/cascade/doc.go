// Package cascade implements the ECG clean-up filter cascade.
//
// Three stages run in a fixed order, each over the complete output of the
// previous one:
//
//  1. baseline-wander removal: 4th-order Butterworth high-pass at 0.5 Hz
//  2. powerline removal: second-order notch at 50 Hz with Q = 30
//  3. high-frequency noise removal: 4th-order Butterworth low-pass at 40 Hz
//
// Every stage is applied forward and backward (see biquad.FiltFilt), so the
// output is time-aligned with the input sample for sample and can be drawn on
// the same time axis as the raw trace.
//
// A Cascade holds no signal state. Apply is deterministic: the same input and
// rate always give bit-identical output.
package cascade
