// Package design provides digital IIR filter coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad for runtime processing: RBJ-style second-order low-pass
// and high-pass sections and a constant-bandwidth notch for powerline hum.
//
// The sub-package design/pass builds higher-order Butterworth cascades from
// these sections.
package design
