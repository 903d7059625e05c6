// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections are
// cascaded via [Chain] for higher-order filters.
//
// [FiltFilt] runs a cascade forward and backward over a complete signal so the
// result carries no phase shift relative to the input.
//
// This package provides the processing runtime only. Coefficient design lives
// in dsp/filter/design.
package biquad
