// Package pass builds Butterworth low-pass and high-pass cascades out of
// second-order sections from package design.
package pass
