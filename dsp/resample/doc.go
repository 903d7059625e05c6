// Package resample converts whole recordings between sample rates with a
// Kaiser-windowed sinc prototype split into polyphase branches.
//
// The prototype's group delay is removed, so output sample m lands on time
// m/outRate exactly like input sample k lands on k/inRate. Samples beyond
// either end are taken as the nearest edge value, which keeps a constant
// baseline constant up to the edges.
//
// Quality modes:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
