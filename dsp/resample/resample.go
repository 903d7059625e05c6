package resample

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls the anti-aliasing prototype.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile holds the prototype parameters of a quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

// maxDenominator caps the denominator of an approximated rate ratio.
const maxDenominator = 4096

type config struct {
	quality Quality
}

// Option configures a Resampler.
type Option func(*config)

// WithQuality selects a quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) { cfg.quality = q }
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Resampler converts by the rational factor up/down.
type Resampler struct {
	up, down int
	quality  Quality
	taps     []float64
}

// NewRational creates a resampler for the ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}
	g := gcd(up, down)
	up /= g
	down /= g

	cfg := applyOptions(opts)
	return &Resampler{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    design(up, down, QualityProfile(cfg.quality)),
	}, nil
}

// NewForRates creates a resampler from inRate to outRate, approximating the
// ratio by a continued fraction when it is not rational enough.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !(inRate > 0) || !(outRate > 0) || math.IsInf(inRate, 0) || math.IsInf(outRate, 0) {
		return nil, fmt.Errorf("%w: %v -> %v", ErrInvalidRate, inRate, outRate)
	}
	up, down := approximateRatio(outRate/inRate, maxDenominator)
	return NewRational(up, down, opts...)
}

// Convert resamples x from inRate to outRate. Equal rates return a copy.
func Convert(x []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if inRate == outRate && inRate > 0 {
		return append([]float64(nil), x...), nil
	}
	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	return r.Apply(x), nil
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality {
	return r.quality
}

// OutputLen returns the number of samples Apply produces for n inputs.
func (r *Resampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*r.up + r.down - 1) / r.down
}

// Apply resamples the whole of x.
func (r *Resampler) Apply(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	n := len(r.taps)
	delay := (n - 1) / 2
	last := len(x) - 1
	out := make([]float64, r.OutputLen(len(x)))

	for m := range out {
		// pos indexes the zero-stuffed signal at rate inRate*up.
		pos := m*r.down + delay
		var acc float64
		for j := pos % r.up; j < n; j += r.up {
			k := (pos - j) / r.up
			k = min(max(k, 0), last)
			acc += r.taps[j] * x[k]
		}
		out[m] = acc
	}
	return out
}

// design returns an odd-length lowpass prototype at rate inRate*up whose
// gain is up, so every polyphase branch has unity gain at DC.
func design(up, down int, p Profile) []float64 {
	n := p.TapsPerPhase * up
	if n%2 == 0 {
		n++
	}

	fc := 0.5 / float64(max(up, down)) * p.CutoffScale
	center := 0.5 * float64(n-1)
	taps := make([]float64, n)
	var sum float64
	for i := range taps {
		t := float64(i) - center
		taps[i] = 2 * fc * sinc(2*fc*t) * kaiser(i, n, p.KaiserBeta)
		sum += taps[i]
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}
	return taps
}

func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v
	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)
		p2, q2 := a*p1+p0, a*q1+q0
		if q2 > float64(maxDen) {
			break
		}
		p0, q0 = p1, q1
		p1, q1 = p2, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		a = -a
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}
	t := 2*float64(i)/float64(n-1) - 1
	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 sums the power series of the modified Bessel function I0.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	x2 := x * x / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
