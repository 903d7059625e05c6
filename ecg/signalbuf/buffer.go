package signalbuf

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
	"github.com/cwbudde/algo-ecg/ecg/cascade"
)

// Buffer owns the original and current sample sequences of one recording.
type Buffer struct {
	rate     float64
	original []float64
	current  []float64
	time     []float64
	count    int
	gen      uint64
	opts     []cascade.Option
}

// New returns an empty buffer. The cascade options are used by every
// ApplyFilterCascade call.
func New(opts ...cascade.Option) *Buffer {
	return &Buffer{opts: opts}
}

// Load replaces the buffer contents with a copy of samples recorded at
// rate Hz and clears the application count.
func (b *Buffer) Load(samples []float64, rate float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("%w: empty sample sequence", ecg.ErrInvalidInput)
	}
	if !(rate > 0) || !core.IsFinite(rate) {
		return fmt.Errorf("%w: sample rate must be > 0: %v", ecg.ErrInvalidInput, rate)
	}
	if i := core.FirstNonFinite(samples); i >= 0 {
		return fmt.Errorf("%w: non-finite sample at index %d", ecg.ErrInvalidInput, i)
	}

	b.rate = rate
	b.original = core.Clone(samples)
	b.current = core.Clone(samples)
	b.time = timeAxis(len(samples), rate)
	b.count = 0
	b.gen++
	return nil
}

// Reset restores the current samples to the original recording.
func (b *Buffer) Reset() error {
	if !b.Loaded() {
		return ecg.ErrNotLoaded
	}

	b.current = core.Clone(b.original)
	b.count = 0
	b.gen++
	return nil
}

// ApplyFilterCascade filters the current samples and replaces them with the
// result. On error the buffer is unchanged.
func (b *Buffer) ApplyFilterCascade() error {
	if !b.Loaded() {
		return ecg.ErrNotLoaded
	}

	c, err := cascade.New(b.rate, b.opts...)
	if err != nil {
		return err
	}

	out, err := c.Apply(b.current)
	if err != nil {
		return err
	}

	b.current = out
	b.count++
	b.gen++
	return nil
}

// Snapshot is a detached copy of the buffer taken at one generation.
type Snapshot struct {
	Generation uint64
	Rate       float64
	Current    []float64
	Original   []float64
	Time       []float64
}

// Snapshot copies the buffer state. It fails with ecg.ErrNotLoaded on an
// empty buffer.
func (b *Buffer) Snapshot() (Snapshot, error) {
	if !b.Loaded() {
		return Snapshot{}, ecg.ErrNotLoaded
	}

	return Snapshot{
		Generation: b.gen,
		Rate:       b.rate,
		Current:    core.Clone(b.current),
		Original:   core.Clone(b.original),
		Time:       core.Clone(b.time),
	}, nil
}

// Commit installs samples computed from the snapshot taken at generation gen
// as the result of one filter application. It fails with ecg.ErrStaleResult
// if the buffer has been loaded, reset or filtered since.
func (b *Buffer) Commit(gen uint64, samples []float64) error {
	if !b.Loaded() {
		return ecg.ErrNotLoaded
	}
	if gen != b.gen {
		return fmt.Errorf("%w: generation %d, buffer at %d", ecg.ErrStaleResult, gen, b.gen)
	}
	if len(samples) != len(b.original) {
		return fmt.Errorf("%w: %d samples, buffer holds %d", ecg.ErrInvalidInput, len(samples), len(b.original))
	}

	b.current = core.Clone(samples)
	b.count++
	b.gen++
	return nil
}

// Options returns the cascade options the buffer filters with.
func (b *Buffer) Options() []cascade.Option {
	return append([]cascade.Option(nil), b.opts...)
}

// Loaded reports whether a recording is held.
func (b *Buffer) Loaded() bool { return len(b.original) > 0 }

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.original) }

// Rate returns the sample rate in Hz, or 0 before the first Load.
func (b *Buffer) Rate() float64 { return b.rate }

// ApplicationCount returns the number of filter applications since the last
// load or reset.
func (b *Buffer) ApplicationCount() int { return b.count }

// Filtered reports whether at least one filter application happened.
func (b *Buffer) Filtered() bool { return b.count > 0 }

// Generation returns a counter that changes on every mutation.
func (b *Buffer) Generation() uint64 { return b.gen }

// Current returns a copy of the current samples.
func (b *Buffer) Current() []float64 { return core.Clone(b.current) }

// Original returns a copy of the loaded samples.
func (b *Buffer) Original() []float64 { return core.Clone(b.original) }

// Time returns a copy of the time axis in seconds.
func (b *Buffer) Time() []float64 { return core.Clone(b.time) }

// CurrentView returns the current samples without copying. The slice must
// not be modified and is only valid until the next mutation.
func (b *Buffer) CurrentView() []float64 { return b.current }

// OriginalView returns the original samples without copying.
func (b *Buffer) OriginalView() []float64 { return b.original }

func timeAxis(n int, rate float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / rate
	}
	return t
}
