package playback

import (
	"math"
	"time"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
)

// State is the playback state.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Cursor tracks the playback position within a buffer of Len samples
// recorded at Rate Hz. It is not safe for concurrent use.
type Cursor struct {
	cfg   Config
	n     int
	rate  float64
	index int
	state State
}

// NewCursor returns a stopped cursor at index 0 with no data.
func NewCursor(opts ...Option) (*Cursor, error) {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Cursor{cfg: cfg}, nil
}

// SetBuffer points the cursor at a buffer of n samples at rate Hz. The cursor
// stops and moves to 0.
func (c *Cursor) SetBuffer(n int, rate float64) {
	c.n = max(n, 0)
	c.rate = rate
	c.index = 0
	c.state = Stopped
}

// Start switches to Playing. At the last sample or beyond the cursor first
// wraps to 0. On an empty buffer nothing changes and ecg.ErrNoData is
// returned as a warning.
func (c *Cursor) Start() error {
	if c.n == 0 {
		return ecg.ErrNoData
	}
	if c.index >= c.n-1 {
		c.index = 0
	}
	c.state = Playing
	return nil
}

// Stop switches to Stopped. It is idempotent.
func (c *Cursor) Stop() {
	c.state = Stopped
}

// Step returns the number of samples one tick advances, saturated at
// math.MaxInt for very large speeds.
func (c *Cursor) Step() int {
	adv := c.advance()
	if adv >= math.MaxInt {
		return math.MaxInt
	}
	return int(adv)
}

func (c *Cursor) advance() float64 {
	return math.Floor(c.rate * c.cfg.TickInterval.Seconds() * c.cfg.Speed)
}

// Tick advances a playing cursor by one step and returns the new progress.
// It reports false and changes nothing while stopped.
func (c *Cursor) Tick() (float64, bool) {
	if c.state != Playing || c.n == 0 {
		return c.Progress(), false
	}

	// Compared in float64 so a huge step cannot overflow the index.
	if next := float64(c.index) + c.advance(); next >= float64(c.n) {
		c.index = 0
	} else {
		c.index = int(next)
	}
	return c.Progress(), true
}

// Seek moves a stopped cursor to floor(fraction*N). The fraction is clamped
// to [0, 1]. While playing the call is ignored.
func (c *Cursor) Seek(fraction float64) {
	if c.state == Playing || math.IsNaN(fraction) {
		return
	}
	fraction = core.Clamp(fraction, 0, 1)
	c.index = int(math.Floor(fraction * float64(c.n)))
}

// SetSpeed sets the speed multiplier. It must be positive.
func (c *Cursor) SetSpeed(speed float64) error {
	if err := validatePositive("speed", speed); err != nil {
		return err
	}
	c.cfg.Speed = speed
	return nil
}

// SetDisplayWidth sets the visible window in seconds. It must be positive.
func (c *Cursor) SetDisplayWidth(seconds float64) error {
	if err := validatePositive("display width", seconds); err != nil {
		return err
	}
	c.cfg.DisplayWidthSeconds = seconds
	return nil
}

// State returns the current state.
func (c *Cursor) State() State { return c.state }

// Playing reports whether the cursor is playing.
func (c *Cursor) Playing() bool { return c.state == Playing }

// Index returns the cursor position.
func (c *Cursor) Index() int { return c.index }

// Len returns the buffer length the cursor moves over.
func (c *Cursor) Len() int { return c.n }

// Rate returns the sample rate of the buffer.
func (c *Cursor) Rate() float64 { return c.rate }

// Speed returns the speed multiplier.
func (c *Cursor) Speed() float64 { return c.cfg.Speed }

// DisplayWidth returns the visible window in seconds.
func (c *Cursor) DisplayWidth() float64 { return c.cfg.DisplayWidthSeconds }

// TickInterval returns the cadence the cursor expects Tick to be called at.
func (c *Cursor) TickInterval() time.Duration { return c.cfg.TickInterval }

// Progress returns index/N, or 0 on an empty buffer.
func (c *Cursor) Progress() float64 {
	if c.n == 0 {
		return 0
	}
	return float64(c.index) / float64(c.n)
}
