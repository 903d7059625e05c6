package playback

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg"
)

const (
	// TickInterval is the reference wall-clock cadence of the display.
	TickInterval = 50 * time.Millisecond

	defaultSpeed        = 1.0
	defaultDisplayWidth = 10.0
)

// Config holds the user-adjustable playback parameters.
type Config struct {
	Speed               float64
	DisplayWidthSeconds float64
	TickInterval        time.Duration
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns real-time speed, a ten second window and 50 ms ticks.
func DefaultConfig() Config {
	return Config{
		Speed:               defaultSpeed,
		DisplayWidthSeconds: defaultDisplayWidth,
		TickInterval:        TickInterval,
	}
}

// WithSpeed sets the playback speed multiplier.
func WithSpeed(speed float64) Option {
	return func(cfg *Config) { cfg.Speed = speed }
}

// WithDisplayWidth sets the visible window in seconds.
func WithDisplayWidth(seconds float64) Option {
	return func(cfg *Config) { cfg.DisplayWidthSeconds = seconds }
}

// WithTickInterval sets the cadence the advance per tick is computed for.
func WithTickInterval(d time.Duration) Option {
	return func(cfg *Config) { cfg.TickInterval = d }
}

// ApplyOptions applies options to the default config and validates it.
func ApplyOptions(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := validatePositive("speed", cfg.Speed); err != nil {
		return Config{}, err
	}
	if err := validatePositive("display width", cfg.DisplayWidthSeconds); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("%w: tick interval must be > 0: %v", ecg.ErrInvalidInput, cfg.TickInterval)
	}

	return cfg, nil
}

func validatePositive(name string, v float64) error {
	if !(v > 0) || !core.IsFinite(v) {
		return fmt.Errorf("%w: %s must be > 0: %v", ecg.ErrInvalidInput, name, v)
	}
	return nil
}
