package session

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/ecg/cascade"
	"github.com/cwbudde/algo-ecg/ecg/playback"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	cascade  []cascade.Option
	playback []playback.Option
	yZoom    float64
	onFrame  func(Frame)
}

func defaultConfig() config {
	return config{
		logger: zap.NewNop(),
		yZoom:  1,
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCascadeOptions configures the filter cascade every application runs.
func WithCascadeOptions(opts ...cascade.Option) Option {
	return func(cfg *config) { cfg.cascade = append(cfg.cascade, opts...) }
}

// WithPlaybackOptions configures the playback cursor.
func WithPlaybackOptions(opts ...playback.Option) Option {
	return func(cfg *config) { cfg.playback = append(cfg.playback, opts...) }
}

// WithYZoom sets the initial vertical zoom.
func WithYZoom(zoom float64) Option {
	return func(cfg *config) { cfg.yZoom = zoom }
}

// WithFrameHandler registers a callback for every frame the playback
// scheduler produces. It runs on the scheduler goroutine and must not call
// Stop or Close.
func WithFrameHandler(fn func(Frame)) Option {
	return func(cfg *config) { cfg.onFrame = fn }
}
