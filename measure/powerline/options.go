package powerline

const (
	defaultLineHz           = 50.0
	defaultHarmonics        = 3
	defaultBaselineCutoffHz = 0.5
	defaultEdgeSeconds      = 1.0
)

// Config controls an analysis.
type Config struct {
	// LineHz is the mains frequency whose amplitude is measured.
	LineHz float64
	// Harmonics is the number of line multiples reported, fundamental
	// included. Multiples at or above Nyquist are dropped.
	Harmonics int
	// BaselineCutoffHz bounds the band counted as baseline wander.
	BaselineCutoffHz float64
	// EdgeSeconds is excluded from both ends of each trace so filter start-up
	// transients do not leak into the measurement. It is ignored when the
	// trace is too short to lose that much.
	EdgeSeconds float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig measures 50 Hz and two harmonics with a 0.5 Hz baseline
// band and one second trimmed at each end.
func DefaultConfig() Config {
	return Config{
		LineHz:           defaultLineHz,
		Harmonics:        defaultHarmonics,
		BaselineCutoffHz: defaultBaselineCutoffHz,
		EdgeSeconds:      defaultEdgeSeconds,
	}
}

// WithLineHz sets the mains frequency.
func WithLineHz(hz float64) Option {
	return func(c *Config) { c.LineHz = hz }
}

// WithHarmonics sets the number of line multiples to report.
func WithHarmonics(n int) Option {
	return func(c *Config) { c.Harmonics = n }
}

// WithBaselineCutoff sets the upper edge of the baseline band.
func WithBaselineCutoff(hz float64) Option {
	return func(c *Config) { c.BaselineCutoffHz = hz }
}

// WithEdgeSeconds sets how much of each end is excluded. Zero analyses the
// whole trace.
func WithEdgeSeconds(s float64) Option {
	return func(c *Config) { c.EdgeSeconds = s }
}

// ApplyOptions returns the default config with opts applied.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
