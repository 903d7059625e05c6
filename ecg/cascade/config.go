package cascade

// Defaults of the clinical clean-up cascade.
const (
	DefaultHighpassHz    = 0.5
	DefaultHighpassOrder = 4
	DefaultNotchHz       = 50
	DefaultNotchQ        = 30
	DefaultLowpassHz     = 40
	DefaultLowpassOrder  = 4
)

// Config describes the three stages of a cascade.
type Config struct {
	HighpassHz    float64
	HighpassOrder int
	NotchHz       float64
	NotchQ        float64
	LowpassHz     float64
	LowpassOrder  int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the 0.5 Hz / 50 Hz / 40 Hz cascade.
func DefaultConfig() Config {
	return Config{
		HighpassHz:    DefaultHighpassHz,
		HighpassOrder: DefaultHighpassOrder,
		NotchHz:       DefaultNotchHz,
		NotchQ:        DefaultNotchQ,
		LowpassHz:     DefaultLowpassHz,
		LowpassOrder:  DefaultLowpassOrder,
	}
}

// WithHighpass sets the baseline-wander cutoff and order.
func WithHighpass(freq float64, order int) Option {
	return func(cfg *Config) {
		cfg.HighpassHz = freq
		cfg.HighpassOrder = order
	}
}

// WithNotch sets the powerline notch center and quality factor.
func WithNotch(freq, q float64) Option {
	return func(cfg *Config) {
		cfg.NotchHz = freq
		cfg.NotchQ = q
	}
}

// WithPowerline60Hz moves the notch to 60 Hz for regions with 60 Hz mains.
func WithPowerline60Hz() Option {
	return func(cfg *Config) {
		cfg.NotchHz = 60
	}
}

// WithLowpass sets the high-frequency noise cutoff and order.
func WithLowpass(freq float64, order int) Option {
	return func(cfg *Config) {
		cfg.LowpassHz = freq
		cfg.LowpassOrder = order
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
