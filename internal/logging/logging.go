// Package logging builds the zap loggers used by the session and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes a logger.
type Config struct {
	Level   zapcore.Level
	Console bool
	Output  io.Writer
	Fields  map[string]any
}

// Option mutates a Config.
type Option func(*Config)

// WithLevel sets the minimum level from its name (debug, info, warn, error).
// Unknown names select info.
func WithLevel(name string) Option {
	return func(cfg *Config) { cfg.Level = ParseLevel(name) }
}

// WithConsole selects the human-readable console encoder instead of JSON.
func WithConsole(console bool) Option {
	return func(cfg *Config) { cfg.Console = console }
}

// WithOutput redirects log lines to w.
func WithOutput(w io.Writer) Option {
	return func(cfg *Config) { cfg.Output = w }
}

// WithFields attaches fields to every log line.
func WithFields(fields map[string]any) Option {
	return func(cfg *Config) {
		if cfg.Fields == nil {
			cfg.Fields = map[string]any{}
		}
		for k, v := range fields {
			if k == "" {
				continue
			}
			cfg.Fields[k] = v
		}
	}
}

// New builds a logger writing to stderr at info level by default.
func New(opts ...Option) *zap.Logger {
	cfg := Config{Level: zapcore.InfoLevel, Output: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Console {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(cfg.Output), zap.NewAtomicLevelAt(cfg.Level))
	logger := zap.New(core, zap.AddCaller())

	if len(cfg.Fields) > 0 {
		logger = logger.With(fieldsFromMap(cfg.Fields)...)
	}
	return logger
}

// ParseLevel converts a level name to a zap level. Unknown names map to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Samples is a field carrying a sample count.
func Samples(n int) zap.Field { return zap.Int("samples", n) }

// Rate is a field carrying a sample rate in Hz.
func Rate(hz float64) zap.Field { return zap.Float64("rate", hz) }

// Path is a field carrying a file path.
func Path(p string) zap.Field { return zap.String("path", p) }

func fieldsFromMap(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Sync flushes logger and ignores the errors stderr and stdout report on
// some platforms.
func Sync(logger *zap.Logger) error {
	if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
		return fmt.Errorf("logging: sync: %w", err)
	}
	return nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
