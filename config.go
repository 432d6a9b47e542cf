package fanout

import (
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/fanout/metrics"
)

// config holds the settings of a single engine invocation.
type config struct {
	// Workers defines the number of workers draining the queue.
	// Default: runtime.NumCPU().
	Workers int

	// Trim drops outputs of tasks which returned ErrNoResult.
	// Default: true.
	Trim bool

	// AllErrors makes a failed run return errors.Join of every observed failure
	// instead of only the first one. Workers still stop after the first failure,
	// so only failures of tasks which were already in flight are added.
	// Default: false (first failure wins).
	AllErrors bool

	// ErrorTagging wraps task failures into *TaskError carrying the failed item.
	// Default: true.
	ErrorTagging bool

	// Metrics receives engine instruments.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// Logger receives debug records about runs and dropped failures.
	// Default: a logger discarding all records.
	Logger *slog.Logger
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Workers:      runtime.NumCPU(),
		Trim:         true,
		AllErrors:    false,
		ErrorTagging: true,
		Metrics:      metrics.NewNoopProvider(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// validateConfig checks invariants which options alone cannot guarantee.
func validateConfig(cfg *config) error {
	if cfg.Workers <= 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("workers", strconv.Itoa(cfg.Workers)))
	}
	if cfg.Metrics == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "metrics provider is nil"))
	}
	if cfg.Logger == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "logger is nil"))
	}
	return nil
}

// newConfig applies opts on top of the defaults and validates the result.
func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Option configures an engine invocation.
type Option func(*config) error

// WithWorkers sets the number of workers (must be > 0).
func WithWorkers(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithWorkers requires n > 0"))
		}
		cfg.Workers = n
		return nil
	}
}

// WithTrim controls whether outputs of tasks returning ErrNoResult are dropped (default true).
// Map always disables trimming.
func WithTrim(trim bool) Option {
	return func(cfg *config) error { cfg.Trim = trim; return nil }
}

// WithAllErrors returns every failure observed during a failed run joined with errors.Join.
func WithAllErrors() Option {
	return func(cfg *config) error { cfg.AllErrors = true; return nil }
}

// WithoutErrorTagging returns task failures as is, without the *TaskError wrapper.
func WithoutErrorTagging() Option {
	return func(cfg *config) error { cfg.ErrorTagging = false; return nil }
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}
