// Package retry re-runs a failing function a bounded number of times.
// It is meant to wrap the task functions handed to the fanout engine; the engine
// itself never retries.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/ygrebnov/errorc"
)

var ErrInvalidConfig = errors.New("retry: invalid configuration")

type config struct {
	attempts int
	interval time.Duration
	retryIf  func(error) bool
	onRetry  func(attempt int, err error)
}

func defaultConfig() config {
	return config{
		attempts: 3,
		interval: 5 * time.Second,
		retryIf:  func(error) bool { return true },
		onRetry:  func(int, error) {},
	}
}

// Option configures Do and Value.
type Option func(*config) error

// Attempts sets the total number of calls, the first one included (must be > 0, default 3).
func Attempts(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "Attempts requires n > 0"))
		}
		cfg.attempts = n
		return nil
	}
}

// Interval sets the pause between calls (must be >= 0, default 5s).
func Interval(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("interval", d.String()))
		}
		cfg.interval = d
		return nil
	}
}

// If limits retries to errors for which fn reports true. Other errors are returned at once.
func If(fn func(error) bool) Option {
	return func(cfg *config) error {
		if fn == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "If requires a non-nil predicate"))
		}
		cfg.retryIf = fn
		return nil
	}
}

// OnRetry registers a callback invoked before each pause, e.g. to log the failed attempt.
func OnRetry(fn func(attempt int, err error)) Option {
	return func(cfg *config) error {
		if fn == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "OnRetry requires a non-nil callback"))
		}
		cfg.onRetry = fn
		return nil
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, or runs out of attempts.
// The last error is returned. Pauses are cut short when ctx is done, in which case
// the last error is returned joined with ctx.Err().
func Do(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	_, err := Value(ctx, func(c context.Context) (struct{}, error) { return struct{}{}, fn(c) }, opts...)
	return err
}

// Value is Do for functions producing a result.
func Value[R any](ctx context.Context, fn func(context.Context) (R, error), opts ...Option) (R, error) {
	var zero R

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return zero, err
		}
	}

	for attempt := 1; ; attempt++ {
		r, err := fn(ctx)
		if err == nil {
			return r, nil
		}
		if attempt >= cfg.attempts || !cfg.retryIf(err) {
			return zero, err
		}

		cfg.onRetry(attempt, err)

		if werr := sleep(ctx, cfg.interval); werr != nil {
			return zero, errors.Join(err, werr)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
