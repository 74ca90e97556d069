// Package retry runs an operation under a bounded attempt count with a
// pluggable backoff schedule. Sleep is injectable so failure paths can be
// exercised in tests without waiting.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int
	// Backoff returns the delay after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether err is worth another attempt. Nil retries every error.
	Retryable func(err error) bool
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Linear returns a backoff of attempt × step.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Default is three attempts spaced 2s then 4s apart.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     Linear(2 * time.Second),
	}
}

// ExhaustedError is returned once every attempt has failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Do calls op until it succeeds, returns a non-retryable error, the
// attempt budget is spent, or ctx is done.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
			return err
		}

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return fmt.Errorf("%w (last error: %v)", err, lastErr)
			}
		}
	}

	return &ExhaustedError{Attempts: maxAttempts, Err: lastErr}
}

// IsExhausted reports whether err came from spending every attempt.
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return errors.As(err, &ee)
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
