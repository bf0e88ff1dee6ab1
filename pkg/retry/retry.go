// Package retry bounds collaborator calls in time and repeats the ones that
// may be repeated.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrTimeout = errors.New("call timed out")

type Policy struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
}

// Call runs fn with a deadline of timeout. If fn has not returned when the
// deadline passes, Call returns ErrTimeout without waiting for it, so a
// collaborator that ignores its context still cannot stall the caller.
// A timeout of zero means no bound.
func Call(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &PanicError{Value: r}
			}
		}()
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		if err != nil && errors.Is(err, context.DeadlineExceeded) && callCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
		}
		return err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

// Do runs fn up to p.Attempts times with a fixed p.Delay between attempts.
// Each attempt is bounded by p.Timeout. A failed attempt is repeated only
// when retryable reports true for its error; timeouts are passed to
// retryable like any other failure. Do returns the number of attempts made
// and the last error.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = Call(ctx, p.Timeout, func(ctx context.Context) error {
			return fn(ctx, attempt)
		})
		if lastErr == nil {
			return attempt, nil
		}
		if attempt == attempts || (retryable != nil && !retryable(lastErr)) {
			return attempt, lastErr
		}

		if p.Delay > 0 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return attempt, ctx.Err()
			}
		}
	}
	return attempts, lastErr
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// PanicError carries a value recovered from a panicking call.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
