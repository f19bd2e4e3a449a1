package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. The Redis backend wraps
// transport failures this way so callers can tell a flaky connection from
// a bad request.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to three times, doubling the wait between
// attempts starting at one second. Only errors marked with [Retryable]
// are retried; anything else is returned as soon as fn produces it.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const maxAttempts = 3

	wait := time.Second
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == maxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
}
