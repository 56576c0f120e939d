package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by helpers that treat a miss as an error.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable marks a backend that could not be reached. Wrap it with
	// Retryable to have a Backoff try again.
	ErrUnavailable = errors.New("backend unavailable")
)

// RetryableError marks an error worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err so that Backoff.Retry tries again. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with doubling delays.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff makes three attempts, waiting one then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns an error not marked Retryable,
// runs out of attempts or ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	n, delay := max(b.Attempts, 1), b.Delay
	var err error
	for i := range n {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}

// RetryWithBackoff retries fn with DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
