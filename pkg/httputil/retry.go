package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. The expansion client wraps
// timeouts, connection drops, and 5xx/429 responses with it so [Retry]
// knows a second attempt may succeed; everything else (auth failures,
// malformed requests) fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs op up to attempts times, doubling the wait between
// attempts. Only errors wrapped in [RetryableError] are retried; any
// other error is returned immediately. Cancellation during a backoff
// wait returns ctx.Err(); when every attempt fails the last error is
// returned.
func Retry(ctx context.Context, attempts int, wait time.Duration, op func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := range attempts {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			wait *= 2
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with the defaults the expansion client
// uses: 3 attempts starting at a 1 second wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
