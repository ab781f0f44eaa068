package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote backend cannot be reached.
var ErrNetwork = errors.New("network error")

// transient marks an error worth retrying.
type transient struct{ err error }

func (t transient) Error() string { return t.err.Error() }
func (t transient) Unwrap() error { return t.err }

// Retryable marks err as transient. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	return errors.As(err, new(transient))
}

// Backoff retries transient failures with exponentially growing pauses.
type Backoff struct {
	Attempts int           // total calls, including the first
	Initial  time.Duration // pause after the first failure
}

// DefaultBackoff is three attempts starting at 200ms.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 200 * time.Millisecond}

// Retry calls fn until it succeeds, fails permanently, the attempts run out
// or ctx ends. The last error is returned unchanged.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	pause := b.Initial
	err := fn()
	for n := 1; n < b.Attempts && IsRetryable(err); n++ {
		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		pause *= 2
		err = fn()
	}
	return err
}
