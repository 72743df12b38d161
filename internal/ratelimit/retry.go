package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

// RetryableError marks a transient provider failure (429/5xx/timeout) worth
// another attempt. Anything else returned by a call is treated as fatal for
// that call and surfaced immediately.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: transient: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

func Retryable(op string, err error) error {
	return &RetryableError{Op: op, Err: err}
}

// IsRetryable reports whether err (anywhere in its chain) is transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// StatusError preserves the provider HTTP status for classification.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// ClassifyStatus wraps a non-2xx response: 429 and 5xx are retryable, the
// rest are fatal for the call.
func ClassifyStatus(op string, status int) error {
	err := &StatusError{Op: op, Status: status}
	if status == http.StatusTooManyRequests || status >= 500 {
		return Retryable(op, err)
	}
	return err
}

// Policy is the single retry combinator every client call goes through.
type Policy struct {
	Attempts int           // total tries, not re-tries
	Base     time.Duration // first backoff
	Cap      time.Duration // backoff ceiling
}

func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Base: 1 * time.Second, Cap: 8 * time.Second}
}

// Do runs fn up to p.Attempts times, backing off exponentially with jitter
// between attempts. Only RetryableError triggers another attempt; context
// cancellation and fatal errors end the loop immediately. The error from the
// final attempt is returned still wrapped, so callers can tell "gave up on a
// transient failure" apart from a hard one.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	base := p.Base
	if base <= 0 {
		base = time.Second
	}
	capd := p.Cap
	if capd <= 0 {
		capd = 8 * time.Second
	}

	var last error
	delay := base
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		last = err

		if i == attempts-1 {
			break
		}

		// full jitter over the current window
		sleep := time.Duration(rand.Int63n(int64(delay))) + delay/2
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		delay *= 2
		if delay > capd {
			delay = capd
		}
	}

	return fmt.Errorf("%s: retries exhausted: %w", op, last)
}
