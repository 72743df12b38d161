package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func quickPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, Base: time.Millisecond, Cap: 4 * time.Millisecond}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		err := ClassifyStatus("op", tt.status)
		if IsRetryable(err) != tt.retryable {
			t.Errorf("status %d: IsRetryable = %v, want %v", tt.status, !tt.retryable, tt.retryable)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.Status != tt.status {
			t.Errorf("status %d lost in wrapping: %v", tt.status, err)
		}
	}
}

func TestDoRetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := quickPolicy(3).Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable("op", errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnFatal(t *testing.T) {
	fatal := errors.New("bad request")
	calls := 0
	err := quickPolicy(3).Do(context.Background(), "op", func(context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("got %v", err)
	}
	if calls != 1 {
		t.Errorf("fatal error retried: calls = %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := quickPolicy(3).Do(context.Background(), "op", func(context.Context) error {
		calls++
		return Retryable("op", errors.New("still down"))
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !IsRetryable(err) {
		t.Error("exhaustion result should still identify as transient")
	}
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := quickPolicy(3).Do(ctx, "op", func(context.Context) error {
		calls++
		return Retryable("op", errors.New("x"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if calls != 0 {
		t.Errorf("ran %d times under a cancelled context", calls)
	}
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Policy{Attempts: 3, Base: time.Second, Cap: time.Second}.Do(ctx, "op",
		func(context.Context) error {
			return Retryable("op", errors.New("x"))
		})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
}
