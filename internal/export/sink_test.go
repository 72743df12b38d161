package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

func quickPolicy() ratelimit.Policy {
	return ratelimit.Policy{Attempts: 3, Base: time.Millisecond, Cap: 2 * time.Millisecond}
}

func contact(name string) domain.Contact {
	return domain.Contact{
		Person:  domain.PersonCandidate{FullName: name},
		Company: domain.NewCompany("Acme Inc", ""),
		Title:   "CEO",
	}
}

// flakySink fails the first n emits with a transient error.
type flakySink struct {
	mu       sync.Mutex
	failures int
	got      []domain.Contact
}

func (f *flakySink) Emit(_ context.Context, c domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return ratelimit.Retryable("emit", errors.New("downstream hiccup"))
	}
	f.got = append(f.got, c)
	return nil
}

func (f *flakySink) contacts() []domain.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Contact, len(f.got))
	copy(out, f.got)
	return out
}

func TestBufferedDeliversAndFlushesOnClose(t *testing.T) {
	inner := &flakySink{}
	b := NewBuffered(inner, 16, quickPolicy())

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Emit(context.Background(), contact("Jane Doe")))
	}
	require.NoError(t, b.Close())
	require.Len(t, inner.contacts(), 5)
}

func TestBufferedRetriesIndependently(t *testing.T) {
	inner := &flakySink{failures: 2}
	b := NewBuffered(inner, 16, quickPolicy())

	require.NoError(t, b.Emit(context.Background(), contact("Jane Doe")))
	require.NoError(t, b.Close())
	require.Len(t, inner.contacts(), 1, "transient downstream failures must be absorbed")
}

func TestBufferedReportsPermanentFailures(t *testing.T) {
	inner := &flakySink{failures: 1000}
	b := NewBuffered(inner, 16, quickPolicy())

	require.NoError(t, b.Emit(context.Background(), contact("Jane Doe")))
	err := b.Close()
	require.Error(t, err, "losses must be reported, not swallowed")
}

func TestBufferedRejectsAfterClose(t *testing.T) {
	b := NewBuffered(&flakySink{}, 4, quickPolicy())
	require.NoError(t, b.Close())
	require.Error(t, b.Emit(context.Background(), contact("Jane Doe")))
}

func TestMemorySinkConcurrent(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Emit(context.Background(), contact("Jane Doe"))
		}()
	}
	wg.Wait()
	require.Len(t, m.Contacts(), 20)
}
