// Package export delivers finished contacts to wherever they go next
// (spreadsheet sync, CRM — not our problem past Emit).
package export

import (
	"context"
	"fmt"
	"log"
	"sync"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

// Sink receives terminal contacts. Implementations must tolerate concurrent
// Emit calls.
type Sink interface {
	Emit(ctx context.Context, c domain.Contact) error
}

// Buffered decouples the pipeline from a slow or flaky downstream: Emit
// enqueues and returns, a single drainer ships with its own retry policy.
// Search retries and emission retries never share a budget.
type Buffered struct {
	inner  Sink
	policy ratelimit.Policy

	ch      chan domain.Contact
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	dropped int
	failed  int
}

func NewBuffered(inner Sink, size int, policy ratelimit.Policy) *Buffered {
	if size <= 0 {
		size = 256
	}
	b := &Buffered{
		inner:  inner,
		policy: policy,
		ch:     make(chan domain.Contact, size),
	}
	b.wg.Add(1)
	go b.drain()
	return b
}

func (b *Buffered) Emit(ctx context.Context, c domain.Contact) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("export: sink closed")
	}
	b.mu.Unlock()

	select {
	case b.ch <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// full buffer: count the drop rather than stall enrichment workers
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
		return fmt.Errorf("export: buffer full, contact dropped")
	}
}

func (b *Buffered) drain() {
	defer b.wg.Done()
	for c := range b.ch {
		ctx := context.Background()
		err := b.policy.Do(ctx, "export emit", func(ctx context.Context) error {
			return b.inner.Emit(ctx, c)
		})
		if err != nil {
			b.mu.Lock()
			b.failed++
			b.mu.Unlock()
			log.Printf("[export] giving up on %s (%s): %v",
				c.Person.FullName, c.Company.RawName, err)
		}
	}
}

// Close flushes the queue and reports anything lost.
func (b *Buffered) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.ch)
	b.wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dropped > 0 || b.failed > 0 {
		return fmt.Errorf("export: %d dropped, %d failed", b.dropped, b.failed)
	}
	return nil
}

// Memory collects contacts in-process. Test double and dry-run sink.
type Memory struct {
	mu       sync.Mutex
	contacts []domain.Contact
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Emit(_ context.Context, c domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, c)
	return nil
}

func (m *Memory) Contacts() []domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Contact, len(m.contacts))
	copy(out, m.contacts)
	return out
}
