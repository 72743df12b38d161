package ratelimit

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound calls per client key (serp, emails, profile, etc).
// Each key gets its own token bucket, created lazily; x/time/rate queues
// waiters in FIFO order, which keeps callers starvation-free.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewLimiter(reqPerSec float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.m[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.r, l.b)
	l.m[key] = lim
	return lim
}

// Acquire blocks until the key's bucket permits a call or ctx is done.
func (l *Limiter) Acquire(ctx context.Context, key string) error {
	if key == "" {
		key = "_"
	}
	return l.limiterFor(key).Wait(ctx)
}

// Credentials rotates a fixed set of API keys round-robin. The limiter layer
// owns rotation so individual clients never track key state themselves.
type Credentials struct {
	mu   sync.Mutex
	keys []string
	next int
}

var ErrNoCredentials = errors.New("no credentials configured")

func NewCredentials(keys []string) *Credentials {
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			kept = append(kept, k)
		}
	}
	return &Credentials{keys: kept}
}

func (c *Credentials) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Next returns the next key in rotation.
func (c *Credentials) Next() (string, error) {
	if c == nil || len(c.keys) == 0 {
		return "", ErrNoCredentials
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.keys[c.next]
	c.next = (c.next + 1) % len(c.keys)
	return k, nil
}
