// Package search wraps external web/profile search indexes behind a typed
// provider boundary. Whatever shape the provider answers in, only
// domain.SearchResult crosses into the pipeline.
package search

import (
	"context"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

// Provider is a single search backend.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}

// KeyedProvider is a backend that authenticates per call (rotating API keys).
type KeyedProvider interface {
	SearchWithKey(ctx context.Context, apiKey, query string, maxResults int) ([]domain.SearchResult, error)
}

// Client applies the shared limiter, retry policy and credential rotation
// around a backend. Every pipeline component searches through one of these.
type Client struct {
	backend  Provider
	keyed    KeyedProvider
	creds    *ratelimit.Credentials
	limiter  *ratelimit.Limiter
	limitKey string
	policy   ratelimit.Policy
}

func NewClient(backend Provider, limiter *ratelimit.Limiter, limitKey string, policy ratelimit.Policy) *Client {
	return &Client{
		backend:  backend,
		limiter:  limiter,
		limitKey: limitKey,
		policy:   policy,
	}
}

// NewKeyedClient wires a key-rotating backend. Rotation is owned here, not in
// the backend.
func NewKeyedClient(backend KeyedProvider, creds *ratelimit.Credentials, limiter *ratelimit.Limiter, limitKey string, policy ratelimit.Policy) *Client {
	return &Client{
		keyed:    backend,
		creds:    creds,
		limiter:  limiter,
		limitKey: limitKey,
		policy:   policy,
	}
}

func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	var out []domain.SearchResult

	err := c.policy.Do(ctx, "search", func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Acquire(ctx, c.limitKey); err != nil {
				return err
			}
		}

		var (
			res []domain.SearchResult
			err error
		)
		if c.keyed != nil {
			key, kerr := c.creds.Next()
			if kerr != nil {
				return kerr
			}
			res, err = c.keyed.SearchWithKey(ctx, key, query, maxResults)
		} else {
			res, err = c.backend.Search(ctx, query, maxResults)
		}
		if err != nil {
			return err
		}
		out = res
		return nil
	})

	return out, err
}
