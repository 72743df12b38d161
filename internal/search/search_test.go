package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

func quickPolicy(attempts int) ratelimit.Policy {
	return ratelimit.Policy{Attempts: attempts, Base: time.Millisecond, Cap: time.Millisecond}
}

type flakyBackend struct {
	failures int
	calls    int
}

func (f *flakyBackend) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, ratelimit.Retryable("search", errors.New("throttled"))
	}
	return []domain.SearchResult{{Title: "ok", URL: "https://acme.com"}}, nil
}

type keyRecorder struct {
	keys []string
}

func (k *keyRecorder) SearchWithKey(_ context.Context, apiKey, _ string, _ int) ([]domain.SearchResult, error) {
	k.keys = append(k.keys, apiKey)
	return nil, nil
}

func TestClientRetriesTransientFailures(t *testing.T) {
	b := &flakyBackend{failures: 2}
	c := NewClient(b, nil, "serp", quickPolicy(3))

	results, err := c.Search(context.Background(), "acme", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 3, b.calls)
}

func TestClientGivesUpAfterAttempts(t *testing.T) {
	b := &flakyBackend{failures: 10}
	c := NewClient(b, nil, "serp", quickPolicy(3))

	_, err := c.Search(context.Background(), "acme", 5)
	require.Error(t, err)
	require.Equal(t, 3, b.calls)
}

func TestKeyedClientRotatesCredentials(t *testing.T) {
	rec := &keyRecorder{}
	creds := ratelimit.NewCredentials([]string{"k1", "k2"})
	c := NewKeyedClient(rec, creds, nil, "serp", quickPolicy(1))

	for i := 0; i < 4; i++ {
		_, err := c.Search(context.Background(), "acme", 5)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"k1", "k2", "k1", "k2"}, rec.keys)
}

func TestKeyedClientWithoutCredentialsFails(t *testing.T) {
	rec := &keyRecorder{}
	c := NewKeyedClient(rec, ratelimit.NewCredentials(nil), nil, "serp", quickPolicy(1))

	_, err := c.Search(context.Background(), "acme", 5)
	require.ErrorIs(t, err, ratelimit.ErrNoCredentials)
	require.Empty(t, rec.keys)
}

func TestClientAcquiresLimiterBeforeCall(t *testing.T) {
	lim := ratelimit.NewLimiter(1, 1)
	b := &flakyBackend{}
	c := NewClient(b, lim, "serp", quickPolicy(1))

	// first call drains the bucket
	_, err := c.Search(context.Background(), "acme", 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "acme", 5)
	require.Error(t, err, "second call should block on the limiter and hit the deadline")
	require.Equal(t, 1, b.calls)
}
