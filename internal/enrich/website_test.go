package enrich

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"leadscout-engine/internal/domain"
)

// failingTransport keeps resolver probes off the network in tests.
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("no network in tests")
}

func newTestResolver(fake *fakeProvider, extraBlocked ...string) *Resolver {
	r := NewResolver(fake, nil, extraBlocked...)
	r.probe = &http.Client{Transport: failingTransport{}}
	return r
}

func TestResolveFirstQueryWins(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{
		`"Acme" official website`: {
			{Title: "Acme | Home", URL: "https://www.acme.com/"},
		},
	}}

	co := domain.NewCompany("Acme Inc", "")
	r := newTestResolver(fake)
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Equal(t, "acme.com", co.Domain)
	require.Equal(t, "https://www.acme.com/", co.Website)
	require.Len(t, fake.calls, 1)
}

func TestResolveCascadesWhenEarlyQueriesMiss(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{
		`Acme site`: {
			{Title: "Acme", URL: "https://acme.io/products"},
		},
	}}

	co := domain.NewCompany("Acme Inc", "")
	r := newTestResolver(fake)
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Equal(t, "acme.io", co.Domain)
	require.Equal(t, "https://acme.io", co.Website, "subpage hit should resolve to the homepage")
	require.Len(t, fake.calls, 3)
}

func TestResolveSkipsBlockedDomains(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{
		`"Acme" official website`: {
			{Title: "Acme | LinkedIn", URL: "https://www.linkedin.com/company/acme"},
			{Title: "Acme on Yelp", URL: "https://yelp.com/biz/acme"},
			{Title: "Acme", URL: "https://acme.com"},
		},
	}}

	co := domain.NewCompany("Acme Inc", "")
	r := newTestResolver(fake)
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Equal(t, "acme.com", co.Domain)
}

func TestResolveExtraBlocklist(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{
		`"Acme" official website`: {
			{Title: "Acme listing", URL: "https://leadboard.example/acme"},
		},
	}}

	co := domain.NewCompany("Acme Inc", "")
	// the lead-source site itself must never be "resolved" as the company
	r := newTestResolver(fake, "leadboard.example")
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Empty(t, co.Domain)
}

func TestResolvePrefersHomepageOverSubpage(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{
		`"Acme" official website`: {
			{Title: "About Acme", URL: "https://acme.com/about"},
			{Title: "Acme", URL: "https://acme.com/"},
		},
	}}

	co := domain.NewCompany("Acme Inc", "")
	r := newTestResolver(fake)
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Equal(t, "acme.com", co.Domain)
	require.Equal(t, "https://acme.com/", co.Website)
}

func TestResolveAllStrategiesFailIsNotAnError(t *testing.T) {
	fake := &fakeProvider{byQuery: map[string][]domain.SearchResult{}}

	co := domain.NewCompany("Unknown Local Shop", "")
	r := newTestResolver(fake)
	require.NoError(t, r.Resolve(context.Background(), &co))
	require.Empty(t, co.Domain)
	require.Empty(t, co.Website)
	require.Len(t, fake.calls, 3, "all three query shapes should have been tried")
}
