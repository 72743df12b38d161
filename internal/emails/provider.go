// Package emails talks to the bulk email-discovery provider and turns its
// answers into validated, prioritized candidates for one domain.
package emails

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

// BulkProvider returns raw addresses known for a domain. An empty list is a
// normal answer, not an error.
type BulkProvider interface {
	FindEmails(ctx context.Context, dom string) ([]string, error)
}

// HTTPProvider is a hunter-style JSON API wrapper.
type HTTPProvider struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

// envelope is the provider wire shape; it is validated here and never leaks
// past this package.
type envelope struct {
	Data struct {
		Emails []struct {
			Value string `json:"value"`
		} `json:"emails"`
	} `json:"data"`
	Errors []struct {
		Details string `json:"details"`
	} `json:"errors"`
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		hc:      &http.Client{Timeout: 20 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *HTTPProvider) FindEmails(ctx context.Context, dom string) ([]string, error) {
	q := url.Values{}
	q.Set("domain", dom)
	if p.apiKey != "" {
		q.Set("api_key", p.apiKey)
	}

	u := p.baseURL + "/domain-search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("email provider request: %w", err)
	}

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, ratelimit.Retryable("email provider get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// provider has nothing for this domain
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ratelimit.ClassifyStatus("email provider get", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, ratelimit.Retryable("email provider read", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("email provider decode: %w", err)
	}
	if len(env.Errors) > 0 {
		return nil, fmt.Errorf("email provider: %s", env.Errors[0].Details)
	}

	out := make([]string, 0, len(env.Data.Emails))
	for _, e := range env.Data.Emails {
		if v := strings.TrimSpace(e.Value); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Discovery validates, prioritizes and caps provider output.
type Discovery struct {
	provider BulkProvider
	limiter  *ratelimit.Limiter
	policy   ratelimit.Policy
	maxPer   int
}

func NewDiscovery(provider BulkProvider, limiter *ratelimit.Limiter, policy ratelimit.Policy, maxPerDomain int) *Discovery {
	if maxPerDomain <= 0 {
		maxPerDomain = 15
	}
	return &Discovery{provider: provider, limiter: limiter, policy: policy, maxPer: maxPerDomain}
}

// Candidates fetches addresses for dom and returns up to maxPerDomain
// candidates, personal-looking first. Addresses on a different domain are
// dropped outright — providers occasionally return neighbors.
func (d *Discovery) Candidates(ctx context.Context, dom string) ([]domain.EmailCandidate, error) {
	dom = strings.ToLower(strings.TrimSpace(dom))
	if dom == "" {
		return nil, nil
	}

	var raw []string
	err := d.policy.Do(ctx, "find emails", func(ctx context.Context) error {
		if d.limiter != nil {
			if err := d.limiter.Acquire(ctx, "emails"); err != nil {
				return err
			}
		}
		res, err := d.provider.FindEmails(ctx, dom)
		if err != nil {
			return err
		}
		raw = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	var personal, generic []domain.EmailCandidate
	seen := map[string]bool{}

	for _, addr := range raw {
		// keep the local-part's case: camelCase locals carry name boundaries
		addr = strings.TrimSpace(addr)
		local, addrDom, ok := splitAddress(addr)
		if !ok {
			continue
		}
		addrDom = strings.ToLower(addrDom)
		if addrDom != dom {
			continue
		}
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true

		c := domain.EmailCandidate{
			Address:   addr,
			Domain:    addrDom,
			IsGeneric: domain.IsGenericLocalPart(local),
		}
		if c.IsGeneric {
			generic = append(generic, c)
		} else {
			personal = append(personal, c)
		}
	}

	out := append(personal, generic...)
	if len(out) > d.maxPer {
		out = out[:d.maxPer]
	}
	return out, nil
}

func splitAddress(addr string) (local, dom string, ok bool) {
	i := strings.LastIndex(addr, "@")
	if i <= 0 || i == len(addr)-1 {
		return "", "", false
	}
	return addr[:i], addr[i+1:], true
}
