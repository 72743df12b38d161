package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

// SerpAPIClient is a keyed JSON search backend (serpapi-style wire format).
// It implements KeyedProvider; the Client layer owns which key each call uses.
type SerpAPIClient struct {
	hc      *http.Client
	baseURL string
}

type serpEnvelope struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func NewSerpAPI(baseURL string) *SerpAPIClient {
	if baseURL == "" {
		baseURL = "https://serpapi.com/search.json"
	}
	return &SerpAPIClient{
		hc:      &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

func (s *SerpAPIClient) SearchWithKey(ctx context.Context, apiKey, query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("num", strconv.Itoa(maxResults))
	q.Set("api_key", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serp request: %w", err)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, ratelimit.Retryable("serp get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ratelimit.ClassifyStatus("serp get", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, ratelimit.Retryable("serp read", err)
	}

	var env serpEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("serp decode: %w", err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("serp: %s", env.Error)
	}

	out := make([]domain.SearchResult, 0, len(env.OrganicResults))
	for _, r := range env.OrganicResults {
		link := strings.TrimSpace(r.Link)
		if link == "" {
			continue
		}
		out = append(out, domain.SearchResult{
			Title:   strings.TrimSpace(r.Title),
			URL:     link,
			Snippet: strings.TrimSpace(r.Snippet),
		})
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}
