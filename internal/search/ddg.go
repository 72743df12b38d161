package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/ratelimit"
)

// DDGClient queries the DuckDuckGo HTML endpoint. No API key, but the
// endpoint throttles aggressively, so it always sits behind a Client.
type DDGClient struct {
	hc      *http.Client
	baseURL string
}

func NewDDG() *DDGClient {
	return &DDGClient{
		hc:      &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://duckduckgo.com/html/",
	}
}

// NewDDGWithBase exists so tests can point the client at an httptest server.
func NewDDGWithBase(base string, hc *http.Client) *DDGClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &DDGClient{hc: hc, baseURL: base}
}

func (d *DDGClient) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	u := d.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("ddg request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, ratelimit.Retryable("ddg get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ratelimit.ClassifyStatus("ddg get", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ddg parse html: %w", err)
	}

	var out []domain.SearchResult

	// DDG HTML results: each .result holds a.result__a (title+href) and
	// .result__snippet.
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		a := s.Find("a.result__a").First()
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}

		target := decodeDDGRedirect(href)
		if target == "" {
			return true
		}

		out = append(out, domain.SearchResult{
			Title:   cleanText(a.Text()),
			URL:     target,
			Snippet: cleanText(s.Find(".result__snippet").Text()),
		})
		return len(out) < maxResults
	})

	return out, nil
}

// decodeDDGRedirect unwraps /l/?uddg=<urlencoded> redirect links.
func decodeDDGRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := u.Query().Get("uddg"); uddg != "" {
		if dec, err := url.QueryUnescape(uddg); err == nil && dec != "" {
			return dec
		}
	}
	return href
}

// HostOf returns a lowercased host ("www." stripped) or "".
func HostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" && !strings.Contains(raw, "/") {
		// bare "acme.com" style input
		host = strings.TrimSpace(raw)
	}
	host = strings.ToLower(host)
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// PathDepth counts meaningful path segments; the homepage scores 0.
func PathDepth(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		return 0
	}
	return len(strings.Split(p, "/"))
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
