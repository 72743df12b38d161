package enrich

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/search"
	"leadscout-engine/internal/store"
)

var domainBlocklist = []string{
	"linkedin.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"indeed.com",
	"glassdoor.com",
	"wikipedia.org",
	"yelp.com",
	"crunchbase.com",
	"ziprecruiter.com",
	"monster.com",
	"bloomberg.com",
	"youtube.com",
	"pinterest.com",
	"duckduckgo.com",
	"google.com",
	"yellowpages.com",
	"bbb.org",
	"zoominfo.com",
	"apollo.io",
}

// Resolver finds a company's canonical domain via cascading searches, with a
// TLD-guess probe as last resort. Results are cached by company key.
type Resolver struct {
	searcher  search.Provider
	cache     *store.Cache
	probe     *http.Client
	blocklist []string
	guessTLDs []string
}

func NewResolver(searcher search.Provider, cache *store.Cache, extraBlocked ...string) *Resolver {
	bl := append([]string{}, domainBlocklist...)
	for _, b := range extraBlocked {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			bl = append(bl, b)
		}
	}
	return &Resolver{
		searcher:  searcher,
		cache:     cache,
		probe:     &http.Client{Timeout: 6 * time.Second},
		blocklist: bl,
		guessTLDs: []string{".com", ".io", ".net"},
	}
}

// Resolve fills co.Domain and co.Website, or leaves them empty if every
// strategy comes up dry. An unresolved company is a skip, not an error.
func (r *Resolver) Resolve(ctx context.Context, co *domain.Company) error {
	if co.NormalizedName == "" {
		return nil
	}

	if r.cache != nil {
		if dom, _ := r.cache.GetDomain(ctx, co.Key()); dom != "" {
			co.Domain = dom
			co.Website = "https://" + dom
			return nil
		}
	}

	dom, site, err := r.searchCascade(ctx, co)
	if err != nil {
		return err
	}

	if dom == "" {
		dom = r.guessDomain(ctx, co.NormalizedName)
		if dom != "" {
			site = "https://" + dom
		}
	}
	if dom == "" {
		return nil
	}

	co.Domain = dom
	co.Website = site
	if r.cache != nil {
		if err := r.cache.PutDomain(ctx, co.Key(), dom); err != nil {
			log.Printf("[website] cache put %q: %v", co.Key(), err)
		}
	}
	return nil
}

func (r *Resolver) searchCascade(ctx context.Context, co *domain.Company) (dom, site string, err error) {
	name := sanitizeForSearch(co.NormalizedName)
	loc := strings.TrimSpace(co.Location)

	type attempt struct {
		query string
		max   int
	}
	attempts := []attempt{
		{fmt.Sprintf("%q official website", name), 5},
		{fmt.Sprintf("%q company website", name), 5},
		{fmt.Sprintf("%s site", name), 7},
	}
	if loc != "" {
		attempts[0].query = fmt.Sprintf("%q %s official website", name, loc)
	}

	for i, at := range attempts {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		results, err := r.searcher.Search(ctx, at.query, at.max)
		if err != nil {
			// transient search trouble on one rung: try the next one
			log.Printf("[website] attempt %d for %q: %v", i+1, name, err)
			continue
		}

		if d, s := r.pickResult(results); d != "" {
			return d, s, nil
		}
	}
	return "", "", nil
}

// pickResult takes the first non-blocked host, preferring a homepage over a
// subpage (/about, /careers) when the same host shows up both ways.
func (r *Resolver) pickResult(results []domain.SearchResult) (dom, site string) {
	type cand struct {
		host  string
		url   string
		depth int
	}
	var first *cand

	for _, res := range results {
		host := search.HostOf(res.URL)
		if host == "" || r.blocked(host) {
			continue
		}
		c := cand{host: host, url: res.URL, depth: search.PathDepth(res.URL)}
		if first == nil {
			first = &c
			continue
		}
		if c.host == first.host && c.depth < first.depth {
			first = &c
		}
	}

	if first == nil {
		return "", ""
	}
	site = first.url
	if first.depth > 0 {
		site = "https://" + first.host
	}
	return first.host, site
}

func (r *Resolver) blocked(host string) bool {
	for _, b := range r.blocklist {
		if host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}

// guessDomain probes obvious name-based domains as a last resort.
func (r *Resolver) guessDomain(ctx context.Context, name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(sanitizeForSearch(name)), ""))
	slug = strings.Map(func(c rune) rune {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, slug)
	if slug == "" || len(slug) > 40 {
		return ""
	}

	for _, tld := range r.guessTLDs {
		dom := slug + tld
		if r.domainExists(ctx, dom) {
			return dom
		}
	}
	return ""
}

func (r *Resolver) domainExists(ctx context.Context, dom string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://"+dom, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// sanitizeForSearch strips legal suffixes and collapses whitespace so queries
// stay clean.
func sanitizeForSearch(s string) string {
	return strings.Join(strings.Fields(domain.NormalizeCompanyName(s)), " ")
}
