package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/search"
)

// ProfileConfig tunes the cascade.
type ProfileConfig struct {
	// Site restricts matches to the professional-profile index host.
	Site string
	// MinNameConfidence skips candidates whose extraction confidence is
	// below the floor. Zero searches everything.
	MinNameConfidence float64
	// BroadFallback enables the third, unrestricted query.
	BroadFallback bool
}

// Searcher confirms a person + company against a professional-profile index
// and pulls a title out of the matching snippet.
type Searcher struct {
	provider search.Provider
	cfg      ProfileConfig
}

func NewSearcher(provider search.Provider, cfg ProfileConfig) *Searcher {
	if cfg.Site == "" {
		cfg.Site = "linkedin.com/in"
	}
	return &Searcher{provider: provider, cfg: cfg}
}

// Match is the profile fragment of a Contact.
type Match struct {
	Title        string
	ProfileURL   string
	AttemptIndex int
}

// Find runs the cascade for one person. A zero Match with ok=false means the
// candidate should be dropped; that's a data outcome, not an error.
func (s *Searcher) Find(ctx context.Context, person domain.PersonCandidate, co domain.Company) (Match, bool, error) {
	if person.FullName == "" {
		return Match{}, false, nil
	}
	if s.cfg.MinNameConfidence > 0 && person.Confidence < s.cfg.MinNameConfidence {
		return Match{}, false, nil
	}

	company := co.NormalizedName
	queries := []string{
		fmt.Sprintf("site:%s %q at %q", s.cfg.Site, person.FullName, company),
		fmt.Sprintf("site:%s %s %q", s.cfg.Site, person.FullName, company),
	}
	if s.cfg.BroadFallback {
		queries = append(queries, fmt.Sprintf("%s %s linkedin", person.FullName, company))
	}
	if co.Location != "" {
		queries[0] = queries[0] + " " + co.Location
	}

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return Match{}, false, err
		}

		results, err := s.provider.Search(ctx, q, 5)
		if err != nil {
			// one rung failing transiently is not the end of the cascade
			continue
		}

		for _, res := range results {
			if !isProfileURL(res.URL, s.cfg.Site) {
				// never accept non-indexed pages; they produce false positives
				continue
			}
			if !mentionsPerson(res, person) {
				continue
			}
			title := ExtractTitle(res.Title+" "+res.Snippet, person.FullName)
			if title == "" {
				title = ExtractTitle(res.Snippet, person.FullName)
			}
			if title == "" {
				continue
			}
			if titleEchoesCompany(title, company) {
				continue
			}
			return Match{Title: title, ProfileURL: res.URL, AttemptIndex: i}, true, nil
		}
	}

	return Match{}, false, nil
}

func isProfileURL(raw, site string) bool {
	l := strings.ToLower(raw)
	return strings.Contains(l, strings.ToLower(site))
}

func mentionsPerson(res domain.SearchResult, person domain.PersonCandidate) bool {
	blob := strings.ToLower(res.Title + " " + res.Snippet)
	if person.LastName != "" {
		return strings.Contains(blob, strings.ToLower(person.FirstName)) &&
			strings.Contains(blob, strings.ToLower(person.LastName))
	}
	return strings.Contains(blob, strings.ToLower(person.FirstName))
}

// Snippet shapes the index renders titles in, most specific first.
var titlePatterns = []*regexp.Regexp{
	// "Jane Doe - Co-Founder & CEO at Acme"
	regexp.MustCompile(`(?i)[-–—]\s*([^|·–—]{3,80}?)\s+(?:at|@)\s+`),
	// "Jane Doe · Co-Founder & CEO · Acme"
	regexp.MustCompile(`(?i)·\s*([^|·]{3,80}?)\s*(?:·|$)`),
	// "Jane Doe | Co-Founder, Acme"
	regexp.MustCompile(`(?i)\|\s*([^|,]{3,80}?)\s*,`),
}

// keyword-anchored fallback for C-level/founder/director phrasing buried in
// free text
var titleKeywordPattern = regexp.MustCompile(`(?i)\b((?:co[- ]?founder|founder|chief [a-z]+ officer|ceo|cto|cfo|coo|cmo|president|owner|managing (?:partner|director)|vice president|vp of [a-z ]+|vp|head of [a-z ]+|director of [a-z ]+|director|principal|partner)(?:\s*&\s*[a-z ]+)?)\b`)

// ExtractTitle mines a job title out of a result title/snippet blob. The
// person's name is stripped first so it can't be mistaken for a title.
func ExtractTitle(blob, fullName string) string {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return ""
	}
	if fullName != "" {
		blob = strings.ReplaceAll(blob, fullName, "")
	}

	for _, re := range titlePatterns {
		if m := re.FindStringSubmatch(blob); len(m) == 2 {
			if t := cleanTitle(m[1]); t != "" {
				return t
			}
		}
	}

	if m := titleKeywordPattern.FindString(blob); m != "" {
		return cleanTitle(m)
	}
	return ""
}

func cleanTitle(s string) string {
	s = strings.Trim(s, " -–—·|,.")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) < 2 || len(s) > 80 {
		return ""
	}
	l := strings.ToLower(s)
	for _, junk := range []string{"linkedin", "view profile", "sign in", "experience:", "followers"} {
		if strings.Contains(l, junk) {
			return ""
		}
	}
	return s
}

// titleEchoesCompany guards against the index handing back the company's own
// name where a person's title should be.
func titleEchoesCompany(title, company string) bool {
	t := strings.ToLower(strings.Join(strings.Fields(title), " "))
	c := strings.ToLower(strings.Join(strings.Fields(company), " "))
	if c == "" {
		return false
	}
	if t == c {
		return true
	}
	// each word of the "title" appears in the company name: company leakage
	words := strings.Fields(t)
	if len(words) == 0 {
		return false
	}
	allIn := true
	for _, w := range words {
		if !strings.Contains(c, w) {
			allIn = false
			break
		}
	}
	return allIn
}
