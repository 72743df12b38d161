package domain

import "strings"

// EmailCandidate is a provider-returned address scoped to one company.
// It only lives long enough for name extraction.
type EmailCandidate struct {
	Address   string
	Domain    string
	IsGeneric bool
}

// PersonCandidate is a probable person derived from one non-generic email.
type PersonCandidate struct {
	FullName    string
	FirstName   string
	LastName    string
	Confidence  float64
	SourceEmail string
}

// Contact is the terminal record the pipeline emits.
type Contact struct {
	Person             PersonCandidate
	Title              string
	ProfileURL         string
	Company            Company
	IsDecisionMaker    bool
	SearchAttemptIndex int
	RunID              string
}

// DedupKey enforces the one-contact-per-(company, person) invariant.
func (c Contact) DedupKey() string {
	return c.Company.Key() + "|" + normalizeKey(c.Person.FullName)
}

// SearchResult is the only shape provider responses take past the client
// boundary; arbitrary JSON/HTML from search APIs is coerced into it there.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// genericLocalParts are role addresses that can never map to one person.
var genericLocalParts = map[string]bool{
	"info": true, "contact": true, "support": true, "sales": true,
	"hello": true, "admin": true, "office": true, "team": true,
	"hr": true, "jobs": true, "careers": true, "press": true,
	"noreply": true, "no-reply": true, "help": true, "billing": true,
	"marketing": true, "media": true, "webmaster": true,
}

// IsGenericLocalPart reports whether an email local-part is a role address.
func IsGenericLocalPart(local string) bool {
	return genericLocalParts[strings.ToLower(strings.TrimSpace(local))]
}
