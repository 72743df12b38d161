package enrich

import (
	"testing"

	"leadscout-engine/internal/domain"
)

func candidate(addr string) domain.EmailCandidate {
	return domain.EmailCandidate{Address: addr, Domain: "acme.com"}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantName string
		wantConf float64
	}{
		{"dotted", "john.smith@acme.com", "John Smith", 0.95},
		{"underscore", "john_smith@acme.com", "John Smith", 0.90},
		{"hyphen", "john-smith@acme.com", "John Smith", 0.90},
		{"camel case", "johnSmith@acme.com", "John Smith", 0.85},
		{"single token", "john@acme.com", "John", 0.60},
		{"dotted trailing digits", "jane.doe2@acme.com", "Jane Doe", 0.95},
		{"three dotted tokens keep first and last", "jean.paul.sartre@acme.com", "Jean Sartre", 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ExtractName(candidate(tt.addr))
			if !ok {
				t.Fatalf("ExtractName(%q) rejected", tt.addr)
			}
			if p.FullName != tt.wantName {
				t.Errorf("FullName = %q, want %q", p.FullName, tt.wantName)
			}
			if p.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", p.Confidence, tt.wantConf)
			}
			if p.SourceEmail != tt.addr {
				t.Errorf("SourceEmail = %q, want %q", p.SourceEmail, tt.addr)
			}
		})
	}
}

func TestExtractNameDeterministic(t *testing.T) {
	a, _ := ExtractName(candidate("jane.doe@acme.com"))
	for i := 0; i < 50; i++ {
		b, _ := ExtractName(candidate("jane.doe@acme.com"))
		if a != b {
			t.Fatalf("run %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestExtractNameRejectsGenerics(t *testing.T) {
	generics := []string{
		"info@acme.com", "contact@acme.com", "support@acme.com",
		"sales@acme.com", "hello@acme.com", "admin@acme.com",
		"office@acme.com", "team@acme.com", "hr@acme.com", "jobs@acme.com",
	}
	for _, addr := range generics {
		if _, ok := ExtractName(candidate(addr)); ok {
			t.Errorf("ExtractName(%q) produced a person", addr)
		}
	}
}

func TestExtractNameRejectsJunk(t *testing.T) {
	junk := []string{
		"x@acme.com",         // too short to be a name
		"12345@acme.com",     // digits only
		"j0hn.sm1th@acme.com", // digits inside tokens
		"",
	}
	for _, addr := range junk {
		if p, ok := ExtractName(candidate(addr)); ok {
			t.Errorf("ExtractName(%q) = %+v, want reject", addr, p)
		}
	}
}

func TestExtractNameFlaggedGenericWins(t *testing.T) {
	ec := domain.EmailCandidate{Address: "jane.doe@acme.com", Domain: "acme.com", IsGeneric: true}
	if _, ok := ExtractName(ec); ok {
		t.Error("candidate flagged generic upstream must stay rejected")
	}
}
