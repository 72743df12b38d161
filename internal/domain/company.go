package domain

import "strings"

// Company is the unit of work for an enrichment run. An external source
// creates it with at least a name; the website resolver fills Domain and
// Website, and after that the record is read-only.
type Company struct {
	RawName        string
	NormalizedName string
	Location       string
	Domain         string
	Website        string
}

func NewCompany(rawName, location string) Company {
	return Company{
		RawName:        strings.TrimSpace(rawName),
		NormalizedName: NormalizeCompanyName(rawName),
		Location:       strings.TrimSpace(location),
	}
}

// Key identifies a company for caching and dedup.
func (c Company) Key() string {
	return normalizeKey(c.NormalizedName)
}

// legal suffixes that confuse both search engines and dedup keys
var companySuffixes = []string{
	"incorporated", "inc", "llc", "llp", "ltd", "limited",
	"corporation", "corp", "gmbh", "plc", "co",
}

// NormalizeCompanyName strips legal suffixes and trailing punctuation:
// "Acme, Inc." -> "Acme".
func NormalizeCompanyName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	for {
		trimmed := strings.TrimRight(s, " .,")
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			s = trimmed
			break
		}

		last := strings.ToLower(strings.Trim(fields[len(fields)-1], ".,"))
		matched := false
		for _, suf := range companySuffixes {
			if last == suf {
				matched = true
				break
			}
		}
		if !matched {
			s = trimmed
			break
		}
		s = strings.Join(fields[:len(fields)-1], " ")
	}

	return strings.TrimRight(s, " .,")
}

func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
