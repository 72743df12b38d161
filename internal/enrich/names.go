package enrich

import (
	"strings"
	"unicode"

	"leadscout-engine/internal/domain"
)

// Name-extraction confidence tiers. Fixed, not learned.
const (
	ConfidenceDotted    = 0.95 // first.last
	ConfidenceDelimited = 0.90 // first_last / first-last
	ConfidenceCamel     = 0.85 // firstLast
	ConfidenceSingle    = 0.60 // bare first name
)

// ExtractName derives a probable person from an email candidate. Generic
// role addresses never yield a person. Pure function, no I/O.
func ExtractName(ec domain.EmailCandidate) (domain.PersonCandidate, bool) {
	local, _, ok := splitLocal(ec.Address)
	if !ok {
		return domain.PersonCandidate{}, false
	}
	local = strings.ToLower(strings.TrimSpace(local))
	if local == "" || domain.IsGenericLocalPart(local) || ec.IsGeneric {
		return domain.PersonCandidate{}, false
	}

	// strip a trailing digit run: jsmith2@ happens
	local = strings.TrimRight(local, "0123456789")
	if local == "" {
		return domain.PersonCandidate{}, false
	}

	var first, last string
	conf := 0.0

	switch {
	case strings.Contains(local, "."):
		first, last = splitPair(local, ".")
		conf = ConfidenceDotted
	case strings.Contains(local, "_"):
		first, last = splitPair(local, "_")
		conf = ConfidenceDelimited
	case strings.Contains(local, "-"):
		first, last = splitPair(local, "-")
		conf = ConfidenceDelimited
	default:
		if f, l, ok := splitCamel(ec.Address); ok {
			first, last = f, l
			conf = ConfidenceCamel
		} else {
			first = local
			conf = ConfidenceSingle
		}
	}

	if !plausibleNameToken(first) {
		return domain.PersonCandidate{}, false
	}
	if last != "" && !plausibleNameToken(last) {
		last = ""
		conf = ConfidenceSingle
	}

	p := domain.PersonCandidate{
		FirstName:   titleCase(first),
		LastName:    titleCase(last),
		Confidence:  conf,
		SourceEmail: ec.Address,
	}
	p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	return p, true
}

func splitLocal(addr string) (local, dom string, ok bool) {
	i := strings.LastIndex(addr, "@")
	if i <= 0 {
		// tolerate bare local-part input
		if addr == "" {
			return "", "", false
		}
		return addr, "", true
	}
	return addr[:i], addr[i+1:], true
}

func splitPair(local, sep string) (first, last string) {
	parts := strings.SplitN(local, sep, 2)
	first = parts[0]
	if len(parts) == 2 {
		// collapse any further separators in the tail: j.p.smith -> J Smith? no,
		// keep the final token as surname
		tail := parts[1]
		if i := strings.LastIndexAny(tail, "._-"); i >= 0 {
			tail = tail[i+1:]
		}
		last = tail
	}
	return first, last
}

// splitCamel works on the original (pre-lowercase) address: johnSmith@.
func splitCamel(addr string) (first, last string, ok bool) {
	local, _, valid := splitLocal(addr)
	if !valid {
		return "", "", false
	}
	local = strings.TrimRight(local, "0123456789")

	var boundary int
	for i, r := range local {
		if i > 0 && unicode.IsUpper(r) {
			boundary = i
			break
		}
	}
	if boundary == 0 {
		return "", "", false
	}
	return strings.ToLower(local[:boundary]), strings.ToLower(local[boundary:]), true
}

// plausibleNameToken rejects tokens that can't be a name fragment.
func plausibleNameToken(s string) bool {
	if len(s) < 2 || len(s) > 24 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return !domain.IsGenericLocalPart(s)
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
