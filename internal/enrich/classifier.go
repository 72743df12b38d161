package enrich

import "strings"

var includeKeywords = []string{
	"founder", "co-founder", "cofounder", "ceo", "chief", "owner",
	"president", "managing partner", "managing director", "vice president",
	"vp", "cfo", "cto", "coo", "cmo", "director", "head of", "principal",
	"partner", "executive",
}

var excludeKeywords = []string{
	"assistant", "associate", "junior", "intern", "coordinator", "analyst",
	"specialist", "representative", "agent", "clerk", "trainee",
}

// IsDecisionMaker classifies an extracted title. Default-deny: excludes win
// over includes, and a short keyword-less title is treated as unreliable
// (usually company-name leakage from snippet parsing).
func IsDecisionMaker(title string) bool {
	t := strings.ToLower(strings.Join(strings.Fields(title), " "))
	if t == "" {
		return false
	}

	for _, kw := range excludeKeywords {
		if containsWord(t, kw) {
			return false
		}
	}

	matched := false
	for _, kw := range includeKeywords {
		if containsWord(t, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if len(strings.Fields(t)) < 2 && !isStrongSoloKeyword(t) {
		return false
	}
	return true
}

// single-word titles that stand on their own
func isStrongSoloKeyword(t string) bool {
	switch t {
	case "ceo", "cto", "cfo", "coo", "cmo", "founder", "cofounder",
		"co-founder", "owner", "president", "principal", "partner":
		return true
	}
	return false
}

// containsWord is a whole-word match; "vp" must not hit "vpn".
func containsWord(haystack, needle string) bool {
	bounds := func(b byte) bool {
		switch b {
		case ' ', '-', '/', ',', '.', '&', '(', ')', '|':
			return true
		default:
			return false
		}
	}

	idx := strings.Index(haystack, needle)
	for idx != -1 {
		leftOK := idx == 0 || bounds(haystack[idx-1])
		right := idx + len(needle)
		rightOK := right == len(haystack) || bounds(haystack[right])
		if leftOK && rightOK {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next == -1 {
			break
		}
		idx = idx + 1 + next
	}
	return false
}
