package issues

import (
	"strings"
	"unicode"
)

// Legal-entity suffixes stripped from sender names before comparison.
// Scanned letterheads render these inconsistently ("GmbH & Co. KG",
// "gmbh", missing entirely) while naming the same organization.
var legalSuffixes = []string{
	"gmbh & co kg", "gmbh & co. kg", "gmbh", "ag", "kg", "ohg", "ug",
	"e v", "ev", "e.v.", "inc", "ltd", "llc", "co",
}

// NormalizeSender canonicalizes a sender name for matching: casefold,
// strip punctuation, collapse whitespace, drop trailing legal-entity
// suffixes.
func NormalizeSender(sender string) string {
	s := strings.ToLower(strings.TrimSpace(sender))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for changed := true; changed; {
		changed = false
		for _, suffix := range legalSuffixes {
			if s != suffix && strings.HasSuffix(s, " "+suffix) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
				changed = true
			}
		}
	}

	return s
}

// NormalizeRef canonicalizes a reference number: uppercase with all
// punctuation and spacing stripped, so "VK-2024-551", "VK 2024 551",
// and "vk2024551" compare equal.
func NormalizeRef(ref string) string {
	var b strings.Builder
	for _, r := range ref {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// NormalizeRefs maps NormalizeRef over a list, dropping entries that
// normalize to empty and deduplicating while preserving order.
func NormalizeRefs(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		n := NormalizeRef(ref)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
