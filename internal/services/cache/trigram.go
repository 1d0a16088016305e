package cache

import (
	"strings"
	"unicode"
)

// trigramSet extracts the padded word trigrams of s the way pg_trgm does:
// words are maximal alphanumeric runs (any other rune separates, not just
// whitespace), each lowercased, prefixed with two spaces and suffixed with
// one, then sliced into runs of three runes.
func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// TrigramSimilarity returns the trigram-overlap similarity of a and b in
// [0,1]: shared trigrams over the size of the union. Symmetric, and 1.0 for
// strings with identical trigram sets. Mirrors the scoring of the pg_trgm
// similarity() function so the portable backend ranks the same way the
// PostgreSQL backend does.
func TrigramSimilarity(a, b string) float64 {
	ta := trigramSet(a)
	tb := trigramSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}

	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
