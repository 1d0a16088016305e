package retrieval

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// authorPattern captures an explicit authorial intent at the end of a
// query: "a book by Jane Austen", or the Romanian forms "o carte de Liviu
// Rebreanu" / "ceva din Marin Preda" / "scrisa de Mihail Sadoveanu". The
// captured name runs to the end of the query, trailing punctuation aside.
var authorPattern = regexp.MustCompile(
	`(?i)\b(?:by|de|din|scris[aă]?\s+de)\s+([\p{L}][\p{L}'’-]*(?:\s+[\p{L}][\p{L}'’-]*){0,3})[\s?!.]*$`,
)

// ExtractAuthorIntent returns the requested author name folded for
// comparison, or "" when the query carries no authorial intent. A captured
// name that matches no indexed author is harmless: ranking silently falls
// back to the full candidate set.
func ExtractAuthorIntent(query string) string {
	m := authorPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return FoldName(m[1])
}

// FoldName lowercases a name and strips diacritics so that "Liviu Rebreanu"
// and "liviu rebreanu" (or a corpus author stored with Romanian diacritics)
// compare equal.
func FoldName(name string) string {
	// The transform chain buffers internally, so build it per call rather
	// than sharing one across goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
