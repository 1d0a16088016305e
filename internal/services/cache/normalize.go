package cache

import "strings"

// NormalizePrompt canonicalizes a raw query into the cache key: trimmed,
// lowercased, interior whitespace runs collapsed to a single space. Exact
// and fuzzy lookups both key off this form. Pure and total; normalizing an
// already-normalized prompt is a no-op.
func NormalizePrompt(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
