package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramSimilarity(t *testing.T) {
	t.Run("identical strings score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, TrigramSimilarity("o carte de dragoste", "o carte de dragoste"))
	})

	t.Run("case-insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, TrigramSimilarity("O Carte", "o carte"))
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := "recomanda o carte de razboi", "recomanda o carte despre razboi"
		assert.Equal(t, TrigramSimilarity(a, b), TrigramSimilarity(b, a))
	})

	t.Run("disjoint strings score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, TrigramSimilarity("abc", "xyz"))
	})

	t.Run("empty input scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, TrigramSimilarity("", "ceva"))
		assert.Equal(t, 0.0, TrigramSimilarity("", ""))
	})

	t.Run("punctuation separates words like the database scorer", func(t *testing.T) {
		// pg_trgm tokenizes on non-alphanumerics, so a hyphenated key and
		// its space-separated form carry identical trigram sets.
		assert.Equal(t, 1.0, TrigramSimilarity("recomanda-mi o carte", "recomanda mi o carte"))
		assert.Equal(t, 1.0, TrigramSimilarity("cover: o carte", "cover o carte"))
	})

	t.Run("small rephrasings stay above a useful threshold", func(t *testing.T) {
		score := TrigramSimilarity(
			"recomanda-mi o carte despre prietenie",
			"recomanda-mi o carte despre prietenii",
		)
		assert.Greater(t, score, 0.7)
		assert.Less(t, score, 1.0)
	})

	t.Run("bounded in [0,1]", func(t *testing.T) {
		score := TrigramSimilarity("o poveste lunga despre munte", "alta poveste")
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	})
}
