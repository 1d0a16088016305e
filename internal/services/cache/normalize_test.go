package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrompt(t *testing.T) {
	t.Run("trims and lowercases", func(t *testing.T) {
		assert.Equal(t, "o carte despre prietenie", NormalizePrompt("  O Carte despre PRIETENIE  "))
	})

	t.Run("collapses interior whitespace runs", func(t *testing.T) {
		assert.Equal(t, "a b c", NormalizePrompt("a\t\tb \n c"))
	})

	t.Run("empty and whitespace-only inputs", func(t *testing.T) {
		assert.Equal(t, "", NormalizePrompt(""))
		assert.Equal(t, "", NormalizePrompt("   \t\n "))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"  Recomandă-mi   o carte  ",
			"ALREADY NORMAL",
			"deja normalizat",
			"",
		}
		for _, in := range inputs {
			once := NormalizePrompt(in)
			assert.Equal(t, once, NormalizePrompt(once))
		}
	})
}
