package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAuthorIntent(t *testing.T) {
	t.Run("english by-pattern", func(t *testing.T) {
		assert.Equal(t, "jane austen", ExtractAuthorIntent("recommend me a book by Jane Austen"))
	})

	t.Run("romanian de-pattern", func(t *testing.T) {
		assert.Equal(t, "liviu rebreanu", ExtractAuthorIntent("recomanda-mi o carte de Liviu Rebreanu"))
	})

	t.Run("scrisa de pattern", func(t *testing.T) {
		assert.Equal(t, "mihail sadoveanu", ExtractAuthorIntent("vreau o carte scrisă de Mihail Sadoveanu"))
	})

	t.Run("trailing punctuation is ignored", func(t *testing.T) {
		assert.Equal(t, "marin preda", ExtractAuthorIntent("ai ceva de Marin Preda?"))
	})

	t.Run("din pattern", func(t *testing.T) {
		assert.Equal(t, "marin preda", ExtractAuthorIntent("ceva din Marin Preda"))
	})

	t.Run("diacritics fold away", func(t *testing.T) {
		assert.Equal(t, "ion creanga", ExtractAuthorIntent("o carte de Ion Creangă"))
	})

	t.Run("no intent yields empty", func(t *testing.T) {
		assert.Equal(t, "", ExtractAuthorIntent("recomanda-mi o carte despre munte"))
		assert.Equal(t, "", ExtractAuthorIntent(""))
	})
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "liviu rebreanu", FoldName("  Liviu   Rebreanu "))
	assert.Equal(t, "stefan gheorghidiu", FoldName("Ștefan Gheorghidiu"))
	assert.Equal(t, FoldName("Creangă"), FoldName("creanga"))
	assert.Equal(t, "", FoldName("  "))
}
