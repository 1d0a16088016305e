package vectorstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func writeCorpus(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book_summaries.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseTitleAuthor(t *testing.T) {
	t.Run("en dash", func(t *testing.T) {
		title, author := parseTitleAuthor("Ion – Liviu Rebreanu")
		assert.Equal(t, "Ion", title)
		assert.Equal(t, "Liviu Rebreanu", author)
	})

	t.Run("ascii hyphen", func(t *testing.T) {
		title, author := parseTitleAuthor("Baltagul - Mihail Sadoveanu")
		assert.Equal(t, "Baltagul", title)
		assert.Equal(t, "Mihail Sadoveanu", author)
	})

	t.Run("no dash keeps raw title", func(t *testing.T) {
		title, author := parseTitleAuthor("  Amintiri din copilărie  ")
		assert.Equal(t, "Amintiri din copilărie", title)
		assert.Equal(t, "", author)
	})

	t.Run("only the first dash splits", func(t *testing.T) {
		title, author := parseTitleAuthor("Harry Potter – J. K. Rowling – volum 1")
		assert.Equal(t, "Harry Potter", title)
		assert.Equal(t, "J. K. Rowling – volum 1", author)
	})
}

func TestLoadBuildsStore(t *testing.T) {
	path := writeCorpus(t, `[
		{"title": "Ion – Liviu Rebreanu", "summary": "Un roman despre pământ.", "themes": ["pământ", "ambiție"]},
		{"title": "Baltagul – Mihail Sadoveanu", "summary": "O poveste despre munte și dreptate.", "themes": ["dreptate"]}
	]`)

	store, err := Load(context.Background(), path, &fakeEmbedder{}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Count())

	hits, err := store.Search(context.Background(), []float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	titles := []string{hits[0].Metadata.Title, hits[1].Metadata.Title}
	assert.Contains(t, titles, "Ion")
	assert.Contains(t, titles, "Baltagul")
	for _, h := range hits {
		assert.NotEmpty(t, h.Metadata.Author)
		assert.NotEmpty(t, h.Document)
	}
}

func TestLoadJoinsThemes(t *testing.T) {
	path := writeCorpus(t, `[
		{"title": "Ion – Liviu Rebreanu", "summary": "rezumat", "themes": ["pământ", "ambiție", "familie"]}
	]`)

	store, err := Load(context.Background(), path, &fakeEmbedder{}, 1)
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), []float32{1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "pământ, ambiție, familie", hits[0].Metadata.Themes)
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"), &fakeEmbedder{}, 1)
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeCorpus(t, `{"not": "an array"}`)
		_, err := Load(context.Background(), path, &fakeEmbedder{}, 1)
		assert.Error(t, err)
	})

	t.Run("empty corpus", func(t *testing.T) {
		path := writeCorpus(t, `[]`)
		_, err := Load(context.Background(), path, &fakeEmbedder{}, 1)
		assert.Error(t, err)
	})

	t.Run("embedding failure aborts the load", func(t *testing.T) {
		path := writeCorpus(t, `[{"title": "Ion – Liviu Rebreanu", "summary": "rezumat", "themes": []}]`)
		_, err := Load(context.Background(), path, &fakeEmbedder{err: errors.New("quota exceeded")}, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}
