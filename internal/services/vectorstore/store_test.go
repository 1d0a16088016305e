package vectorstore

import (
	"context"
	"testing"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, vector ...float32) Document {
	return Document{
		ID:       id,
		Text:     "rezumat " + id,
		Metadata: models.DocumentMetadata{Title: id, Author: "Autor", Themes: "teme"},
		Vector:   vector,
	}
}

func TestNewRejectsMismatchedDimensions(t *testing.T) {
	_, err := New([]Document{doc("a", 1, 0), doc("b", 1, 0, 0)})
	assert.Error(t, err)

	_, err = New([]Document{{ID: "gol", Text: "x"}})
	assert.Error(t, err)
}

func TestSearchOrdersByAscendingDistance(t *testing.T) {
	store, err := New([]Document{
		doc("departe", 0, 1),
		doc("aproape", 1, 0),
		doc("mediu", 0.5, 0.5),
	})
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "aproape", hits[0].Metadata.Title)
	assert.Equal(t, "mediu", hits[1].Metadata.Title)
	assert.Equal(t, "departe", hits[2].Metadata.Title)
	assert.LessOrEqual(t, hits[0].RawDistance, hits[1].RawDistance)
}

func TestSearchTruncatesToK(t *testing.T) {
	store, err := New([]Document{
		doc("a", 1, 0), doc("b", 0, 1), doc("c", 0.5, 0.5),
	})
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchRejectsWrongQueryDimension(t *testing.T) {
	store, err := New([]Document{doc("a", 1, 0)})
	require.NoError(t, err)

	_, err = store.Search(context.Background(), []float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestSearchHonorsCancelledContext(t *testing.T) {
	store, err := New([]Document{doc("a", 1, 0)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
