package vectorstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
)

// Document is one indexed corpus entry with its embedding.
type Document struct {
	ID       string
	Text     string
	Metadata models.DocumentMetadata
	Vector   []float32
}

// Store is an immutable in-process vector index. It is built once from a
// corpus and shared by reference; reloading the corpus produces a new Store
// rather than mutating one in place, so a handle held by a running request
// stays coherent.
type Store struct {
	docs []Document
	dim  int
}

// New builds a store over the given documents. All vectors must share one
// dimensionality.
func New(docs []Document) (*Store, error) {
	dim := 0
	for i, d := range docs {
		if len(d.Vector) == 0 {
			return nil, fmt.Errorf("document %q has no embedding", d.ID)
		}
		if i == 0 {
			dim = len(d.Vector)
		} else if len(d.Vector) != dim {
			return nil, fmt.Errorf("document %q has dimension %d, want %d", d.ID, len(d.Vector), dim)
		}
	}
	return &Store{docs: docs, dim: dim}, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count() int {
	return len(s.docs)
}

// Search returns up to k hits ordered by ascending raw distance. The raw
// metric is squared L2, the native scale the acceptance ceiling is tuned
// against. Only Document, Metadata and RawDistance are filled; normalized
// distances are a per-request concern of the caller.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]models.RetrievalHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != s.dim {
		return nil, fmt.Errorf("query vector has dimension %d, index has %d", len(vector), s.dim)
	}
	if k <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	hits := make([]models.RetrievalHit, 0, len(s.docs))
	for _, d := range s.docs {
		hits = append(hits, models.RetrievalHit{
			Document:    d.Text,
			Metadata:    d.Metadata,
			RawDistance: squaredL2(vector, d.Vector),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].RawDistance < hits[j].RawDistance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
