package retrieval

import (
	"context"
	"errors"
	"sort"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Sentinel outcomes, distinguished so the caller can render different
// messaging. Both must short-circuit before any generation is attempted.
var (
	// ErrNoCandidates means retrieval produced no usable hit at all.
	ErrNoCandidates = &models.AppError{
		Type:    models.ErrorTypeNoCandidates,
		Message: "no retrieval candidates",
	}
	// ErrLowRelevance means the best hit sits beyond the acceptance
	// ceiling on the index's native distance scale.
	ErrLowRelevance = &models.AppError{
		Type:    models.ErrorTypeLowRelevance,
		Message: "best candidate below relevance threshold",
	}
)

// Embedder turns text into a fixed-length vector. Embedding failure is
// fatal to the request; there is no fallback ranking signal.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex returns the top-k nearest documents for a query vector with
// their raw distances. Implementations fill Document, Metadata and
// RawDistance on each hit.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]models.RetrievalHit, error)
}

// Orchestrator runs a query against the vector index and selects a single
// acceptable top hit. The index handle is owned and injected here; swapping
// in a reloaded index means constructing a new Orchestrator around the new
// handle, never mutating shared state.
type Orchestrator struct {
	embedder Embedder
	index    VectorIndex
	topK     int
	ceiling  float64
}

// NewOrchestrator builds an orchestrator over the given collaborators.
func NewOrchestrator(embedder Embedder, index VectorIndex, cfg models.RetrievalConfig) *Orchestrator {
	return &Orchestrator{
		embedder: embedder,
		index:    index,
		topK:     cfg.TopK,
		ceiling:  cfg.MaxRawDistance,
	}
}

// Retrieve embeds the query, gathers top-K candidates, drops malformed
// hits, normalizes distances across the surviving set, narrows to
// author-matching hits when the query names one, and picks the candidate
// with the smallest raw distance. The author narrowing only filters; the
// final ordering always uses the raw metric, so an author match is a soft
// boost within the pool rather than an override of relevance.
func (o *Orchestrator) Retrieve(ctx context.Context, query string) (*models.RetrievalHit, error) {
	vector, err := o.embedder.EmbedText(ctx, query)
	if err != nil {
		if isCancellation(err) {
			return nil, ErrNoCandidates
		}
		return nil, models.NewProviderError("embeddings", "failed to embed query", err)
	}

	hits, err := o.index.Search(ctx, vector, o.topK)
	if err != nil {
		if isCancellation(err) {
			return nil, ErrNoCandidates
		}
		return nil, models.NewProviderError("vector-index", "index query failed", err)
	}

	// A malformed hit is skipped, not fatal.
	valid := hits[:0]
	for _, h := range hits {
		if h.Document == "" || h.Metadata.Empty() {
			continue
		}
		valid = append(valid, h)
	}
	if len(valid) == 0 {
		return nil, ErrNoCandidates
	}

	raw := make([]float64, len(valid))
	for i, h := range valid {
		raw[i] = h.RawDistance
	}
	normalized := NormalizeDistances(raw)
	for i := range valid {
		valid[i].NormalizedDistance = normalized[i]
	}

	candidates := valid
	if wanted := ExtractAuthorIntent(query); wanted != "" {
		var matching []models.RetrievalHit
		for _, h := range valid {
			if FoldName(h.Metadata.Author) == wanted {
				matching = append(matching, h)
			}
		}
		if len(matching) > 0 {
			fiberlog.Debugf("retrieval: narrowed %d hits to %d by author %q", len(valid), len(matching), wanted)
			candidates = matching
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RawDistance < candidates[j].RawDistance
	})

	top := candidates[0]
	if top.RawDistance > o.ceiling {
		fiberlog.Infof("retrieval: top result too far (raw distance %.4f > %.4f)", top.RawDistance, o.ceiling)
		return nil, ErrLowRelevance
	}

	return &top, nil
}

// A request abandoned mid-retrieval yields "no result", not a provider
// fault; nothing was generated and nothing was written.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
