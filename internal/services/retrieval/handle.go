package retrieval

import (
	"context"
	"sync/atomic"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
)

// Handle is an explicitly owned, swappable reference to the current
// Orchestrator. Reloading the corpus builds a fresh index and orchestrator
// and swaps them in here; in-flight requests keep the orchestrator they
// started with, and nothing reseats shared global state.
type Handle struct {
	current atomic.Pointer[Orchestrator]
}

// NewHandle wraps the initial orchestrator.
func NewHandle(o *Orchestrator) *Handle {
	h := &Handle{}
	h.current.Store(o)
	return h
}

// Retrieve delegates to the orchestrator current at call time.
func (h *Handle) Retrieve(ctx context.Context, query string) (*models.RetrievalHit, error) {
	return h.current.Load().Retrieve(ctx, query)
}

// Swap installs a newly built orchestrator.
func (h *Handle) Swap(o *Orchestrator) {
	h.current.Store(o)
}
