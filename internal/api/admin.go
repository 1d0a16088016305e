package api

import (
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/config"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/reaper"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/retrieval"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/vectorstore"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// AdminHandler exposes operational endpoints: an on-demand cache sweep and
// a corpus reindex.
type AdminHandler struct {
	cfg      *config.Config
	reaper   *reaper.Scheduler
	embedder retrieval.Embedder
	handle   *retrieval.Handle
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(cfg *config.Config, sweeper *reaper.Scheduler, embedder retrieval.Embedder, handle *retrieval.Handle) *AdminHandler {
	return &AdminHandler{
		cfg:      cfg,
		reaper:   sweeper,
		embedder: embedder,
		handle:   handle,
	}
}

// Reap handles POST /admin/reap: a single on-demand sweep of stale
// rejected entries, independent of the background schedule.
func (h *AdminHandler) Reap(c *fiber.Ctx) error {
	deleted, err := h.reaper.RunOnce(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"rows_deleted": deleted})
}

// Reindex handles POST /admin/reindex: rebuilds the vector store from the
// corpus file and swaps the freshly built orchestrator into the owned
// handle. In-flight requests finish against the index they started with.
func (h *AdminHandler) Reindex(c *fiber.Ctx) error {
	store, err := vectorstore.Load(c.UserContext(), h.cfg.Library.DataPath, h.embedder, h.cfg.Library.EmbedConcurrency)
	if err != nil {
		return writeError(c, models.NewInternalError("failed to rebuild index", err))
	}

	h.handle.Swap(retrieval.NewOrchestrator(h.embedder, store, h.cfg.Retrieval))
	fiberlog.Infof("[%s] reindexed %d documents", requestID(c), store.Count())
	return c.JSON(fiber.Map{"indexed_documents": store.Count()})
}
