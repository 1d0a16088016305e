package api

import (
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/recommend"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// FeedbackHandler applies user verdicts to cached answers.
type FeedbackHandler struct {
	svc *recommend.Service
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(svc *recommend.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit handles POST /feedback. The verdict references an answer by the
// normalized cache key returned with it; zero affected rows means the
// entry is gone or was never cached, which is reported, not failed.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req models.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.NewValidationError("invalid request body", err))
	}

	resp, err := h.svc.Feedback(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	fiberlog.Infof("[%s] feedback %s on %q affected %d rows",
		requestID(c), resp.Action, req.CacheKey, resp.RowsAffected)
	return c.JSON(resp)
}
