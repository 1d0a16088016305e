package api

import (
	"errors"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/recommend"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// ChatHandler serves book recommendation queries.
type ChatHandler struct {
	svc *recommend.Service
}

// NewChatHandler wires the recommendation service into the transport layer.
func NewChatHandler(svc *recommend.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Recommend handles POST /chat.
func (h *ChatHandler) Recommend(c *fiber.Ctx) error {
	reqID := requestID(c)

	var req models.RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.NewValidationError("invalid request body", err))
	}

	fiberlog.Infof("[%s] chat query: %q", reqID, req.Query)

	resp, err := h.svc.Recommend(c.UserContext(), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// RecommendCover handles POST /chat/cover.
func (h *ChatHandler) RecommendCover(c *fiber.Ctx) error {
	reqID := requestID(c)

	var req models.RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, models.NewValidationError("invalid request body", err))
	}

	fiberlog.Infof("[%s] cover query: %q", reqID, req.Query)

	resp, err := h.svc.RecommendCover(c.UserContext(), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return "unknown"
}

// writeError maps application errors onto HTTP responses, leaking no
// internal cause to the client.
func writeError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{
			"type":  appErr.Type,
			"error": appErr.Message,
		})
	}
	fiberlog.Errorf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"type":  models.ErrorTypeInternal,
		"error": "internal server error",
	})
}
