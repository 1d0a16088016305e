package moderation

import (
	"context"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
)

// Service classifies prompts via the OpenAI moderation endpoint.
type Service struct {
	client openai.Client
	model  string
}

// NewService builds a moderation client.
func NewService(cfg models.OpenAIConfig) *Service {
	return &Service{
		client: openai.NewClient(openaiOption.WithAPIKey(cfg.APIKey)),
		model:  cfg.ModerationModel,
	}
}

// IsFlagged reports whether the prompt violates content policy. The check
// fails open: a provider error is logged and the prompt is allowed through,
// so a moderation outage never blocks legitimate traffic.
func (s *Service) IsFlagged(ctx context.Context, prompt string) bool {
	params := openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}
	if s.model != "" {
		params.Model = openai.ModerationModel(s.model)
	}

	resp, err := s.client.Moderations.New(ctx, params)
	if err != nil {
		fiberlog.Warnf("moderation: check failed, allowing prompt: %v", err)
		return false
	}
	if len(resp.Results) == 0 {
		return false
	}
	return resp.Results[0].Flagged
}
