package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
)

const maxCompletionTokens = 200

// TextResult carries a generated explanation plus the provider's metered
// usage, which cost accounting converts to money.
type TextResult struct {
	Text      string
	ModelName string
	UnitsIn   int64
	UnitsOut  int64
}

// ImageResult carries a reference to generated media. Image pricing is
// flat, so no usage units are reported.
type ImageResult struct {
	URI       string
	ModelName string
}

// Service wraps the generative provider. Failures are returned as provider
// errors so the caller can degrade to a "temporarily unavailable" response
// without persisting anything.
type Service struct {
	client     openai.Client
	chatModel  string
	imageModel string
	timeout    time.Duration
}

// NewService builds a generation client from provider config.
func NewService(cfg models.OpenAIConfig) *Service {
	s := &Service{
		client:     openai.NewClient(openaiOption.WithAPIKey(cfg.APIKey)),
		chatModel:  cfg.ChatModel,
		imageModel: cfg.ImageModel,
	}
	if cfg.TimeoutMs > 0 {
		s.timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return s
}

// GenerateText asks the chat model for a completion of the given prompt.
func (s *Service) GenerateText(ctx context.Context, prompt string) (*TextResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.chatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(maxCompletionTokens),
	})
	if err != nil {
		return nil, models.NewProviderError("openai", "completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, models.NewProviderError("openai", "completion response carried no choices", nil)
	}

	return &TextResult{
		Text:      strings.TrimSpace(resp.Choices[0].Message.Content),
		ModelName: s.chatModel,
		UnitsIn:   resp.Usage.PromptTokens,
		UnitsOut:  resp.Usage.CompletionTokens,
	}, nil
}

// GenerateImage renders the prompt with the image model and returns a URI
// reference to the produced asset.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModel(s.imageModel),
		Prompt: prompt,
	})
	if err != nil {
		return nil, models.NewProviderError("openai", "image request failed", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, models.NewProviderError("openai", "image response carried no URL", nil)
	}

	return &ImageResult{
		URI:       resp.Data[0].URL,
		ModelName: s.imageModel,
	}, nil
}

// BuildPrompt renders the generation prompt around the retrieved document.
// The wording asks for a short, friendly recommendation in Romanian and
// forbids inventing alternatives outside the matched summary.
func BuildPrompt(query string, hit *models.RetrievalHit) string {
	return fmt.Sprintf(`Ținând cont de interogarea: %q, oferă o recomandare pe baza următoarei cărți, care este cea mai apropiată semantic dintre toate cele din baza de date (scor: %.4f).

Titlu: %s
Rezumat: %s

Scrie o recomandare prietenoasă, clară și scurtă. Explică de ce această carte răspunde cerinței utilizatorului, fără a inventa alte opțiuni.
Raspunsul trebuie sa fie de maxim 50 de cuvinte.`,
		query, hit.NormalizedDistance, hit.Metadata.Title, strings.TrimSpace(hit.Document))
}
