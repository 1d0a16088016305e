package embeddings

import (
	"context"
	"fmt"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"

	"github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
)

// OpenAIEmbedder produces fixed-length query and document vectors via the
// OpenAI embeddings endpoint. Safe for concurrent use.
type OpenAIEmbedder struct {
	client openai.Client
	model  string
}

// NewOpenAIEmbedder builds an embedder for the configured model.
func NewOpenAIEmbedder(cfg models.OpenAIConfig) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(openaiOption.WithAPIKey(cfg.APIKey)),
		model:  cfg.EmbeddingModel,
	}
}

// EmbedText embeds a single text. Failure is surfaced to the caller; a
// query that cannot be embedded cannot be ranked.
func (e *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no data")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
