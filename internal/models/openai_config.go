package models

// OpenAIConfig holds the provider credentials and model choices for
// embeddings, chat generation, image generation, and moderation.
type OpenAIConfig struct {
	APIKey          string `yaml:"api_key" json:"-"`
	ChatModel       string `yaml:"chat_model" json:"chat_model,omitzero"`
	EmbeddingModel  string `yaml:"embedding_model" json:"embedding_model,omitzero"`
	ImageModel      string `yaml:"image_model" json:"image_model,omitzero"`
	ModerationModel string `yaml:"moderation_model" json:"moderation_model,omitzero"`
	TimeoutMs       int    `yaml:"timeout_ms" json:"timeout_ms,omitzero"`
}

// PricingConfig carries the unit prices used by cost accounting. Prices are
// injected configuration so they can change without a redeploy.
type PricingConfig struct {
	// USD per 1K tokens for metered text generation.
	InputPricePer1K  float64 `yaml:"input_price_per_1k" json:"input_price_per_1k"`
	OutputPricePer1K float64 `yaml:"output_price_per_1k" json:"output_price_per_1k"`
	// Flat USD price per generated image (non-metered output).
	ImageFlatCost float64 `yaml:"image_flat_cost" json:"image_flat_cost"`
}
