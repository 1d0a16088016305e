package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationRequest is the transport payload for a book query.
type RecommendationRequest struct {
	Query string `json:"query"`
}

// RecommendationResponse is the structured answer returned to the client.
// CacheKey is the normalized form of the query so a later feedback call can
// reference the exact cache row.
type RecommendationResponse struct {
	RecommendedTitle   *string         `json:"recommended_title"`
	Explanation        string          `json:"explanation"`
	SourceSummary      *string         `json:"source_summary"`
	NormalizedDistance *float64        `json:"normalized_distance,omitempty"`
	FromCache          bool            `json:"from_cache"`
	ModelName          string          `json:"model_name,omitempty"`
	GenerationCostUSD  decimal.Decimal `json:"generation_cost_usd"`
	CacheKey           string          `json:"cache_key,omitempty"`
	GeneratedAt        *time.Time      `json:"generated_at,omitempty"`
}

// FeedbackVerdict is the user's thumbs-up/down signal on a cached answer.
type FeedbackVerdict string

const (
	VerdictApprove FeedbackVerdict = "approve"
	VerdictReject  FeedbackVerdict = "reject"
)

// FeedbackRequest references a cache entry by its normalized key.
type FeedbackRequest struct {
	CacheKey string          `json:"cache_key"`
	Verdict  FeedbackVerdict `json:"verdict"`
}

// FeedbackResponse reports how many rows the verdict touched. Zero rows is
// not an error: the entry may have been reaped or never cached.
type FeedbackResponse struct {
	Status       string `json:"status"`
	Action       string `json:"action"`
	RowsAffected int64  `json:"rows_affected"`
}
