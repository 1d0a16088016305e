package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/cache"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/generation"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/retrieval"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/usage"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// User-facing messages, matching the product's Romanian voice.
const (
	msgQueryTooShort = "Interogare prea scurtă. Te rog reformulează."
	msgFlagged       = "Te rog formulează întrebarea într-un mod respectuos. Îți stau la dispoziție cu recomandări literare."
	msgNoCandidates  = "Îmi pare rău, dar nu am găsit nicio carte potrivită în baza de date curentă."
	msgLowRelevance  = "Îmi pare rău, dar nu am găsit nicio carte relevantă pentru întrebarea ta."
	msgUnavailable   = "Serviciul de recomandări este momentan indisponibil. Te rog încearcă din nou."
)

// coverKeyPrefix keeps illustration answers in their own exact-key
// namespace; fuzzy lookups are additionally scoped by output kind, so the
// text and illustration keyspaces never cross-match.
const coverKeyPrefix = "cover: "

// AnswerCache is the slice of the semantic cache the recommender drives.
type AnswerCache interface {
	LookupExact(ctx context.Context, key string) (*models.CacheEntry, error)
	LookupFuzzy(ctx context.Context, key string, threshold float64, kind models.OutputKind) (*models.CacheEntry, error)
	Upsert(ctx context.Context, key string, kind models.OutputKind, payload, modelName string, cost decimal.Decimal) error
	SetApproval(ctx context.Context, key string, approved bool) (int64, error)
}

// Retriever selects the single acceptable top document for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (*models.RetrievalHit, error)
}

// Generator produces explanations and cover illustrations.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (*generation.TextResult, error)
	GenerateImage(ctx context.Context, prompt string) (*generation.ImageResult, error)
}

// Moderator classifies prompts; implementations fail open.
type Moderator interface {
	IsFlagged(ctx context.Context, prompt string) bool
}

// Service orchestrates a query end to end: validation, moderation, cache
// lookups, retrieval, generation, cost accounting, and the best-effort
// cache write. The cache is never a hard dependency: an unavailable cache
// degrades to a miss, and a failed upsert never blocks delivering the
// generated answer.
type Service struct {
	cache          AnswerCache
	retriever      Retriever
	generator      Generator
	moderator      Moderator
	pricing        usage.ModelPricing
	fuzzyThreshold float64
}

// NewService wires the orchestrator.
func NewService(
	answerCache AnswerCache,
	retriever Retriever,
	generator Generator,
	moderator Moderator,
	pricing usage.ModelPricing,
	fuzzyThreshold float64,
) *Service {
	return &Service{
		cache:          answerCache,
		retriever:      retriever,
		generator:      generator,
		moderator:      moderator,
		pricing:        pricing,
		fuzzyThreshold: fuzzyThreshold,
	}
}

// Recommend answers a book query. Two concurrent misses for the same key
// may both reach the generator; the upsert's conflict resolution keeps
// exactly one writer's row, which is the accepted duplicate-work tradeoff
// of running without per-key request coalescing.
func (s *Service) Recommend(ctx context.Context, query string) (*models.RecommendationResponse, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 3 {
		return nil, models.NewValidationError(msgQueryTooShort, nil)
	}

	if s.moderator.IsFlagged(ctx, query) {
		return safeResponse(msgFlagged), nil
	}

	key := cache.NormalizePrompt(query)

	if resp := s.lookup(ctx, key, models.OutputText); resp != nil {
		return resp, nil
	}

	hit, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		if resp := noAnswerResponse(err); resp != nil {
			return resp, nil
		}
		return nil, err
	}

	prompt := generation.BuildPrompt(query, hit)
	result, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		fiberlog.Errorf("recommend: generation failed for %q: %v", key, err)
		return safeResponse(msgUnavailable), nil
	}

	cost := usage.TokenCost(result.UnitsIn, result.UnitsOut, s.pricing)
	fiberlog.Infof("recommend: generated answer for %q (tokens %d/%d, cost $%s)",
		key, result.UnitsIn, result.UnitsOut, cost.String())

	// Best-effort write: the generated answer is returned even when
	// persisting it fails.
	if err := s.cache.Upsert(ctx, key, models.OutputText, result.Text, result.ModelName, cost); err != nil {
		fiberlog.Errorf("recommend: failed to cache answer for %q: %v", key, err)
	}

	return &models.RecommendationResponse{
		RecommendedTitle:   ptr(hit.Metadata.Title),
		Explanation:        result.Text,
		SourceSummary:      ptr(hit.Document),
		NormalizedDistance: ptr(hit.NormalizedDistance),
		FromCache:          false,
		ModelName:          result.ModelName,
		GenerationCostUSD:  cost,
		CacheKey:           key,
	}, nil
}

// RecommendCover retrieves the best-matching book and renders a cover
// illustration for it. Image generation is flat-priced, so the accounted
// cost is the configured constant rather than a function of usage units.
func (s *Service) RecommendCover(ctx context.Context, query string) (*models.RecommendationResponse, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 3 {
		return nil, models.NewValidationError(msgQueryTooShort, nil)
	}

	if s.moderator.IsFlagged(ctx, query) {
		return safeResponse(msgFlagged), nil
	}

	key := coverKeyPrefix + cache.NormalizePrompt(query)

	if resp := s.lookup(ctx, key, models.OutputImage); resp != nil {
		return resp, nil
	}

	hit, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		if resp := noAnswerResponse(err); resp != nil {
			return resp, nil
		}
		return nil, err
	}

	prompt := fmt.Sprintf("O ilustrație de copertă pentru cartea %q: %s",
		hit.Metadata.Title, hit.Metadata.Themes)
	result, err := s.generator.GenerateImage(ctx, prompt)
	if err != nil {
		fiberlog.Errorf("recommend: cover generation failed for %q: %v", key, err)
		return safeResponse(msgUnavailable), nil
	}

	cost := usage.FlatImageCost(s.pricing)

	if err := s.cache.Upsert(ctx, key, models.OutputImage, result.URI, result.ModelName, cost); err != nil {
		fiberlog.Errorf("recommend: failed to cache cover for %q: %v", key, err)
	}

	return &models.RecommendationResponse{
		RecommendedTitle:   ptr(hit.Metadata.Title),
		Explanation:        result.URI,
		NormalizedDistance: ptr(hit.NormalizedDistance),
		FromCache:          false,
		ModelName:          result.ModelName,
		GenerationCostUSD:  cost,
		CacheKey:           key,
	}, nil
}

// Feedback applies an approve/reject verdict to the cache entry named by
// its normalized key. A missing entry affects zero rows and is not an
// error; it may have been reaped or never persisted.
func (s *Service) Feedback(ctx context.Context, req models.FeedbackRequest) (*models.FeedbackResponse, error) {
	if req.CacheKey == "" {
		return nil, models.NewValidationError("cache_key is required", nil)
	}

	var approved bool
	switch req.Verdict {
	case models.VerdictApprove:
		approved = true
	case models.VerdictReject:
		approved = false
	default:
		return nil, models.NewValidationError(fmt.Sprintf("unknown verdict %q", req.Verdict), nil)
	}

	rows, err := s.cache.SetApproval(ctx, strings.TrimSpace(strings.ToLower(req.CacheKey)), approved)
	if err != nil {
		return nil, err
	}

	action := "rejected"
	if approved {
		action = "approved"
	}
	return &models.FeedbackResponse{
		Status:       "ok",
		Action:       action,
		RowsAffected: rows,
	}, nil
}

// lookup runs the exact-then-fuzzy cache path for one output kind. A
// cache-unavailable error is absorbed as a miss; any hit is converted to a
// from-cache response keyed by the matched entry's stored key.
func (s *Service) lookup(ctx context.Context, key string, kind models.OutputKind) *models.RecommendationResponse {
	entry, err := s.cache.LookupExact(ctx, key)
	if err != nil {
		if cache.IsUnavailable(err) {
			fiberlog.Warnf("recommend: cache unavailable on exact lookup, regenerating: %v", err)
			return nil
		}
		fiberlog.Warnf("recommend: exact lookup failed, treating as miss: %v", err)
		return nil
	}
	if entry == nil {
		entry, err = s.cache.LookupFuzzy(ctx, key, s.fuzzyThreshold, kind)
		if err != nil {
			fiberlog.Warnf("recommend: fuzzy lookup failed, treating as miss: %v", err)
			return nil
		}
	}
	if entry == nil {
		return nil
	}

	fiberlog.Infof("recommend: cache hit for %q (stored key %q)", key, entry.Key)
	generatedAt := entry.GeneratedAt
	return &models.RecommendationResponse{
		Explanation:       entry.Payload,
		FromCache:         true,
		ModelName:         entry.ModelName,
		GenerationCostUSD: entry.CostUSD,
		CacheKey:          entry.Key,
		GeneratedAt:       &generatedAt,
	}
}

// noAnswerResponse maps the two terminal "no answer" retrieval outcomes to
// their distinct client-facing payloads. Both paths have already avoided
// the generator; any other error returns nil and propagates.
func noAnswerResponse(err error) *models.RecommendationResponse {
	switch {
	case errors.Is(err, retrieval.ErrNoCandidates):
		return safeResponse(msgNoCandidates)
	case errors.Is(err, retrieval.ErrLowRelevance):
		return safeResponse(msgLowRelevance)
	}
	return nil
}

func safeResponse(message string) *models.RecommendationResponse {
	return &models.RecommendationResponse{
		Explanation:       message,
		FromCache:         false,
		GenerationCostUSD: decimal.Zero,
	}
}

func ptr[T any](v T) *T {
	return &v
}
