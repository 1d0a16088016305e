package cache

import (
	"context"
	"errors"
	"time"

	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/models"
	"github.com/BogdanTibuleac/SmartLibrarian-RAG/internal/services/database"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnswerCache persists generated answers keyed by normalized prompt and
// serves exact and fuzzy lookups over the approved subset. The cache is an
// optimization: every lookup failure surfaces as a cache-unavailable error
// that callers absorb as a miss.
type AnswerCache struct {
	db *database.DB
}

// NewAnswerCache wires the cache to its persistence backend.
func NewAnswerCache(db *database.DB) *AnswerCache {
	return &AnswerCache{db: db}
}

// LookupExact returns the approved entry for key, or nil on a miss. A hit
// bumps retrieval_count and last_accessed_at with a single column-scoped
// UPDATE so concurrent hits never lose increments.
func (c *AnswerCache) LookupExact(ctx context.Context, key string) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	err := c.db.WithContext(ctx).
		Where("key = ? AND approval = ?", key, models.ApprovalApproved).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewCacheUnavailableError(err)
	}

	if err := c.recordHit(ctx, key); err != nil {
		// The answer is already in hand; losing one count is acceptable.
		fiberlog.Warnf("cache: failed to record hit for %q: %v", key, err)
	}

	return &entry, nil
}

// LookupFuzzy scores every approved key of the given output kind against
// key with trigram-overlap similarity and returns the best match when its
// score reaches threshold. Scoring is scoped to one kind so a text query
// can never fuzzy-match an illustration row or vice versa. On PostgreSQL
// the scoring runs in the database via pg_trgm; elsewhere it runs in Go
// over the approved key set. Ties are broken by the lexicographically
// smallest stored key so repeated runs pick the same row. Hit bookkeeping
// is keyed by the matched entry's stored key.
func (c *AnswerCache) LookupFuzzy(ctx context.Context, key string, threshold float64, kind models.OutputKind) (*models.CacheEntry, error) {
	var (
		matchedKey string
		score      float64
		err        error
	)

	if c.db.SupportsTrigramSimilarity() {
		matchedKey, score, err = c.bestMatchPostgres(ctx, key, kind)
	} else {
		matchedKey, score, err = c.bestMatchPortable(ctx, key, kind)
	}
	if err != nil {
		return nil, models.NewCacheUnavailableError(err)
	}
	if matchedKey == "" || score < threshold {
		return nil, nil
	}

	fiberlog.Debugf("cache: fuzzy match %q -> %q (similarity %.3f)", key, matchedKey, score)

	var entry models.CacheEntry
	err = c.db.WithContext(ctx).
		Where("key = ? AND approval = ?", matchedKey, models.ApprovalApproved).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The row was approved a moment ago; treat a racing delete as a miss.
		return nil, nil
	}
	if err != nil {
		return nil, models.NewCacheUnavailableError(err)
	}

	if err := c.recordHit(ctx, matchedKey); err != nil {
		fiberlog.Warnf("cache: failed to record hit for %q: %v", matchedKey, err)
	}

	return &entry, nil
}

func (c *AnswerCache) bestMatchPostgres(ctx context.Context, key string, kind models.OutputKind) (string, float64, error) {
	var row struct {
		Key string
		Sim float64
	}
	err := c.db.WithContext(ctx).Raw(
		`SELECT key, similarity(key, ?) AS sim
		   FROM qa_cache
		  WHERE approval = ? AND output_kind = ?
		  ORDER BY sim DESC, key ASC
		  LIMIT 1`,
		key, models.ApprovalApproved, kind,
	).Scan(&row).Error
	if err != nil {
		return "", 0, err
	}
	return row.Key, row.Sim, nil
}

func (c *AnswerCache) bestMatchPortable(ctx context.Context, key string, kind models.OutputKind) (string, float64, error) {
	var keys []string
	err := c.db.WithContext(ctx).
		Model(&models.CacheEntry{}).
		Where("approval = ? AND output_kind = ?", models.ApprovalApproved, kind).
		Order("key ASC").
		Pluck("key", &keys).Error
	if err != nil {
		return "", 0, err
	}

	bestKey, bestScore := "", -1.0
	for _, candidate := range keys {
		// Strictly-greater keeps the first (smallest) key on score ties.
		if score := TrigramSimilarity(key, candidate); score > bestScore {
			bestKey, bestScore = candidate, score
		}
	}
	if bestKey == "" {
		return "", 0, nil
	}
	return bestKey, bestScore, nil
}

func (c *AnswerCache) recordHit(ctx context.Context, key string) error {
	return c.db.WithContext(ctx).
		Model(&models.CacheEntry{}).
		Where("key = ? AND approval = ?", key, models.ApprovalApproved).
		UpdateColumns(map[string]any{
			"retrieval_count":  gorm.Expr("retrieval_count + 1"),
			"last_accessed_at": time.Now().UTC(),
		}).Error
}

// Upsert inserts or overwrites the entry for key. Regeneration always
// resets approval to pending: prior approval never carries over to new
// content. The write rides the driver's native conflict resolution, so a
// concurrent reader sees either the old row or the new one, never a blend.
func (c *AnswerCache) Upsert(
	ctx context.Context,
	key string,
	kind models.OutputKind,
	payload, modelName string,
	cost decimal.Decimal,
) error {
	now := time.Now().UTC()
	entry := models.CacheEntry{
		Key:            key,
		OutputKind:     kind,
		Payload:        payload,
		ModelName:      modelName,
		CostUSD:        cost,
		GeneratedAt:    now,
		LastAccessedAt: now,
		RetrievalCount: 0,
		Approval:       models.ApprovalPending,
	}

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"output_kind":      entry.OutputKind,
			"payload":          entry.Payload,
			"model_name":       entry.ModelName,
			"cost_usd":         entry.CostUSD,
			"generated_at":     entry.GeneratedAt,
			"last_accessed_at": entry.LastAccessedAt,
			"approval":         models.ApprovalPending,
		}),
	}).Create(&entry).Error
	if err != nil {
		return models.NewPersistenceError("failed to upsert cache entry", err)
	}
	return nil
}

// SetApproval moves the entry for key to approved or rejected. Re-applying
// the same verdict is a state-level no-op, and a missing key affects zero
// rows without error. Only this transition makes an entry visible to
// lookups.
func (c *AnswerCache) SetApproval(ctx context.Context, key string, approved bool) (int64, error) {
	state := models.ApprovalRejected
	if approved {
		state = models.ApprovalApproved
	}

	res := c.db.WithContext(ctx).
		Model(&models.CacheEntry{}).
		Where("key = ?", key).
		UpdateColumn("approval", state)
	if res.Error != nil {
		return 0, models.NewPersistenceError("failed to set approval", res.Error)
	}
	return res.RowsAffected, nil
}

// Reap deletes rejected entries older than maxAge, measured from their last
// generation. Pending entries are deliberately exempt: only an explicit
// rejection makes a row reclaimable under the current retention policy.
func (c *AnswerCache) Reap(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res := c.db.WithContext(ctx).
		Where("approval = ? AND generated_at < ?", models.ApprovalRejected, cutoff).
		Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, models.NewPersistenceError("failed to reap cache entries", res.Error)
	}
	return res.RowsAffected, nil
}

// IsUnavailable reports whether err marks the cache as unreachable, in
// which case callers proceed as if the lookup missed.
func IsUnavailable(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Type == models.ErrorTypeCacheUnavailable
}
