package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Approval is the retention state of a cached answer. Entries start as
// pending, move to approved or rejected on user feedback, and return to
// pending whenever the answer is regenerated.
type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

// Valid reports whether a is one of the three known states.
func (a Approval) Valid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// OutputKind discriminates how the cached payload is interpreted.
type OutputKind string

const (
	OutputText  OutputKind = "text"
	OutputImage OutputKind = "image"
	OutputAudio OutputKind = "audio"
)

// CacheEntry is one persisted answer, keyed by the normalized prompt.
// At most one row exists per key; an upsert for an existing key overwrites
// the payload and resets Approval to pending.
type CacheEntry struct {
	Key            string          `gorm:"column:key;primaryKey" json:"key"`
	OutputKind     OutputKind      `gorm:"column:output_kind;not null;default:text" json:"output_kind"`
	Payload        string          `gorm:"column:payload;not null" json:"payload"`
	ModelName      string          `gorm:"column:model_name;not null" json:"model_name"`
	CostUSD        decimal.Decimal `gorm:"column:cost_usd;type:decimal(12,6);not null" json:"cost_usd"`
	GeneratedAt    time.Time       `gorm:"column:generated_at;not null" json:"generated_at"`
	LastAccessedAt time.Time       `gorm:"column:last_accessed_at;not null" json:"last_accessed_at"`
	RetrievalCount int64           `gorm:"column:retrieval_count;not null;default:0" json:"retrieval_count"`
	Approval       Approval        `gorm:"column:approval;not null;default:pending;index" json:"approval"`
}

// TableName keeps the table name of the original schema.
func (CacheEntry) TableName() string {
	return "qa_cache"
}
