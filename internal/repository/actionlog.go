package repository

import (
	"context"
	"time"

	"github.com/gamifyhq/gamify/internal/domain"
)

// ActionQuery selects action records by resolved field-equality
// constraints plus an occurred_at range. Zero time bounds are open.
type ActionQuery struct {
	Equals map[string]interface{} // filterable field path -> required value
	From   time.Time
	To     time.Time
}

// ActionLog defines the interface for the append-only action record store
type ActionLog interface {
	// Append stores a new action record. Records are never updated or deleted.
	Append(ctx context.Context, record domain.ActionRecord) error

	// CountActions counts records matching the query
	CountActions(ctx context.Context, q ActionQuery) (int64, error)

	// SumActions totals the numeric value at a dotted path inside Custom
	// across matching records. Missing and non-numeric values contribute 0.
	SumActions(ctx context.Context, q ActionQuery, sumField string) (float64, error)

	// ListByUser returns a user's most recent actions
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActionRecord, error)
}
