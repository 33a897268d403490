package repository

import (
	"context"
	"time"
)

// AuditEntry is one persisted bus event.
type AuditEntry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	UserID    *string                `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditFilter selects audit entries for queries.
type AuditFilter struct {
	UserID    *string
	EventType *string
	Since     *time.Time
	Limit     int
}

// AuditLog defines the interface for the bus-event audit trail.
type AuditLog interface {
	// Record stores one bus event
	Record(ctx context.Context, eventType string, userID *string, payload map[string]interface{}) error

	// GetEntries retrieves entries matching the filter, newest first
	GetEntries(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)

	// CleanupOldEntries removes entries older than the retention period
	CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error)
}
