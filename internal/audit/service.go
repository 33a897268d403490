package audit

import (
	"context"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/repository"
)

// Service persists bus events as an audit trail
type Service interface {
	// Subscribe registers the audit logger to listen to all bus event types
	Subscribe(bus pubsub.Bus) error

	// GetEntries retrieves audit entries matching the filter, newest first
	GetEntries(ctx context.Context, filter repository.AuditFilter) ([]repository.AuditEntry, error)

	// CleanupOldEntries removes entries older than retention period
	CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo repository.AuditLog
}

// NewService creates a new audit service
func NewService(repo repository.AuditLog) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all bus event types
func (s *service) Subscribe(bus pubsub.Bus) error {
	eventTypes := []pubsub.Type{
		pubsub.ActionRecorded,
		pubsub.EventCreated,
		pubsub.RewardCreated,
		pubsub.RewardGranted,
		pubsub.RewardRejected,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent stores one bus event in the audit log. Typed payloads are
// flattened to their JSON map form so the trail stays queryable without
// knowledge of the payload structs.
func (s *service) handleEvent(ctx context.Context, evt pubsub.Event) error {
	log := logger.FromContext(ctx)

	payload, err := pubsub.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil {
		log.Debug("Event payload is not representable as a map, skipping audit", "type", evt.Type)
		return nil
	}

	var userID *string
	if uid, ok := payload["user_id"].(string); ok {
		userID = &uid
	}

	if err := s.repo.Record(ctx, string(evt.Type), userID, payload); err != nil {
		log.Error("Failed to write audit entry", "error", err, "type", evt.Type)
		return err
	}

	log.Debug("Audit entry recorded", "type", evt.Type, "user_id", userID)
	return nil
}

func (s *service) GetEntries(ctx context.Context, filter repository.AuditFilter) ([]repository.AuditEntry, error) {
	if filter.Limit <= 0 || filter.Limit > MaxQueryLimit {
		filter.Limit = DefaultQueryLimit
	}
	return s.repo.GetEntries(ctx, filter)
}

// CleanupOldEntries removes entries older than the retention period
func (s *service) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return s.repo.CleanupOldEntries(ctx, retentionDays)
}
