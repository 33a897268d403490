package action

import (
	"context"
	"fmt"
	"time"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/repository"
)

// RecordInput carries the caller-supplied fields of a new action.
type RecordInput struct {
	UserID     string
	ActionType string
	Target     domain.ActionTarget
	Custom     map[string]interface{}
	OccurredAt time.Time
}

// Service is the append-only user action log
type Service interface {
	// Record appends one action. The record is immutable once stored.
	Record(ctx context.Context, input RecordInput) (*domain.ActionRecord, error)

	// ListByUser returns a user's most recent actions
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActionRecord, error)
}

type service struct {
	repo      repository.ActionLog
	publisher pubsub.Bus
}

// NewService creates a new action log service
func NewService(repo repository.ActionLog, publisher pubsub.Bus) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) Record(ctx context.Context, input RecordInput) (*domain.ActionRecord, error) {
	log := logger.FromContext(ctx)

	if !domain.IsValidID(input.UserID) {
		return nil, fmt.Errorf("%w: user id %q is not a valid id", domain.ErrInvalidInput, input.UserID)
	}
	if input.ActionType == "" {
		return nil, fmt.Errorf("%w: action type is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	record := domain.ActionRecord{
		ID:         domain.NewID(),
		UserID:     input.UserID,
		ActionType: input.ActionType,
		Target:     input.Target,
		Custom:     input.Custom,
		OccurredAt: occurredAt,
		RecordedAt: now,
	}

	if err := s.repo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append action: %w", err)
	}

	if err := s.publisher.Publish(ctx, pubsub.NewActionRecordedEvent(record)); err != nil {
		// The action is already durable; publish failures must not fail
		// the request.
		log.Warn("Failed to publish action recorded event", "error", err, "action_id", record.ID)
	}

	log.Debug("Action recorded",
		"action_id", record.ID,
		"user_id", record.UserID,
		"action_type", record.ActionType)

	return &record, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActionRecord, error) {
	if !domain.IsValidID(userID) {
		return nil, fmt.Errorf("%w: user id %q is not a valid id", domain.ErrInvalidInput, userID)
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
