package repository

import (
	"context"

	"github.com/gamifyhq/gamify/internal/domain"
)

// EventRegistry stores event definitions together with their conditions.
type EventRegistry interface {
	// CreateEvent persists the event and its nested conditions atomically:
	// either the event lands with ConditionIDs naming every stored
	// condition, or nothing is written.
	CreateEvent(ctx context.Context, event *domain.Event, conditions []domain.Condition) error

	// GetEvent returns domain.ErrEventNotFound when absent
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)

	// ListEvents returns events ordered by creation time descending
	ListEvents(ctx context.Context) ([]domain.Event, error)

	// GetCondition returns domain.ErrConditionNotFound when absent
	GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error)

	// ListConditionsByEvent returns the event's conditions. The result is
	// the same set the event's ConditionIDs names; the registry maintains
	// that redundancy.
	ListConditionsByEvent(ctx context.Context, eventID string) ([]domain.Condition, error)
}
