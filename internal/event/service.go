package event

import (
	"context"
	"fmt"
	"time"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/pubsub"
	"github.com/gamifyhq/gamify/internal/repository"
)

// ConditionInput is one achievement condition of a new event.
type ConditionInput struct {
	ActionType      string
	AggregationMode domain.AggregationMode
	SumField        string
	TargetThreshold float64
	Status          domain.Status
	MatchFilter     domain.MatchFilter
	WindowStart     time.Time
	WindowEnd       time.Time
}

// CreateEventInput carries the fields of a new event and its conditions.
type CreateEventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      domain.Status
	Conditions  []ConditionInput
}

// EventDetail is an event together with its resolved conditions.
type EventDetail struct {
	Event      domain.Event       `json:"event"`
	Conditions []domain.Condition `json:"conditions"`
}

// Service is the event and condition registry
type Service interface {
	// CreateEvent registers an event with its conditions atomically.
	// Either the event and every condition are stored, or nothing is.
	CreateEvent(ctx context.Context, input CreateEventInput) (*EventDetail, error)

	// GetEvent returns an event with its conditions
	GetEvent(ctx context.Context, eventID string) (*EventDetail, error)

	// ListEvents returns all registered events, newest first
	ListEvents(ctx context.Context) ([]domain.Event, error)

	// GetCondition returns a single condition
	GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error)
}

type service struct {
	repo      repository.EventRegistry
	publisher pubsub.Bus
}

// NewService creates a new event registry service
func NewService(repo repository.EventRegistry, publisher pubsub.Bus) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) CreateEvent(ctx context.Context, input CreateEventInput) (*EventDetail, error) {
	log := logger.FromContext(ctx)

	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := domain.Event{
		ID:          domain.NewID(),
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	conditions := make([]domain.Condition, len(input.Conditions))
	for i, ci := range input.Conditions {
		cond := domain.Condition{
			ID:              domain.NewID(),
			EventID:         event.ID,
			ActionType:      ci.ActionType,
			AggregationMode: ci.AggregationMode,
			SumField:        ci.SumField,
			TargetThreshold: ci.TargetThreshold,
			Status:          ci.Status,
			MatchFilter:     ci.MatchFilter,
			WindowStart:     ci.WindowStart,
			WindowEnd:       ci.WindowEnd,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		// Conditions without their own window inherit the event's.
		if cond.WindowStart.IsZero() {
			cond.WindowStart = event.StartDate
		}
		if cond.WindowEnd.IsZero() {
			cond.WindowEnd = event.EndDate
		}
		conditions[i] = cond
	}

	if err := s.repo.CreateEvent(ctx, &event, conditions); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.publisher.Publish(ctx, pubsub.NewEventCreatedEvent(event)); err != nil {
		log.Warn("Failed to publish event created event", "error", err, "event_id", event.ID)
	}

	log.Info("Event registered",
		"event_id", event.ID,
		"name", event.Name,
		"conditions", len(conditions))

	return &EventDetail{Event: event, Conditions: conditions}, nil
}

func (s *service) GetEvent(ctx context.Context, eventID string) (*EventDetail, error) {
	if !domain.IsValidID(eventID) {
		return nil, fmt.Errorf("%w: event id %q is not a valid id", domain.ErrInvalidInput, eventID)
	}

	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	conditions, err := s.repo.ListConditionsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventDetail{Event: *event, Conditions: conditions}, nil
}

func (s *service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *service) GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error) {
	if !domain.IsValidID(conditionID) {
		return nil, fmt.Errorf("%w: condition id %q is not a valid id", domain.ErrInvalidInput, conditionID)
	}
	return s.repo.GetCondition(ctx, conditionID)
}

func validateEventInput(input CreateEventInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: event start and end dates are required", domain.ErrInvalidInput)
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: event end date precedes start date", domain.ErrInvalidInput)
	}
	if !input.Status.IsValid() {
		return fmt.Errorf("%w: invalid event status %q", domain.ErrInvalidInput, input.Status)
	}

	for i, ci := range input.Conditions {
		if ci.ActionType == "" {
			return fmt.Errorf("%w: condition %d has no action type", domain.ErrInvalidInput, i)
		}
		if !ci.AggregationMode.IsValid() {
			return fmt.Errorf("%w: condition %d has invalid aggregation mode %q", domain.ErrInvalidInput, i, ci.AggregationMode)
		}
		if ci.AggregationMode == domain.AggregationSum && ci.SumField == "" {
			return fmt.Errorf("%w: condition %d uses SUM without a sum field", domain.ErrInvalidInput, i)
		}
		if !ci.Status.IsValid() {
			return fmt.Errorf("%w: condition %d has invalid status %q", domain.ErrInvalidInput, i, ci.Status)
		}
		if ci.TargetThreshold < 0 {
			return fmt.Errorf("%w: condition %d has negative threshold", domain.ErrInvalidInput, i)
		}
		if !ci.WindowStart.IsZero() && !ci.WindowEnd.IsZero() && ci.WindowEnd.Before(ci.WindowStart) {
			return fmt.Errorf("%w: condition %d window end precedes start", domain.ErrInvalidInput, i)
		}
		if err := ci.MatchFilter.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}
