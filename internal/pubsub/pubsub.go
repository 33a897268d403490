package pubsub

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gamifyhq/gamify/internal/domain"
)

// Type represents the type of an event
type Type string

// Bus event types
const (
	ActionRecorded Type = Type(domain.EventTypeActionRecorded)
	EventCreated   Type = Type(domain.EventTypeEventCreated)
	RewardCreated  Type = Type(domain.EventTypeRewardCreated)
	RewardGranted  Type = Type(domain.EventTypeRewardGranted)
	RewardRejected Type = Type(domain.EventTypeRewardRejected)
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads

// ActionRecordedPayloadV1 is the typed payload for action record events
type ActionRecordedPayloadV1 struct {
	ActionID   string `json:"action_id"`
	UserID     string `json:"user_id"`
	ActionType string `json:"action_type"`
	OccurredAt int64  `json:"occurred_at"`
}

// EventCreatedPayloadV1 is the typed payload for event registration events
type EventCreatedPayloadV1 struct {
	EventID        string   `json:"event_id"`
	Name           string   `json:"name"`
	ConditionIDs   []string `json:"condition_ids"`
	ConditionCount int      `json:"condition_count"`
}

// RewardCreatedPayloadV1 is the typed payload for reward registration events
type RewardCreatedPayloadV1 struct {
	RewardID   string `json:"reward_id"`
	EventID    string `json:"event_id"`
	RewardType string `json:"reward_type"`
}

// RewardGrantedPayloadV1 is the typed payload for successful grant events
type RewardGrantedPayloadV1 struct {
	GrantID    string  `json:"grant_id"`
	UserID     string  `json:"user_id"`
	EventID    string  `json:"event_id"`
	RewardID   string  `json:"reward_id"`
	RewardType string  `json:"reward_type"`
	Amount     float64 `json:"amount"`
	Timestamp  int64   `json:"timestamp"`
}

// RewardRejectedPayloadV1 is the typed payload for rejected grant requests
type RewardRejectedPayloadV1 struct {
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewActionRecordedEvent creates a new action recorded event
func NewActionRecordedEvent(record domain.ActionRecord) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ActionRecorded,
		Payload: ActionRecordedPayloadV1{
			ActionID:   record.ID,
			UserID:     record.UserID,
			ActionType: record.ActionType,
			OccurredAt: record.OccurredAt.Unix(),
		},
	}
}

// NewEventCreatedEvent creates a new event registration event
func NewEventCreatedEvent(event domain.Event) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EventCreated,
		Payload: EventCreatedPayloadV1{
			EventID:        event.ID,
			Name:           event.Name,
			ConditionIDs:   event.ConditionIDs,
			ConditionCount: len(event.ConditionIDs),
		},
	}
}

// NewRewardCreatedEvent creates a new reward registration event
func NewRewardCreatedEvent(reward domain.Reward) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardCreated,
		Payload: RewardCreatedPayloadV1{
			RewardID:   reward.ID,
			EventID:    reward.EventID,
			RewardType: string(reward.Type),
		},
	}
}

// NewRewardGrantedEvent creates a new grant success event
func NewRewardGrantedEvent(grant domain.RewardGrant) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardGranted,
		Payload: RewardGrantedPayloadV1{
			GrantID:    grant.ID,
			UserID:     grant.UserID,
			EventID:    grant.EventID,
			RewardID:   grant.RewardID,
			RewardType: string(grant.RewardSnapshot.Type),
			Amount:     grant.RewardSnapshot.Value.Amount,
			Timestamp:  time.Now().Unix(),
		},
	}
}

// NewRewardRejectedEvent creates a new grant rejection event
func NewRewardRejectedEvent(userID, eventID, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardRejected,
		Payload: RewardRejectedPayloadV1{
			UserID:    userID,
			EventID:   eventID,
			Reason:    reason,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; a failing handler does not stop the others.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
