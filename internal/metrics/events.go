package metrics

import (
	"context"

	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/pubsub"
)

// EventMetricsCollector subscribes to bus events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus pubsub.Bus) error {
	eventTypes := []pubsub.Type{
		pubsub.ActionRecorded,
		pubsub.EventCreated,
		pubsub.RewardCreated,
		pubsub.RewardGranted,
		pubsub.RewardRejected,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt pubsub.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case pubsub.ActionRecorded:
		payload, err := pubsub.DecodePayload[pubsub.ActionRecordedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		ActionsRecorded.WithLabelValues(payload.ActionType).Inc()

	case pubsub.EventCreated:
		EventsRegistered.Inc()

	case pubsub.RewardCreated:
		payload, err := pubsub.DecodePayload[pubsub.RewardCreatedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		RewardsRegistered.WithLabelValues(payload.RewardType).Inc()

	case pubsub.RewardGranted:
		payload, err := pubsub.DecodePayload[pubsub.RewardGrantedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		GrantsCompleted.WithLabelValues(payload.RewardType).Inc()
		if payload.RewardType == "POINT" {
			PointsGranted.Add(payload.Amount)
		}

	case pubsub.RewardRejected:
		payload, err := pubsub.DecodePayload[pubsub.RewardRejectedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type)
			return nil
		}
		GrantsRejected.WithLabelValues(payload.Reason).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
