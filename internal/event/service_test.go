package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/pubsub"
)

var (
	eventStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	eventEnd   = time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
)

func validInput() CreateEventInput {
	return CreateEventInput{
		Name:      "june login streak",
		StartDate: eventStart,
		EndDate:   eventEnd,
		Status:    domain.StatusActive,
		Conditions: []ConditionInput{
			{
				ActionType:      domain.ActionTypeLogin,
				AggregationMode: domain.AggregationCount,
				TargetThreshold: 7,
				Status:          domain.StatusActive,
				MatchFilter: domain.MatchFilter{
					domain.FieldUserID: domain.PlaceholderTerm(domain.PlaceholderUserID),
				},
			},
		},
	}
}

func TestCreateEvent(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	bus := pubsub.NewMemoryBus()

	var published []pubsub.Event
	bus.Subscribe(pubsub.EventCreated, func(ctx context.Context, evt pubsub.Event) error {
		published = append(published, evt)
		return nil
	})

	svc := NewService(mockRepo, bus)

	mockRepo.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// Storage patches the condition id list onto the event.
			event := args.Get(1).(*domain.Event)
			conditions := args.Get(2).([]domain.Condition)
			ids := make([]string, len(conditions))
			for i, c := range conditions {
				ids[i] = c.ID
			}
			event.ConditionIDs = ids
		}).
		Return(nil)

	detail, err := svc.CreateEvent(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.True(t, domain.IsValidID(detail.Event.ID))
	require.Len(t, detail.Conditions, 1)
	cond := detail.Conditions[0]
	assert.True(t, domain.IsValidID(cond.ID))
	assert.Equal(t, detail.Event.ID, cond.EventID)
	assert.Equal(t, []string{cond.ID}, detail.Event.ConditionIDs)

	// Condition window defaults to the event window.
	assert.True(t, cond.WindowStart.Equal(eventStart))
	assert.True(t, cond.WindowEnd.Equal(eventEnd))

	require.Len(t, published, 1)
	payload, err := pubsub.DecodePayload[pubsub.EventCreatedPayloadV1](published[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, detail.Event.ID, payload.EventID)
	assert.Equal(t, 1, payload.ConditionCount)

	mockRepo.AssertExpectations(t)
}

func TestCreateEvent_ExplicitConditionWindow(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	condStart := eventStart.Add(7 * 24 * time.Hour)
	condEnd := eventStart.Add(14 * 24 * time.Hour)

	input := validInput()
	input.Conditions[0].WindowStart = condStart
	input.Conditions[0].WindowEnd = condEnd

	mockRepo.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	detail, err := svc.CreateEvent(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, detail.Conditions[0].WindowStart.Equal(condStart))
	assert.True(t, detail.Conditions[0].WindowEnd.Equal(condEnd))
}

func TestCreateEvent_Validation(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	cases := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"missing name", func(in *CreateEventInput) { in.Name = "" }},
		{"reversed dates", func(in *CreateEventInput) { in.StartDate, in.EndDate = in.EndDate, in.StartDate }},
		{"invalid status", func(in *CreateEventInput) { in.Status = "PAUSED" }},
		{"missing action type", func(in *CreateEventInput) { in.Conditions[0].ActionType = "" }},
		{"invalid aggregation", func(in *CreateEventInput) { in.Conditions[0].AggregationMode = "AVG" }},
		{"sum without field", func(in *CreateEventInput) {
			in.Conditions[0].AggregationMode = domain.AggregationSum
			in.Conditions[0].SumField = ""
		}},
		{"negative threshold", func(in *CreateEventInput) { in.Conditions[0].TargetThreshold = -1 }},
		{"unfilterable field", func(in *CreateEventInput) {
			in.Conditions[0].MatchFilter = domain.MatchFilter{"password": domain.LiteralTerm("x")}
		}},
		{"reversed condition window", func(in *CreateEventInput) {
			in.Conditions[0].WindowStart = eventEnd
			in.Conditions[0].WindowEnd = eventStart
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			_, err := svc.CreateEvent(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	mockRepo.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEvent_NoConditions(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	input := validInput()
	input.Conditions = nil

	mockRepo.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	detail, err := svc.CreateEvent(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, detail.Conditions)
}

func TestGetEvent(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	eventID := domain.NewID()
	conditionID := domain.NewID()
	event := &domain.Event{ID: eventID, Name: "e", ConditionIDs: []string{conditionID}}
	conditions := []domain.Condition{{ID: conditionID, EventID: eventID}}

	mockRepo.On("GetEvent", mock.Anything, eventID).Return(event, nil)
	mockRepo.On("ListConditionsByEvent", mock.Anything, eventID).Return(conditions, nil)

	detail, err := svc.GetEvent(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, *event, detail.Event)
	assert.Equal(t, conditions, detail.Conditions)
}

func TestGetEvent_NotFound(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	eventID := domain.NewID()
	mockRepo.On("GetEvent", mock.Anything, eventID).Return(nil, domain.ErrEventNotFound)

	_, err := svc.GetEvent(context.Background(), eventID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestGetEvent_InvalidID(t *testing.T) {
	mockRepo := new(MockEventRegistry)
	svc := NewService(mockRepo, pubsub.NewMemoryBus())

	_, err := svc.GetEvent(context.Background(), "short")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "GetEvent", mock.Anything, mock.Anything)
}
