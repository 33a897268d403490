package event

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gamifyhq/gamify/internal/domain"
)

// MockEventRegistry is a mock implementation of repository.EventRegistry
type MockEventRegistry struct {
	mock.Mock
}

func (m *MockEventRegistry) CreateEvent(ctx context.Context, event *domain.Event, conditions []domain.Condition) error {
	args := m.Called(ctx, event, conditions)
	return args.Error(0)
}

func (m *MockEventRegistry) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRegistry) ListEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRegistry) GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error) {
	args := m.Called(ctx, conditionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Condition), args.Error(1)
}

func (m *MockEventRegistry) ListConditionsByEvent(ctx context.Context, eventID string) ([]domain.Condition, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Condition), args.Error(1)
}
