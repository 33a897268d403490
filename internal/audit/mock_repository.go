package audit

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gamifyhq/gamify/internal/repository"
)

// MockAuditLog is a mock implementation of the repository.AuditLog interface
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Record(ctx context.Context, eventType string, userID *string, payload map[string]interface{}) error {
	args := m.Called(ctx, eventType, userID, payload)
	return args.Error(0)
}

func (m *MockAuditLog) GetEntries(ctx context.Context, filter repository.AuditFilter) ([]repository.AuditEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]repository.AuditEntry), args.Error(1)
}

func (m *MockAuditLog) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
