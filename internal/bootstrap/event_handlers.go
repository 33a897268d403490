package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/gamifyhq/gamify/internal/audit"
	"github.com/gamifyhq/gamify/internal/metrics"
	"github.com/gamifyhq/gamify/internal/pubsub"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus     pubsub.Bus
	AuditService audit.Service
}

// RegisterEventHandlers sets up all bus subscribers:
// - Metrics collector (event-based counters)
// - Audit logger (persists bus events to the audit trail)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := deps.AuditService.Subscribe(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeAuditLogger, err)
	}
	slog.Info(LogMsgAuditLoggerInitialized)

	return nil
}
