package bootstrap

import "time"

// File system permissions
const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// Event system configuration
const (
	// EventDefaultMaxRetries is how many times a failed publish is retried
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the base delay before the first retry
	EventDefaultRetryDelay = 2 * time.Second
)

// Database pool configuration
const (
	DBMaxConns        = 10
	DBMaxConnIdleTime = 5 * time.Minute
	DBMaxConnLifetime = 30 * time.Minute
)

// Background job configuration
const (
	// AuditCleanupInterval is how often expired audit entries are purged
	AuditCleanupInterval = 24 * time.Hour

	// JobWorkerCount and JobQueueSize bound the background job pool
	JobWorkerCount = 2
	JobQueueSize   = 16
)

// Log messages
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgAuditLoggerInitialized     = "Audit logger subscribed"
	LogMsgShuttingDownServer         = "Shutting down server"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgServerStopped              = "Server stopped"
)

// Error message prefixes
const (
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	ErrMsgFailedSubscribeAuditLogger     = "failed to subscribe audit logger"
)
