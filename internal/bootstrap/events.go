package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gamifyhq/gamify/internal/config"
	"github.com/gamifyhq/gamify/internal/pubsub"
)

// InitializeEventSystem creates and configures the event bus and
// resilient publisher. It creates the dead-letter directory and wires
// the publisher's exponential backoff retry loop.
// Returns the bus, the resilient publisher, and any error encountered.
func InitializeEventSystem(cfg *config.Config) (pubsub.Bus, *pubsub.ResilientPublisher, error) {
	eventBus := pubsub.NewMemoryBus()

	deadLetterPath := cfg.DeadLetterPath
	if dir := filepath.Dir(deadLetterPath); dir != "." {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateDeadLetterDir, err)
		}
	}

	resilientPublisher, err := pubsub.NewResilientPublisher(eventBus, EventDefaultMaxRetries, EventDefaultRetryDelay, deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return eventBus, resilientPublisher, nil
}
