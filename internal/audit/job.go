package audit

import (
	"context"
	"time"

	"github.com/gamifyhq/gamify/internal/logger"
)

// CleanupJob removes audit entries past the retention period
type CleanupJob struct {
	service       Service
	retentionDays int
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Process executes the cleanup job
func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Starting audit cleanup job", "retentionDays", j.retentionDays)

	start := time.Now()
	count, err := j.service.CleanupOldEntries(ctx, j.retentionDays)
	duration := time.Since(start)

	if err != nil {
		log.Error("Audit cleanup failed", "error", err, "duration", duration)
		return err
	}

	log.Info("Audit cleanup completed", "deletedCount", count, "duration", duration)
	return nil
}
