package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamifyhq/gamify/internal/database/postgres"
	"github.com/gamifyhq/gamify/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Events  repository.EventRegistry
	Rewards repository.RewardRegistry
	Grants  repository.GrantLedger
	Actions repository.ActionLog
	Audit   repository.AuditLog
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Events:  postgres.NewEventRepository(dbPool),
		Rewards: postgres.NewRewardRepository(dbPool),
		Grants:  postgres.NewGrantRepository(dbPool),
		Actions: postgres.NewActionLogRepository(dbPool),
		Audit:   postgres.NewAuditRepository(dbPool),
	}
}
