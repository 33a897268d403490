package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/repository"
)

type rewardRepository struct {
	db *pgxpool.Pool
}

// NewRewardRepository creates a new PostgreSQL reward registry
func NewRewardRepository(db *pgxpool.Pool) repository.RewardRegistry {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) CreateReward(ctx context.Context, reward *domain.Reward) error {
	metadataJSON, err := json.Marshal(reward.Value.Metadata)
	if err != nil {
		return fmt.Errorf("marshal reward metadata: %w", err)
	}
	if reward.Value.Metadata == nil {
		metadataJSON = []byte("{}")
	}

	query := `
		INSERT INTO rewards (reward_id, event_id, name, description, reward_type, amount, metadata, window_start, window_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.Exec(ctx, query,
		reward.ID,
		reward.EventID,
		reward.Name,
		reward.Description,
		reward.Type,
		reward.Value.Amount,
		metadataJSON,
		reward.WindowStart,
		reward.WindowEnd,
		reward.Status,
		reward.CreatedAt,
		reward.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert reward", err)
	}
	return nil
}

const rewardColumns = `reward_id, event_id, name, description, reward_type, amount, metadata, window_start, window_end, status, created_at, updated_at`

func (r *rewardRepository) GetReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE reward_id = $1`

	reward, err := scanReward(r.db.QueryRow(ctx, query, rewardID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRewardNotFound, rewardID)
	}
	if err != nil {
		return nil, storageErr("get reward", err)
	}
	return reward, nil
}

func (r *rewardRepository) ListRewards(ctx context.Context) ([]domain.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards ORDER BY created_at DESC`
	return r.queryRewards(ctx, query)
}

func (r *rewardRepository) ListRewardsByEvent(ctx context.Context, eventID string) ([]domain.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE event_id = $1 ORDER BY created_at`
	return r.queryRewards(ctx, query, eventID)
}

func (r *rewardRepository) queryRewards(ctx context.Context, query string, args ...interface{}) ([]domain.Reward, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list rewards", err)
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, storageErr("scan reward", err)
		}
		rewards = append(rewards, *reward)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list rewards", err)
	}
	return rewards, nil
}

func scanReward(row rowScanner) (*domain.Reward, error) {
	var rw domain.Reward
	var metadataJSON []byte
	err := row.Scan(
		&rw.ID, &rw.EventID, &rw.Name, &rw.Description, &rw.Type, &rw.Value.Amount,
		&metadataJSON, &rw.WindowStart, &rw.WindowEnd, &rw.Status, &rw.CreatedAt, &rw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadataJSON) > 0 && string(metadataJSON) != "{}" {
		if err := json.Unmarshal(metadataJSON, &rw.Value.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal reward metadata: %w", err)
		}
	}
	return &rw, nil
}
