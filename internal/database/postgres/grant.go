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

type grantRepository struct {
	db *pgxpool.Pool
}

// NewGrantRepository creates a new PostgreSQL grant ledger
func NewGrantRepository(db *pgxpool.Pool) repository.GrantLedger {
	return &grantRepository{db: db}
}

// AppendGrant inserts a grant row. The partial unique index on
// (user_id, event_id) for blocking statuses makes the duplicate check
// authoritative here: when two requests race, exactly one insert
// succeeds and the loser surfaces domain.ErrAlreadyGranted.
func (r *grantRepository) AppendGrant(ctx context.Context, grant *domain.RewardGrant) error {
	snapshotJSON, err := json.Marshal(grant.RewardSnapshot)
	if err != nil {
		return fmt.Errorf("marshal reward snapshot: %w", err)
	}

	query := `
		INSERT INTO reward_grants (grant_id, user_id, event_id, reward_id, reward_snapshot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		grant.ID,
		grant.UserID,
		grant.EventID,
		grant.RewardID,
		snapshotJSON,
		grant.Status,
		grant.CreatedAt,
		grant.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: user %s event %s", domain.ErrAlreadyGranted, grant.UserID, grant.EventID)
	}
	if err != nil {
		return storageErr("insert grant", err)
	}
	return nil
}

const grantColumns = `grant_id, user_id, event_id, reward_id, reward_snapshot, status, created_at, updated_at`

func (r *grantRepository) FindActiveGrant(ctx context.Context, userID, eventID string) (*domain.RewardGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM reward_grants
		WHERE user_id = $1 AND event_id = $2 AND status IN ('PENDING', 'COMPLETED')
	`

	grant, err := scanGrant(r.db.QueryRow(ctx, query, userID, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find active grant", err)
	}
	return grant, nil
}

func (r *grantRepository) FindGrantsByUser(ctx context.Context, userID string) ([]domain.RewardGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM reward_grants WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryGrants(ctx, query, userID)
}

func (r *grantRepository) FindAllGrants(ctx context.Context) ([]domain.RewardGrant, error) {
	query := `SELECT ` + grantColumns + ` FROM reward_grants ORDER BY created_at DESC`
	return r.queryGrants(ctx, query)
}

func (r *grantRepository) queryGrants(ctx context.Context, query string, args ...interface{}) ([]domain.RewardGrant, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list grants", err)
	}
	defer rows.Close()

	var grants []domain.RewardGrant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, storageErr("scan grant", err)
		}
		grants = append(grants, *grant)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list grants", err)
	}
	return grants, nil
}

func scanGrant(row rowScanner) (*domain.RewardGrant, error) {
	var g domain.RewardGrant
	var snapshotJSON []byte
	err := row.Scan(
		&g.ID, &g.UserID, &g.EventID, &g.RewardID, &snapshotJSON,
		&g.Status, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(snapshotJSON) > 0 {
		if err := json.Unmarshal(snapshotJSON, &g.RewardSnapshot); err != nil {
			return nil, fmt.Errorf("unmarshal reward snapshot: %w", err)
		}
	}
	return &g, nil
}
