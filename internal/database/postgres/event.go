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

type eventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new PostgreSQL event registry
func NewEventRepository(db *pgxpool.Pool) repository.EventRegistry {
	return &eventRepository{db: db}
}

// CreateEvent persists the event and its conditions in one transaction.
// The event row is inserted first without condition ids, conditions
// follow, and the id list is patched last; a failure anywhere rolls the
// whole write back so the event never references missing conditions.
func (r *eventRepository) CreateEvent(ctx context.Context, event *domain.Event, conditions []domain.Condition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	insertEvent := `
		INSERT INTO events (event_id, name, description, start_date, end_date, status, condition_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '{}', $7, $8)
	`
	_, err = tx.Exec(ctx, insertEvent,
		event.ID,
		event.Name,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return storageErr("insert event", err)
	}

	insertCondition := `
		INSERT INTO conditions (condition_id, event_id, action_type, aggregation_mode, sum_field, target_threshold, status, match_filter, window_start, window_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	conditionIDs := make([]string, len(conditions))
	for i, cond := range conditions {
		filterJSON, err := json.Marshal(cond.MatchFilter)
		if err != nil {
			return fmt.Errorf("marshal match filter: %w", err)
		}

		_, err = tx.Exec(ctx, insertCondition,
			cond.ID,
			cond.EventID,
			cond.ActionType,
			cond.AggregationMode,
			cond.SumField,
			cond.TargetThreshold,
			cond.Status,
			filterJSON,
			cond.WindowStart,
			cond.WindowEnd,
			cond.CreatedAt,
			cond.UpdatedAt,
		)
		if err != nil {
			return storageErr("insert condition", err)
		}
		conditionIDs[i] = cond.ID
	}

	_, err = tx.Exec(ctx, `UPDATE events SET condition_ids = $1, updated_at = NOW() WHERE event_id = $2`, conditionIDs, event.ID)
	if err != nil {
		return storageErr("patch condition ids", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit event", err)
	}

	event.ConditionIDs = conditionIDs
	return nil
}

// GetEvent loads one event by id
func (r *eventRepository) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `
		SELECT event_id, name, description, start_date, end_date, status, condition_ids, created_at, updated_at
		FROM events
		WHERE event_id = $1
	`

	var e domain.Event
	err := r.db.QueryRow(ctx, query, eventID).Scan(
		&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.Status, &e.ConditionIDs, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
	}
	if err != nil {
		return nil, storageErr("get event", err)
	}
	return &e, nil
}

// ListEvents returns all events, newest first
func (r *eventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `
		SELECT event_id, name, description, start_date, end_date, status, condition_ids, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.Status, &e.ConditionIDs, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list events", err)
	}
	return events, nil
}

const conditionColumns = `condition_id, event_id, action_type, aggregation_mode, sum_field, target_threshold, status, match_filter, window_start, window_end, created_at, updated_at`

// GetCondition loads one condition by id
func (r *eventRepository) GetCondition(ctx context.Context, conditionID string) (*domain.Condition, error) {
	query := `SELECT ` + conditionColumns + ` FROM conditions WHERE condition_id = $1`

	cond, err := scanCondition(r.db.QueryRow(ctx, query, conditionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrConditionNotFound, conditionID)
	}
	if err != nil {
		return nil, storageErr("get condition", err)
	}
	return cond, nil
}

// ListConditionsByEvent returns the event's conditions in creation order
func (r *eventRepository) ListConditionsByEvent(ctx context.Context, eventID string) ([]domain.Condition, error) {
	query := `SELECT ` + conditionColumns + ` FROM conditions WHERE event_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, storageErr("list conditions", err)
	}
	defer rows.Close()

	var conditions []domain.Condition
	for rows.Next() {
		cond, err := scanCondition(rows)
		if err != nil {
			return nil, storageErr("scan condition", err)
		}
		conditions = append(conditions, *cond)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list conditions", err)
	}
	return conditions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCondition(row rowScanner) (*domain.Condition, error) {
	var c domain.Condition
	var filterJSON []byte
	err := row.Scan(
		&c.ID, &c.EventID, &c.ActionType, &c.AggregationMode, &c.SumField, &c.TargetThreshold,
		&c.Status, &filterJSON, &c.WindowStart, &c.WindowEnd, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(filterJSON) > 0 {
		if err := json.Unmarshal(filterJSON, &c.MatchFilter); err != nil {
			return nil, fmt.Errorf("unmarshal match filter: %w", err)
		}
	}
	return &c, nil
}
