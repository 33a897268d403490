package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamifyhq/gamify/internal/domain"
	"github.com/gamifyhq/gamify/internal/repository"
)

// actionColumns maps filterable field paths to their columns. Custom
// fields are handled separately through the jsonb path operators.
var actionColumns = map[string]string{
	domain.FieldUserID:     "user_id",
	domain.FieldActionType: "action_type",
	domain.FieldTargetType: "target_type",
	domain.FieldTargetID:   "target_id",
}

type actionLogRepository struct {
	db *pgxpool.Pool
}

// NewActionLogRepository creates a new PostgreSQL action log repository
func NewActionLogRepository(db *pgxpool.Pool) repository.ActionLog {
	return &actionLogRepository{db: db}
}

// Append stores one action record
func (r *actionLogRepository) Append(ctx context.Context, record domain.ActionRecord) error {
	query := `
		INSERT INTO user_actions (action_id, user_id, action_type, target_type, target_id, custom, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	customJSON, err := marshalJSONB(record.Custom)
	if err != nil {
		return fmt.Errorf("marshal custom fields: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.ActionType,
		record.Target.TargetType,
		record.Target.TargetID,
		customJSON,
		record.OccurredAt,
		record.RecordedAt,
	)
	if err != nil {
		return storageErr("append action", err)
	}
	return nil
}

// CountActions counts records matching the query
func (r *actionLogRepository) CountActions(ctx context.Context, q repository.ActionQuery) (int64, error) {
	where, args, err := buildActionWhere(q)
	if err != nil {
		return 0, err
	}

	var count int64
	query := "SELECT COUNT(*) FROM user_actions" + where
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, storageErr("count actions", err)
	}
	return count, nil
}

// SumActions totals the numeric value at a dotted path inside custom
// across matching records. Non-numeric and absent values contribute 0,
// mirroring the in-memory lenient-aggregation semantics.
func (r *actionLogRepository) SumActions(ctx context.Context, q repository.ActionQuery, sumField string) (float64, error) {
	where, args, err := buildActionWhere(q)
	if err != nil {
		return 0, err
	}

	path := strings.Split(strings.TrimPrefix(sumField, domain.FieldCustomPrefix), ".")
	args = append(args, path)
	p := len(args)

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(
			CASE WHEN jsonb_typeof(custom #> $%d::text[]) = 'number'
			     THEN (custom #>> $%d::text[])::numeric
			     ELSE 0 END
		), 0)::float8
		FROM user_actions%s`, p, p, where)

	var total float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, storageErr("sum actions", err)
	}
	return total, nil
}

// ListByUser returns a user's most recent actions
func (r *actionLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.ActionRecord, error) {
	query := `
		SELECT action_id, user_id, action_type, target_type, target_id, custom, occurred_at, recorded_at
		FROM user_actions
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, storageErr("list actions", err)
	}
	defer rows.Close()

	var records []domain.ActionRecord
	for rows.Next() {
		var rec domain.ActionRecord
		var customJSON []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ActionType, &rec.Target.TargetType, &rec.Target.TargetID, &customJSON, &rec.OccurredAt, &rec.RecordedAt); err != nil {
			return nil, storageErr("scan action", err)
		}
		if rec.Custom, err = unmarshalMap(customJSON); err != nil {
			return nil, fmt.Errorf("unmarshal custom fields: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list actions", err)
	}
	return records, nil
}

// buildActionWhere translates a resolved action query into a WHERE
// clause with positional args. Known fields hit their columns; custom.*
// paths compare inside the jsonb document.
func buildActionWhere(q repository.ActionQuery) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argNum := 1

	for field, value := range q.Equals {
		switch {
		case actionColumns[field] != "":
			fmt.Fprintf(&sb, " AND %s = $%d", actionColumns[field], argNum)
			args = append(args, value)
			argNum++
		case strings.HasPrefix(field, domain.FieldCustomPrefix):
			path := strings.Split(strings.TrimPrefix(field, domain.FieldCustomPrefix), ".")
			fmt.Fprintf(&sb, " AND custom #> $%d::text[] = to_jsonb($%d)", argNum, argNum+1)
			args = append(args, path, value)
			argNum += 2
		default:
			return "", nil, fmt.Errorf("%w: filter field %q is not filterable", domain.ErrInvalidInput, field)
		}
	}

	if !q.From.IsZero() {
		fmt.Fprintf(&sb, " AND occurred_at >= $%d", argNum)
		args = append(args, q.From)
		argNum++
	}
	if !q.To.IsZero() {
		fmt.Fprintf(&sb, " AND occurred_at <= $%d", argNum)
		args = append(args, q.To)
	}

	return sb.String(), args, nil
}
