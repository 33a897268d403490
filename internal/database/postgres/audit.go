package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamifyhq/gamify/internal/repository"
)

type auditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new PostgreSQL audit log
func NewAuditRepository(db *pgxpool.Pool) repository.AuditLog {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, eventType string, userID *string, payload map[string]interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `INSERT INTO audit_log (event_type, user_id, payload) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, eventType, userID, payloadJSON); err != nil {
		return storageErr("insert audit entry", err)
	}
	return nil
}

func (r *auditRepository) GetEntries(ctx context.Context, filter repository.AuditFilter) ([]repository.AuditEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, event_type, user_id, payload, created_at FROM audit_log`)

	var args []interface{}
	var clauses []string
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.EventType != nil {
		args = append(args, *filter.EventType)
		clauses = append(clauses, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, storageErr("query audit entries", err)
	}
	defer rows.Close()

	var entries []repository.AuditEntry
	for rows.Next() {
		var entry repository.AuditEntry
		var payloadJSON []byte
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.UserID, &payloadJSON, &entry.CreatedAt); err != nil {
			return nil, storageErr("scan audit entry", err)
		}
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &entry.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal audit payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query audit entries", err)
	}
	return entries, nil
}

func (r *auditRepository) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	query := `DELETE FROM audit_log WHERE created_at < NOW() - ($1 * INTERVAL '1 day')`
	tag, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, storageErr("cleanup audit entries", err)
	}
	return tag.RowsAffected(), nil
}
