package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// AuditLogRepository appends audit records. There is no update or delete;
// the log is append-only.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (event_type, user_id, username, ip_address, details, entity_type, entity_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, timestamp`
	return r.pool.QueryRow(ctx, query,
		entry.EventType,
		entry.UserID,
		entry.Username,
		entry.IPAddress,
		entry.Details,
		entry.EntityType,
		entry.EntityID,
	).Scan(&entry.ID, &entry.Timestamp)
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, timestamp, event_type, user_id, username, ip_address, details, entity_type, entity_id
        FROM audit_logs ORDER BY timestamp DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.EventType,
			&entry.UserID,
			&entry.Username,
			&entry.IPAddress,
			&entry.Details,
			&entry.EntityType,
			&entry.EntityID,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
