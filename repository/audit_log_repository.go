package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"
)

// AuditLogRepository implements the AuditLogRepository interface
type AuditLogRepository struct {
	q Queryable
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{q: db.Pool}
}

// NewAuditLogRepositoryWithTx creates a new audit log repository bound to a transaction
func NewAuditLogRepositoryWithTx(tx Queryable) *AuditLogRepository {
	return &AuditLogRepository{q: tx}
}

// Record appends an audit entry. old_values and new_values are stored as
// jsonb, which pgx marshals from the maps directly.
func (r *AuditLogRepository) Record(ctx context.Context, entry *entities.AuditLog) error {
	query := `
		INSERT INTO audit_logs (pool_id, actor_id, action, entity_type, entity_id, old_values, new_values)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.PoolID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.OldValues,
		entry.NewValues,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record audit entry for pool %d: %w", entry.PoolID, err)
	}
	return nil
}

// ListByPool retrieves the most recent audit entries for a pool
func (r *AuditLogRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.AuditLog, error) {
	query := `
		SELECT id, pool_id, actor_id, action, entity_type, entity_id, old_values, new_values, created_at
		FROM audit_logs
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var entries []*entities.AuditLog
	for rows.Next() {
		var entry entities.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.PoolID,
			&entry.ActorID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.OldValues,
			&entry.NewValues,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
