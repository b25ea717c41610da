package entities

import "time"

// AuditLog represents a structured audit event written alongside every
// state-changing operation, in the same transaction as the mutation.
type AuditLog struct {
	ID         int64          `db:"id"`
	PoolID     int64          `db:"pool_id"`
	ActorID    *int64         `db:"actor_id"`
	Action     string         `db:"action"`
	EntityType string         `db:"entity_type"`
	EntityID   int64          `db:"entity_id"`
	OldValues  map[string]any `db:"old_values"`
	NewValues  map[string]any `db:"new_values"`
	CreatedAt  time.Time      `db:"created_at"`
}
