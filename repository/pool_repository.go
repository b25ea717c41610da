package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PoolRepository implements the PoolRepository interface
type PoolRepository struct {
	q Queryable
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *database.DB) *PoolRepository {
	return &PoolRepository{q: db.Pool}
}

// NewPoolRepositoryWithTx creates a new pool repository bound to a transaction
func NewPoolRepositoryWithTx(tx Queryable) *PoolRepository {
	return &PoolRepository{q: tx}
}

const poolColumns = `id, owner_id, name, description, goal_amount, total_contributed, is_private, created_at, updated_at`

func scanPool(row pgx.Row) (*entities.Pool, error) {
	var pool entities.Pool
	err := row.Scan(
		&pool.ID,
		&pool.OwnerID,
		&pool.Name,
		&pool.Description,
		&pool.GoalAmount,
		&pool.TotalContributed,
		&pool.IsPrivate,
		&pool.CreatedAt,
		&pool.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetByID retrieves a pool by its ID
func (r *PoolRepository) GetByID(ctx context.Context, id int64) (*entities.Pool, error) {
	query := fmt.Sprintf(`SELECT %s FROM pools WHERE id = $1`, poolColumns)

	pool, err := scanPool(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %d: %w", id, err)
	}
	return pool, nil
}

// GetByIDForUpdate retrieves a pool by its ID with a row lock, serializing
// concurrent balance checks against the same pool
func (r *PoolRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Pool, error) {
	query := fmt.Sprintf(`SELECT %s FROM pools WHERE id = $1 FOR UPDATE`, poolColumns)

	pool, err := scanPool(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool %d: %w", id, err)
	}
	return pool, nil
}

// Create inserts a new pool and sets its generated fields
func (r *PoolRepository) Create(ctx context.Context, pool *entities.Pool) error {
	query := `
		INSERT INTO pools (owner_id, name, description, goal_amount, total_contributed, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		pool.OwnerID,
		pool.Name,
		pool.Description,
		pool.GoalAmount,
		pool.TotalContributed,
		pool.IsPrivate,
	).Scan(&pool.ID, &pool.CreatedAt, &pool.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	return nil
}

// UpdateBalance sets the pool's balance to the given value
func (r *PoolRepository) UpdateBalance(ctx context.Context, poolID int64, newBalance decimal.Decimal) error {
	query := `
		UPDATE pools
		SET total_contributed = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, poolID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for pool %d: %w", poolID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pool %d not found", poolID)
	}
	return nil
}
