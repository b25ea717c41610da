package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PoolMemberRepository implements the PoolMemberRepository interface
type PoolMemberRepository struct {
	q Queryable
}

// NewPoolMemberRepository creates a new pool member repository
func NewPoolMemberRepository(db *database.DB) *PoolMemberRepository {
	return &PoolMemberRepository{q: db.Pool}
}

// NewPoolMemberRepositoryWithTx creates a new pool member repository bound to a transaction
func NewPoolMemberRepositoryWithTx(tx Queryable) *PoolMemberRepository {
	return &PoolMemberRepository{q: tx}
}

const poolMemberColumns = `id, pool_id, user_id, role, shares, total_contributed, joined_at`

func scanPoolMember(row pgx.Row) (*entities.PoolMember, error) {
	var member entities.PoolMember
	err := row.Scan(
		&member.ID,
		&member.PoolID,
		&member.UserID,
		&member.Role,
		&member.Shares,
		&member.TotalContributed,
		&member.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMember retrieves a user's membership in a pool
func (r *PoolMemberRepository) GetMember(ctx context.Context, poolID, userID int64) (*entities.PoolMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_members WHERE pool_id = $1 AND user_id = $2`, poolMemberColumns)

	member, err := scanPoolMember(r.q.QueryRow(ctx, query, poolID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d of pool %d: %w", userID, poolID, err)
	}
	return member, nil
}

// ListByPool retrieves all members of a pool
func (r *PoolMemberRepository) ListByPool(ctx context.Context, poolID int64) ([]*entities.PoolMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_members WHERE pool_id = $1 ORDER BY joined_at`, poolMemberColumns)

	rows, err := r.q.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var members []*entities.PoolMember
	for rows.Next() {
		member, err := scanPoolMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// CountByPool returns the number of members in a pool
func (r *PoolMemberRepository) CountByPool(ctx context.Context, poolID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM pool_members WHERE pool_id = $1`, poolID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members of pool %d: %w", poolID, err)
	}
	return count, nil
}

// AddMember inserts a new pool membership
func (r *PoolMemberRepository) AddMember(ctx context.Context, member *entities.PoolMember) error {
	query := `
		INSERT INTO pool_members (pool_id, user_id, role, shares, total_contributed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, joined_at
	`

	err := r.q.QueryRow(ctx, query,
		member.PoolID,
		member.UserID,
		member.Role,
		member.Shares,
		member.TotalContributed,
	).Scan(&member.ID, &member.JoinedAt)

	if err != nil {
		return fmt.Errorf("failed to add member %d to pool %d: %w", member.UserID, member.PoolID, err)
	}
	return nil
}

// AddContribution increments a member's recorded contribution total
func (r *PoolMemberRepository) AddContribution(ctx context.Context, poolID, userID int64, amount decimal.Decimal) error {
	query := `
		UPDATE pool_members
		SET total_contributed = total_contributed + $3
		WHERE pool_id = $1 AND user_id = $2
	`

	result, err := r.q.Exec(ctx, query, poolID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to add contribution for member %d of pool %d: %w", userID, poolID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %d of pool %d not found", userID, poolID)
	}
	return nil
}
