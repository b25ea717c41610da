package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PayoutApprovalRepository implements the PayoutApprovalRepository interface
type PayoutApprovalRepository struct {
	q Queryable
}

// NewPayoutApprovalRepository creates a new payout approval repository
func NewPayoutApprovalRepository(db *database.DB) *PayoutApprovalRepository {
	return &PayoutApprovalRepository{q: db.Pool}
}

// NewPayoutApprovalRepositoryWithTx creates a new payout approval repository bound to a transaction
func NewPayoutApprovalRepositoryWithTx(tx Queryable) *PayoutApprovalRepository {
	return &PayoutApprovalRepository{q: tx}
}

const payoutApprovalColumns = `id, payout_id, approver_id, status, comment, created_at, decided_at`

func scanPayoutApproval(row pgx.Row) (*entities.PoolPayoutApproval, error) {
	var approval entities.PoolPayoutApproval
	err := row.Scan(
		&approval.ID,
		&approval.PayoutID,
		&approval.ApproverID,
		&approval.Status,
		&approval.Comment,
		&approval.CreatedAt,
		&approval.DecidedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// Create inserts a new pending approval record
func (r *PayoutApprovalRepository) Create(ctx context.Context, approval *entities.PoolPayoutApproval) error {
	query := `
		INSERT INTO pool_payout_approvals (payout_id, status)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, approval.PayoutID, approval.Status).
		Scan(&approval.ID, &approval.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create approval for payout %d: %w", approval.PayoutID, err)
	}
	return nil
}

// GetByPayout retrieves the approval record for a payout
func (r *PayoutApprovalRepository) GetByPayout(ctx context.Context, payoutID int64) (*entities.PoolPayoutApproval, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payout_approvals WHERE payout_id = $1`, payoutApprovalColumns)

	approval, err := scanPayoutApproval(r.q.QueryRow(ctx, query, payoutID))
	if err != nil {
		return nil, fmt.Errorf("failed to get approval for payout %d: %w", payoutID, err)
	}
	return approval, nil
}

// Update persists the approval decision
func (r *PayoutApprovalRepository) Update(ctx context.Context, approval *entities.PoolPayoutApproval) error {
	query := `
		UPDATE pool_payout_approvals
		SET approver_id = $2, status = $3, comment = $4, decided_at = $5
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		approval.ID,
		approval.ApproverID,
		approval.Status,
		approval.Comment,
		approval.DecidedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update approval %d: %w", approval.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("approval %d not found", approval.ID)
	}
	return nil
}
