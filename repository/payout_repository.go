package repository

import (
	"context"
	"fmt"
	"time"

	"poolpay/database"
	"poolpay/domain/entities"
	"poolpay/infrastructure/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepository implements the PayoutRepository interface
type PayoutRepository struct {
	q Queryable
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *database.DB) *PayoutRepository {
	return &PayoutRepository{q: db.Pool}
}

// NewPayoutRepositoryWithTx creates a new payout repository bound to a transaction
func NewPayoutRepositoryWithTx(tx Queryable) *PayoutRepository {
	return &PayoutRepository{q: tx}
}

const payoutColumns = `id, public_id, pool_id, recipient_id, amount, description, payout_method,
	status, created_by, voting_enabled, voting_starts_at, voting_ends_at, voting_status,
	voting_result, approve_votes, reject_votes, abstain_votes, total_votes,
	approval_percentage, failure_reason, completed_at, created_at, updated_at`

func scanPayout(row pgx.Row) (*entities.PoolPayout, error) {
	var payout entities.PoolPayout
	err := row.Scan(
		&payout.ID,
		&payout.PublicID,
		&payout.PoolID,
		&payout.RecipientID,
		&payout.Amount,
		&payout.Description,
		&payout.PayoutMethod,
		&payout.Status,
		&payout.CreatedBy,
		&payout.VotingEnabled,
		&payout.VotingStartsAt,
		&payout.VotingEndsAt,
		&payout.VotingStatus,
		&payout.VotingResult,
		&payout.ApproveVotes,
		&payout.RejectVotes,
		&payout.AbstainVotes,
		&payout.TotalVotes,
		&payout.ApprovalPercentage,
		&payout.FailureReason,
		&payout.CompletedAt,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// Create inserts a new payout and sets its generated fields
func (r *PayoutRepository) Create(ctx context.Context, payout *entities.PoolPayout) error {
	query := `
		INSERT INTO pool_payouts (
			public_id, pool_id, recipient_id, amount, description, payout_method,
			status, created_by, voting_enabled, voting_starts_at, voting_ends_at,
			voting_status, voting_result, approval_percentage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		payout.PublicID,
		payout.PoolID,
		payout.RecipientID,
		payout.Amount,
		payout.Description,
		payout.PayoutMethod,
		payout.Status,
		payout.CreatedBy,
		payout.VotingEnabled,
		payout.VotingStartsAt,
		payout.VotingEndsAt,
		payout.VotingStatus,
		payout.VotingResult,
		payout.ApprovalPercentage,
	).Scan(&payout.ID, &payout.CreatedAt, &payout.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}
	return nil
}

// GetByID retrieves a payout by its internal ID
func (r *PayoutRepository) GetByID(ctx context.Context, id int64) (*entities.PoolPayout, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payouts WHERE id = $1`, payoutColumns)

	payout, err := scanPayout(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get payout %d: %w", id, err)
	}
	return payout, nil
}

// GetByPublicID retrieves a payout by its public UUID
func (r *PayoutRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entities.PoolPayout, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payouts WHERE public_id = $1`, payoutColumns)

	payout, err := scanPayout(r.q.QueryRow(ctx, query, publicID))
	if err != nil {
		return nil, fmt.Errorf("failed to get payout %s: %w", publicID, err)
	}
	return payout, nil
}

// GetDetailByID retrieves a payout together with its votes, ledger rows and
// approval record
func (r *PayoutRepository) GetDetailByID(ctx context.Context, id int64) (*entities.PoolPayoutDetail, error) {
	if m := observability.GetMetrics(); m != nil {
		defer m.MeasureDatabaseQuery("payout", "GetDetailByID")()
	}

	payout, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, nil
	}

	votes, err := (&PayoutVoteRepository{q: r.q}).ListByPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	transactions, err := (&PayoutTransactionRepository{q: r.q}).ListByPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	approval, err := (&PayoutApprovalRepository{q: r.q}).GetByPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entities.PoolPayoutDetail{
		Payout:       payout,
		Votes:        votes,
		Transactions: transactions,
		Approval:     approval,
	}, nil
}

// Update persists the payout's mutable lifecycle fields
func (r *PayoutRepository) Update(ctx context.Context, payout *entities.PoolPayout) error {
	query := `
		UPDATE pool_payouts
		SET status = $2,
		    voting_status = $3,
		    voting_result = $4,
		    approve_votes = $5,
		    reject_votes = $6,
		    abstain_votes = $7,
		    total_votes = $8,
		    approval_percentage = $9,
		    failure_reason = $10,
		    completed_at = $11,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		payout.ID,
		payout.Status,
		payout.VotingStatus,
		payout.VotingResult,
		payout.ApproveVotes,
		payout.RejectVotes,
		payout.AbstainVotes,
		payout.TotalVotes,
		payout.ApprovalPercentage,
		payout.FailureReason,
		payout.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update payout %d: %w", payout.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payout %d not found", payout.ID)
	}
	return nil
}

// CountCreatedBetween counts a pool's payouts created within [from, to),
// cancelled ones excluded so they do not consume the daily budget
func (r *PayoutRepository) CountCreatedBetween(ctx context.Context, poolID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM pool_payouts
		WHERE pool_id = $1
		  AND created_at >= $2 AND created_at < $3
		  AND status != 'cancelled'
	`

	var count int
	err := r.q.QueryRow(ctx, query, poolID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payouts for pool %d: %w", poolID, err)
	}
	return count, nil
}

// ListByPool retrieves the most recent payouts for a pool
func (r *PayoutRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayout, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pool_payouts
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, payoutColumns)

	rows, err := r.q.Query(ctx, query, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var payouts []*entities.PoolPayout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

// GetExpiredVoting retrieves payouts whose voting window has lapsed without
// a decisive outcome
func (r *PayoutRepository) GetExpiredVoting(ctx context.Context) ([]*entities.PoolPayout, error) {
	if m := observability.GetMetrics(); m != nil {
		defer m.MeasureDatabaseQuery("payout", "GetExpiredVoting")()
	}

	query := fmt.Sprintf(`
		SELECT %s FROM pool_payouts
		WHERE voting_status = 'active'
		  AND voting_ends_at <= NOW()
		ORDER BY voting_ends_at
	`, payoutColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired voting payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*entities.PoolPayout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}
