package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PayoutVoteRepository implements the PayoutVoteRepository interface
type PayoutVoteRepository struct {
	q Queryable
}

// NewPayoutVoteRepository creates a new payout vote repository
func NewPayoutVoteRepository(db *database.DB) *PayoutVoteRepository {
	return &PayoutVoteRepository{q: db.Pool}
}

// NewPayoutVoteRepositoryWithTx creates a new payout vote repository bound to a transaction
func NewPayoutVoteRepositoryWithTx(tx Queryable) *PayoutVoteRepository {
	return &PayoutVoteRepository{q: tx}
}

const payoutVoteColumns = `id, payout_id, voter_id, vote_type, voting_power, comment, created_at, updated_at`

func scanPayoutVote(row pgx.Row) (*entities.PoolPayoutVote, error) {
	var vote entities.PoolPayoutVote
	err := row.Scan(
		&vote.ID,
		&vote.PayoutID,
		&vote.VoterID,
		&vote.VoteType,
		&vote.VotingPower,
		&vote.Comment,
		&vote.CreatedAt,
		&vote.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Upsert inserts the voter's vote or replaces their existing one. The
// unique constraint on (payout_id, voter_id) guarantees at most one row
// per voter.
func (r *PayoutVoteRepository) Upsert(ctx context.Context, vote *entities.PoolPayoutVote) error {
	query := `
		INSERT INTO pool_payout_votes (payout_id, voter_id, vote_type, voting_power, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (payout_id, voter_id)
		DO UPDATE SET
			vote_type = EXCLUDED.vote_type,
			voting_power = EXCLUDED.voting_power,
			comment = EXCLUDED.comment,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		vote.PayoutID,
		vote.VoterID,
		vote.VoteType,
		vote.VotingPower,
		vote.Comment,
	).Scan(&vote.ID, &vote.CreatedAt, &vote.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert vote by %d on payout %d: %w", vote.VoterID, vote.PayoutID, err)
	}
	return nil
}

// GetByPayoutAndVoter retrieves a single voter's vote on a payout
func (r *PayoutVoteRepository) GetByPayoutAndVoter(ctx context.Context, payoutID, voterID int64) (*entities.PoolPayoutVote, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payout_votes WHERE payout_id = $1 AND voter_id = $2`, payoutVoteColumns)

	vote, err := scanPayoutVote(r.q.QueryRow(ctx, query, payoutID, voterID))
	if err != nil {
		return nil, fmt.Errorf("failed to get vote by %d on payout %d: %w", voterID, payoutID, err)
	}
	return vote, nil
}

// ListByPayout retrieves all votes cast on a payout
func (r *PayoutVoteRepository) ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutVote, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payout_votes WHERE payout_id = $1 ORDER BY created_at`, payoutVoteColumns)

	rows, err := r.q.Query(ctx, query, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for payout %d: %w", payoutID, err)
	}
	defer rows.Close()

	var votes []*entities.PoolPayoutVote
	for rows.Next() {
		vote, err := scanPayoutVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	return votes, rows.Err()
}
