package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the state of a payout
type PayoutStatus string

const (
	PayoutStatusPending       PayoutStatus = "pending"
	PayoutStatusProcessing    PayoutStatus = "processing"
	PayoutStatusPendingVoting PayoutStatus = "pending_voting"
	PayoutStatusCompleted     PayoutStatus = "completed"
	PayoutStatusFailed        PayoutStatus = "failed"
	PayoutStatusCancelled     PayoutStatus = "cancelled"
)

// VotingStatus represents the state of a payout's voting window
type VotingStatus string

const (
	VotingStatusNotStarted VotingStatus = "not_started"
	VotingStatusActive     VotingStatus = "active"
	VotingStatusCompleted  VotingStatus = "completed"
	VotingStatusCancelled  VotingStatus = "cancelled"
)

// VotingResult represents the outcome of a payout vote
type VotingResult string

const (
	VotingResultApproved VotingResult = "approved"
	VotingResultRejected VotingResult = "rejected"
	VotingResultPending  VotingResult = "pending"
	VotingResultFailed   VotingResult = "failed"
)

// PoolPayout represents a disbursement request debiting a pool's balance
type PoolPayout struct {
	ID                 int64           `db:"id"`
	PublicID           uuid.UUID       `db:"public_id"`
	PoolID             int64           `db:"pool_id"`
	RecipientID        int64           `db:"recipient_id"`
	Amount             decimal.Decimal `db:"amount"`
	Description        string          `db:"description"`
	PayoutMethod       string          `db:"payout_method"`
	Status             PayoutStatus    `db:"status"`
	CreatedBy          int64           `db:"created_by"`
	VotingEnabled      bool            `db:"voting_enabled"`
	VotingStartsAt     *time.Time      `db:"voting_starts_at"`
	VotingEndsAt       *time.Time      `db:"voting_ends_at"`
	VotingStatus       VotingStatus    `db:"voting_status"`
	VotingResult       VotingResult    `db:"voting_result"`
	ApproveVotes       int             `db:"approve_votes"`
	RejectVotes        int             `db:"reject_votes"`
	AbstainVotes       int             `db:"abstain_votes"`
	TotalVotes         int             `db:"total_votes"`
	ApprovalPercentage decimal.Decimal `db:"approval_percentage"`
	FailureReason      *string         `db:"failure_reason"`
	CompletedAt        *time.Time      `db:"completed_at"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// PoolPayoutDetail combines a payout with its votes and ledger transactions
type PoolPayoutDetail struct {
	Payout       *PoolPayout
	Votes        []*PoolPayoutVote
	Transactions []*PoolPayoutTransaction
	Approval     *PoolPayoutApproval
}

// IsTerminal checks if the payout has reached a final state
func (p *PoolPayout) IsTerminal() bool {
	switch p.Status {
	case PayoutStatusCompleted, PayoutStatusFailed, PayoutStatusCancelled:
		return true
	}
	return false
}

// CanBeCancelled checks if the payout is still cancellable
func (p *PoolPayout) CanBeCancelled() bool {
	switch p.Status {
	case PayoutStatusPending, PayoutStatusPendingVoting, PayoutStatusProcessing:
		return true
	}
	return false
}

// IsVotingActive checks if votes can currently be cast
func (p *PoolPayout) IsVotingActive() bool {
	if p.VotingStatus != VotingStatusActive || p.VotingEndsAt == nil {
		return false
	}
	return time.Now().Before(*p.VotingEndsAt)
}

// IsVotingExpired checks if the voting window has lapsed without a decisive outcome
func (p *PoolPayout) IsVotingExpired() bool {
	if p.VotingStatus != VotingStatusActive || p.VotingEndsAt == nil {
		return false
	}
	return !time.Now().Before(*p.VotingEndsAt)
}

// VotingTimeRemaining returns how long the voting window stays open, zero when closed
func (p *PoolPayout) VotingTimeRemaining() time.Duration {
	if p.VotingStatus != VotingStatusActive || p.VotingEndsAt == nil {
		return 0
	}
	remaining := time.Until(*p.VotingEndsAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OpenVoting puts the payout into its voting phase with the given window
func (p *PoolPayout) OpenVoting(startsAt time.Time, duration time.Duration) {
	endsAt := startsAt.Add(duration)
	p.Status = PayoutStatusPendingVoting
	p.VotingEnabled = true
	p.VotingStatus = VotingStatusActive
	p.VotingResult = VotingResultPending
	p.VotingStartsAt = &startsAt
	p.VotingEndsAt = &endsAt
}

// CloseVoting records a decisive voting outcome
func (p *PoolPayout) CloseVoting(result VotingResult) {
	p.VotingStatus = VotingStatusCompleted
	p.VotingResult = result
}

// ApplyTally copies the recomputed aggregates onto the payout
func (p *PoolPayout) ApplyTally(tally *VoteTally) {
	p.ApproveVotes = tally.ApproveVotes
	p.RejectVotes = tally.RejectVotes
	p.AbstainVotes = tally.AbstainVotes
	p.TotalVotes = tally.TotalVotes
	p.ApprovalPercentage = tally.ApprovalPercentage
}

// MarkCompleted transitions the payout to its completed terminal state
func (p *PoolPayout) MarkCompleted(at time.Time) {
	p.Status = PayoutStatusCompleted
	p.CompletedAt = &at
}

// MarkFailed transitions the payout to failed with a reason
func (p *PoolPayout) MarkFailed(reason string) {
	p.Status = PayoutStatusFailed
	p.FailureReason = &reason
}

// Cancel cancels the payout and its voting window if one is open
func (p *PoolPayout) Cancel() {
	if !p.CanBeCancelled() {
		return
	}
	p.Status = PayoutStatusCancelled
	if p.VotingStatus == VotingStatusActive {
		p.VotingStatus = VotingStatusCancelled
	}
}
