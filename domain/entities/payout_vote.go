package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoteType represents the direction of a member's vote
type VoteType string

const (
	VoteTypeApprove VoteType = "approve"
	VoteTypeReject  VoteType = "reject"
	VoteTypeAbstain VoteType = "abstain"
)

// IsValid checks if the vote type is one of the known values
func (vt VoteType) IsValid() bool {
	switch vt {
	case VoteTypeApprove, VoteTypeReject, VoteTypeAbstain:
		return true
	}
	return false
}

// PoolPayoutVote represents a single member's vote on a payout.
// At most one row exists per (payout, voter); a repeat cast replaces it.
type PoolPayoutVote struct {
	ID          int64           `db:"id"`
	PayoutID    int64           `db:"payout_id"`
	VoterID     int64           `db:"voter_id"`
	VoteType    VoteType        `db:"vote_type"`
	VotingPower decimal.Decimal `db:"voting_power"`
	Comment     *string         `db:"comment"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// VoteTally represents the aggregated state of a payout vote.
// ApprovalPercentage is derived from the weights, never stored authoritatively.
type VoteTally struct {
	ApproveVotes       int
	RejectVotes        int
	AbstainVotes       int
	TotalVotes         int
	ApproveWeight      decimal.Decimal
	RejectWeight       decimal.Decimal
	AbstainWeight      decimal.Decimal
	ApprovalPercentage decimal.Decimal
	EligibleVoters     int
	Outcome            VotingResult
}
