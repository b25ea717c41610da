package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// VotingType represents how individual votes are weighted
type VotingType string

const (
	VotingTypeOneMemberOneVote       VotingType = "one_member_one_vote"
	VotingTypeOneShareOneVote        VotingType = "one_share_one_vote"
	VotingTypeWeightedByContribution VotingType = "weighted_by_contribution"
)

// IsValid checks if the voting type is one of the known values
func (vt VotingType) IsValid() bool {
	switch vt {
	case VotingTypeOneMemberOneVote, VotingTypeOneShareOneVote, VotingTypeWeightedByContribution:
		return true
	}
	return false
}

// PoolVotingSettings represents per-pool voting configuration
type PoolVotingSettings struct {
	ID                  int64           `db:"id"`
	PoolID              int64           `db:"pool_id"`
	VotingEnabled       bool            `db:"voting_enabled"`
	VotingThreshold     decimal.Decimal `db:"voting_threshold"`
	VotingDurationHours int             `db:"voting_duration_hours"`
	MinVoters           int             `db:"min_voters"`
	VotingType          VotingType      `db:"voting_type"`
	AutoApprove         bool            `db:"auto_approve"`
	AllowAbstain        bool            `db:"allow_abstain"`
	RequireQuorum       bool            `db:"require_quorum"`
	QuorumPercentage    decimal.Decimal `db:"quorum_percentage"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

// DefaultVotingSettings returns voting settings with default values for a pool
func DefaultVotingSettings(poolID int64) *PoolVotingSettings {
	return &PoolVotingSettings{
		PoolID:              poolID,
		VotingEnabled:       false,
		VotingThreshold:     decimal.NewFromFloat(51.00),
		VotingDurationHours: 72,
		MinVoters:           1,
		VotingType:          VotingTypeOneMemberOneVote,
		AutoApprove:         false,
		AllowAbstain:        true,
		RequireQuorum:       false,
		QuorumPercentage:    decimal.NewFromFloat(50.00),
	}
}

// VotingDuration returns the configured voting window length
func (s *PoolVotingSettings) VotingDuration() time.Duration {
	return time.Duration(s.VotingDurationHours) * time.Hour
}
