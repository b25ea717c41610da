package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolMemberRole represents a member's role within a pool
type PoolMemberRole string

const (
	PoolMemberRoleOwner  PoolMemberRole = "owner"
	PoolMemberRoleMember PoolMemberRole = "member"
)

// PoolMember represents a user's membership in a pool.
// Shares and TotalContributed supply the vote weights for the
// share-based and contribution-based voting types.
type PoolMember struct {
	ID               int64           `db:"id"`
	PoolID           int64           `db:"pool_id"`
	UserID           int64           `db:"user_id"`
	Role             PoolMemberRole  `db:"role"`
	Shares           decimal.Decimal `db:"shares"`
	TotalContributed decimal.Decimal `db:"total_contributed"`
	JoinedAt         time.Time       `db:"joined_at"`
}

// IsOwner checks if this member owns the pool
func (m *PoolMember) IsOwner() bool {
	return m.Role == PoolMemberRoleOwner
}

// VotingPower returns the member's vote weight for the given voting type.
// Falls back to 1.00 when the member has no shares or contributions yet,
// so a brand-new member still casts a countable vote.
func (m *PoolMember) VotingPower(votingType VotingType) decimal.Decimal {
	switch votingType {
	case VotingTypeOneShareOneVote:
		if m.Shares.IsPositive() {
			return m.Shares
		}
	case VotingTypeWeightedByContribution:
		if m.TotalContributed.IsPositive() {
			return m.TotalContributed
		}
	}
	return decimal.NewFromInt(1)
}
