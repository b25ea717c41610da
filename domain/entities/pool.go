package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pool represents a shared-contribution group with an owner and members
type Pool struct {
	ID               int64           `db:"id"`
	OwnerID          int64           `db:"owner_id"`
	Name             string          `db:"name"`
	Description      string          `db:"description"`
	GoalAmount       decimal.Decimal `db:"goal_amount"`
	TotalContributed decimal.Decimal `db:"total_contributed"`
	IsPrivate        bool            `db:"is_private"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// CanCover checks if the pool balance is sufficient for the given amount
func (p *Pool) CanCover(amount decimal.Decimal) bool {
	return p.TotalContributed.GreaterThanOrEqual(amount)
}

// HasReachedGoal checks if the pool has reached its goal amount
func (p *Pool) HasReachedGoal() bool {
	if p.GoalAmount.IsZero() {
		return false
	}
	return p.TotalContributed.GreaterThanOrEqual(p.GoalAmount)
}

// Credit increases the pool balance by the given amount
func (p *Pool) Credit(amount decimal.Decimal) {
	p.TotalContributed = p.TotalContributed.Add(amount)
}

// Debit decreases the pool balance by the given amount
func (p *Pool) Debit(amount decimal.Decimal) {
	p.TotalContributed = p.TotalContributed.Sub(amount)
}
