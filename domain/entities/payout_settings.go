package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolPayoutSettings represents per-pool payout limits and approval rules
type PoolPayoutSettings struct {
	ID                   int64           `db:"id"`
	PoolID               int64           `db:"pool_id"`
	MaxPayoutAmount      decimal.Decimal `db:"max_payout_amount"`
	MinPayoutAmount      decimal.Decimal `db:"min_payout_amount"`
	RequireApproval      bool            `db:"require_approval"`
	ApprovalThreshold    decimal.Decimal `db:"approval_threshold"`
	MaxDailyPayouts      int             `db:"max_daily_payouts"`
	AllowedPayoutMethods []string        `db:"allowed_payout_methods"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

// DefaultPayoutSettings returns payout settings with default values for a pool
func DefaultPayoutSettings(poolID int64) *PoolPayoutSettings {
	return &PoolPayoutSettings{
		PoolID:               poolID,
		MaxPayoutAmount:      decimal.NewFromFloat(10000.00),
		MinPayoutAmount:      decimal.NewFromFloat(1.00),
		RequireApproval:      false,
		ApprovalThreshold:    decimal.NewFromFloat(500.00),
		MaxDailyPayouts:      10,
		AllowedPayoutMethods: []string{"paypal"},
	}
}

// AllowsMethod checks if the given payout method is permitted.
// An empty method list permits everything.
func (s *PoolPayoutSettings) AllowsMethod(method string) bool {
	if len(s.AllowedPayoutMethods) == 0 {
		return true
	}
	for _, m := range s.AllowedPayoutMethods {
		if m == method {
			return true
		}
	}
	return false
}

// NeedsManualApproval checks if a payout of the given amount requires a
// manual approval record before disbursement
func (s *PoolPayoutSettings) NeedsManualApproval(amount decimal.Decimal) bool {
	return s.RequireApproval && amount.GreaterThanOrEqual(s.ApprovalThreshold)
}
