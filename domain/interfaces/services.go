package interfaces

import (
	"context"

	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
)

// AmountValidation is the result of checking a candidate payout amount
// against the pool's limits. All violations are collected, not short-circuited.
type AmountValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// DailyLimit is the result of checking the pool's daily payout count
type DailyLimit struct {
	Limit     int  `json:"limit"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Exceeded  bool `json:"exceeded"`
}

// CreatePayoutInput carries the caller-supplied fields for a new payout
type CreatePayoutInput struct {
	PoolID       int64
	RecipientID  int64
	CreatedBy    int64
	Amount       decimal.Decimal
	Description  string
	PayoutMethod string
}

// PayoutSettingsService enforces per-pool payout limits
type PayoutSettingsService interface {
	// GetOrCreate resolves the pool's payout settings with lazy defaults
	GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolPayoutSettings, error)

	// UpdateSettings validates and persists new payout settings
	UpdateSettings(ctx context.Context, actorID int64, settings *entities.PoolPayoutSettings) error

	// ValidateAmount checks a candidate amount against min/max limits and
	// the pool balance, collecting every violation
	ValidateAmount(ctx context.Context, poolID int64, amount decimal.Decimal) (*AmountValidation, error)

	// CheckDailyLimit counts payouts created today against the configured cap
	CheckDailyLimit(ctx context.Context, poolID int64) (*DailyLimit, error)
}

// VotingSettingsService resolves per-pool voting configuration
type VotingSettingsService interface {
	// Resolve returns the pool's voting settings, creating defaults on first access
	Resolve(ctx context.Context, poolID int64) (*entities.PoolVotingSettings, error)

	// UpdateSettings validates and persists new voting settings
	UpdateSettings(ctx context.Context, actorID int64, settings *entities.PoolVotingSettings) error
}

// LedgerService is the only writer of balance-transition records
type LedgerService interface {
	// RecordTransaction appends an immutable ledger row. balance_after is
	// derived from balance_before and the transaction type.
	RecordTransaction(ctx context.Context, poolID int64, payoutID *int64, txType entities.TransactionType, amount, balanceBefore decimal.Decimal, description string) (*entities.PoolPayoutTransaction, error)

	// ListPayoutTransactions returns ledger rows for a payout
	ListPayoutTransactions(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutTransaction, error)

	// ListPoolTransactions returns the most recent ledger rows for a pool
	ListPoolTransactions(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayoutTransaction, error)
}

// PayoutService orchestrates the payout lifecycle: creation, the optional
// voting window, approval and terminal disbursement or cancellation
type PayoutService interface {
	// CreatePayout validates limits, resolves voting settings and creates the
	// payout, disbursing immediately when neither voting nor approval applies
	CreatePayout(ctx context.Context, input CreatePayoutInput) (*entities.PoolPayout, error)

	// CastVote records a member's vote and recomputes the tally, applying a
	// decisive outcome to the payout
	CastVote(ctx context.Context, payoutID, voterID int64, voteType entities.VoteType, comment *string) (*entities.VoteTally, error)

	// RecomputeTally re-derives the vote aggregates from the current vote rows
	RecomputeTally(ctx context.Context, payoutID int64) (*entities.VoteTally, error)

	// CancelPayout cancels a non-terminal payout
	CancelPayout(ctx context.Context, payoutID, actorID int64) error

	// DecideApproval records a manual approval decision and disburses or
	// fails the payout accordingly
	DecideApproval(ctx context.Context, payoutID, approverID int64, approve bool, comment *string) error

	// GetPayoutDetail returns the payout with votes, transactions and approval
	GetPayoutDetail(ctx context.Context, payoutID int64) (*entities.PoolPayoutDetail, error)

	// ResolveExpiredVoting applies the window-expiry outcome to a payout whose
	// voting window has lapsed
	ResolveExpiredVoting(ctx context.Context, payoutID int64) error
}

// PoolService covers the pool-level operations the payout engine depends on
type PoolService interface {
	// GetPool retrieves a pool
	GetPool(ctx context.Context, poolID int64) (*entities.Pool, error)

	// CreditContribution credits a member payment to the pool balance and
	// records the matching ledger row in the same transaction
	CreditContribution(ctx context.Context, poolID, memberID int64, amount decimal.Decimal, description string) (*entities.PoolPayoutTransaction, error)
}
