package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger transaction
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// PoolPayoutTransaction represents an immutable balance-transition record.
// PayoutID is nil for pool-level contribution credits that are not tied to
// a payout. Rows are only ever written by the ledger service.
type PoolPayoutTransaction struct {
	ID              int64           `db:"id"`
	PoolID          int64           `db:"pool_id"`
	PayoutID        *int64          `db:"payout_id"`
	TransactionType TransactionType `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	Description     string          `db:"description"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsDebit checks if this transaction reduced the pool balance
func (t *PoolPayoutTransaction) IsDebit() bool {
	return t.TransactionType == TransactionTypeDebit
}

// IsCredit checks if this transaction increased the pool balance
func (t *PoolPayoutTransaction) IsCredit() bool {
	return t.TransactionType == TransactionTypeCredit
}

// Validate performs basic consistency checks on the transaction
func (t *PoolPayoutTransaction) Validate() error {
	if !t.Amount.IsPositive() {
		return errors.New("transaction amount must be positive")
	}

	switch t.TransactionType {
	case TransactionTypeDebit:
		if !t.BalanceAfter.Equal(t.BalanceBefore.Sub(t.Amount)) {
			return errors.New("debit balance calculation is inconsistent")
		}
	case TransactionTypeCredit:
		if !t.BalanceAfter.Equal(t.BalanceBefore.Add(t.Amount)) {
			return errors.New("credit balance calculation is inconsistent")
		}
	default:
		return errors.New("unknown transaction type")
	}

	return nil
}
