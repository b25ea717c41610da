package services

import (
	"context"
	"fmt"

	"poolpay/domain/entities"
	"poolpay/domain/interfaces"

	"github.com/shopspring/decimal"
)

type ledgerService struct {
	transactionRepo interfaces.PayoutTransactionRepository
}

// NewLedgerService creates a new ledger service. The ledger is the only
// writer of balance-transition rows and must be invoked inside the same
// unit of work as the payout status transition and pool balance mutation.
func NewLedgerService(transactionRepo interfaces.PayoutTransactionRepository) interfaces.LedgerService {
	return &ledgerService{transactionRepo: transactionRepo}
}

// RecordTransaction appends an immutable balance-transition row.
// balance_after is derived: balance_before - amount for debits,
// balance_before + amount for credits.
func (s *ledgerService) RecordTransaction(
	ctx context.Context,
	poolID int64,
	payoutID *int64,
	txType entities.TransactionType,
	amount, balanceBefore decimal.Decimal,
	description string,
) (*entities.PoolPayoutTransaction, error) {
	if !amount.IsPositive() {
		return nil, &ValidationError{Violations: []string{"Transaction amount must be positive"}}
	}

	var balanceAfter decimal.Decimal
	switch txType {
	case entities.TransactionTypeDebit:
		balanceAfter = balanceBefore.Sub(amount)
	case entities.TransactionTypeCredit:
		balanceAfter = balanceBefore.Add(amount)
	default:
		return nil, fmt.Errorf("unknown transaction type: %s", txType)
	}

	txn := &entities.PoolPayoutTransaction{
		PoolID:          poolID,
		PayoutID:        payoutID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Description:     description,
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger transaction: %w", err)
	}

	if err := s.transactionRepo.Record(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record ledger transaction: %w", err)
	}
	return txn, nil
}

// ListPayoutTransactions returns the ledger rows attached to a payout
func (s *ledgerService) ListPayoutTransactions(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutTransaction, error) {
	txns, err := s.transactionRepo.ListByPayout(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payout transactions: %w", err)
	}
	return txns, nil
}

// ListPoolTransactions returns the most recent ledger rows for a pool
func (s *ledgerService) ListPoolTransactions(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayoutTransaction, error) {
	txns, err := s.transactionRepo.ListByPool(ctx, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool transactions: %w", err)
	}
	return txns, nil
}
