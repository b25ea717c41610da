package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PayoutTransactionRepository implements the PayoutTransactionRepository
// interface. The table is append-only; there are no update or delete paths.
type PayoutTransactionRepository struct {
	q Queryable
}

// NewPayoutTransactionRepository creates a new payout transaction repository
func NewPayoutTransactionRepository(db *database.DB) *PayoutTransactionRepository {
	return &PayoutTransactionRepository{q: db.Pool}
}

// NewPayoutTransactionRepositoryWithTx creates a new payout transaction repository bound to a transaction
func NewPayoutTransactionRepositoryWithTx(tx Queryable) *PayoutTransactionRepository {
	return &PayoutTransactionRepository{q: tx}
}

const payoutTransactionColumns = `id, pool_id, payout_id, transaction_type, amount,
	balance_before, balance_after, description, created_at`

func scanPayoutTransaction(row pgx.Row) (*entities.PoolPayoutTransaction, error) {
	var txn entities.PoolPayoutTransaction
	err := row.Scan(
		&txn.ID,
		&txn.PoolID,
		&txn.PayoutID,
		&txn.TransactionType,
		&txn.Amount,
		&txn.BalanceBefore,
		&txn.BalanceAfter,
		&txn.Description,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Record appends a balance-transition row
func (r *PayoutTransactionRepository) Record(ctx context.Context, txn *entities.PoolPayoutTransaction) error {
	query := `
		INSERT INTO pool_payout_transactions (
			pool_id, payout_id, transaction_type, amount, balance_before, balance_after, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.PoolID,
		txn.PayoutID,
		txn.TransactionType,
		txn.Amount,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record transaction for pool %d: %w", txn.PoolID, err)
	}
	return nil
}

// ListByPayout retrieves the ledger rows attached to a payout
func (r *PayoutTransactionRepository) ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pool_payout_transactions
		WHERE payout_id = $1
		ORDER BY created_at
	`, payoutTransactionColumns)

	rows, err := r.q.Query(ctx, query, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for payout %d: %w", payoutID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByPool retrieves the most recent ledger rows for a pool
func (r *PayoutTransactionRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayoutTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pool_payout_transactions
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, payoutTransactionColumns)

	rows, err := r.q.Query(ctx, query, poolID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*entities.PoolPayoutTransaction, error) {
	var txns []*entities.PoolPayoutTransaction
	for rows.Next() {
		txn, err := scanPayoutTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}
