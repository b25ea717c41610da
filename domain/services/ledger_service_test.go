package services

import (
	"context"
	"testing"

	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_RecordTransaction(t *testing.T) {
	payoutID := int64(7)

	tests := []struct {
		name          string
		txType        entities.TransactionType
		amount        int64
		balanceBefore int64
		payoutID      *int64
		expectedAfter int64
	}{
		{
			name:          "debit reduces balance",
			txType:        entities.TransactionTypeDebit,
			amount:        100,
			balanceBefore: 1000,
			payoutID:      &payoutID,
			expectedAfter: 900,
		},
		{
			name:          "credit increases balance",
			txType:        entities.TransactionTypeCredit,
			amount:        250,
			balanceBefore: 1000,
			expectedAfter: 1250,
		},
		{
			name:          "debit may take balance to zero",
			txType:        entities.TransactionTypeDebit,
			amount:        1000,
			balanceBefore: 1000,
			payoutID:      &payoutID,
			expectedAfter: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := NewLedgerService(mocks.TransactionRepo)

			mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)

			txn, err := service.RecordTransaction(context.Background(), 1, tt.payoutID,
				tt.txType, decimal.NewFromInt(tt.amount), decimal.NewFromInt(tt.balanceBefore), "test transaction")

			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.expectedAfter).Equal(txn.BalanceAfter),
				"expected balance after %d, got %s", tt.expectedAfter, txn.BalanceAfter)
			assert.Equal(t, tt.payoutID, txn.PayoutID)
			assert.NoError(t, txn.Validate())
			mocks.TransactionRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_RecordTransaction_RejectsNonPositiveAmount(t *testing.T) {
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.TransactionRepo)

	_, err := service.RecordTransaction(context.Background(), 1, nil,
		entities.TransactionTypeCredit, decimal.Zero, decimal.NewFromInt(100), "")

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Violations, "Transaction amount must be positive")
	mocks.TransactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_RecordTransaction_RejectsUnknownType(t *testing.T) {
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.TransactionRepo)

	_, err := service.RecordTransaction(context.Background(), 1, nil,
		entities.TransactionType("transfer"), decimal.NewFromInt(10), decimal.NewFromInt(100), "")

	assert.Error(t, err)
	mocks.TransactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestLedgerService_DebitCreditRoundTrip(t *testing.T) {
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.TransactionRepo)
	mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)

	start := decimal.NewFromInt(1000)
	amount := decimal.NewFromInt(333)

	debit, err := service.RecordTransaction(context.Background(), 1, nil,
		entities.TransactionTypeDebit, amount, start, "")
	require.NoError(t, err)

	credit, err := service.RecordTransaction(context.Background(), 1, nil,
		entities.TransactionTypeCredit, amount, debit.BalanceAfter, "")
	require.NoError(t, err)

	assert.True(t, start.Equal(credit.BalanceAfter))
}
