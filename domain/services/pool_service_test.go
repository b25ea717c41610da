package services

import (
	"context"
	"testing"

	"poolpay/domain/entities"
	"poolpay/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPoolServiceFixture() (*TestMocks, *poolService) {
	mocks := NewTestMocks()
	service := NewPoolService(
		mocks.PoolRepo,
		mocks.MemberRepo,
		NewLedgerService(mocks.TransactionRepo),
		mocks.AuditRepo,
		mocks.EventPublisher,
	)
	return mocks, service.(*poolService)
}

func TestPoolService_CreditContribution(t *testing.T) {
	mocks, service := newPoolServiceFixture()

	pool := TestPool(1, decimal.NewFromInt(1000))
	member := TestMember(1, 200)

	mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(pool, nil)
	mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(200)).Return(member, nil)
	mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)
	mocks.PoolRepo.On("UpdateBalance", mock.Anything, int64(1), mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(1250))
	})).Return(nil)
	mocks.MemberRepo.On("AddContribution", mock.Anything, int64(1), int64(200), mock.Anything).Return(nil)
	mocks.AuditRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.AuditLog")).Return(nil)

	txn, err := service.CreditContribution(context.Background(), 1, 200, decimal.NewFromInt(250), "september contribution")

	require.NoError(t, err)
	assert.True(t, txn.IsCredit())
	assert.Nil(t, txn.PayoutID, "contribution credits are not tied to a payout")
	assert.True(t, decimal.NewFromInt(1000).Equal(txn.BalanceBefore))
	assert.True(t, decimal.NewFromInt(1250).Equal(txn.BalanceAfter))

	require.Len(t, mocks.EventPublisher.Events, 1)
	change, ok := mocks.EventPublisher.Events[0].(events.BalanceChangeEvent)
	require.True(t, ok)
	assert.Equal(t, string(entities.TransactionTypeCredit), change.TransactionType)
	assert.True(t, decimal.NewFromInt(250).Equal(change.ChangeAmount))
	mocks.AssertAllExpectations(t)
}

func TestPoolService_CreditContribution_Errors(t *testing.T) {
	t.Run("non-positive amount", func(t *testing.T) {
		_, service := newPoolServiceFixture()

		_, err := service.CreditContribution(context.Background(), 1, 200, decimal.Zero, "")

		_, ok := AsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("pool not found", func(t *testing.T) {
		mocks, service := newPoolServiceFixture()
		mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(nil, nil)

		_, err := service.CreditContribution(context.Background(), 9, 200, decimal.NewFromInt(50), "")

		assert.ErrorIs(t, err, ErrPoolNotFound)
	})

	t.Run("non-member cannot contribute", func(t *testing.T) {
		mocks, service := newPoolServiceFixture()
		mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).
			Return(TestPool(1, decimal.NewFromInt(1000)), nil)
		mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(999)).Return(nil, nil)

		_, err := service.CreditContribution(context.Background(), 1, 999, decimal.NewFromInt(50), "")

		assert.ErrorIs(t, err, ErrNotPoolMember)
		mocks.TransactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}

func TestPoolService_GetPool(t *testing.T) {
	mocks, service := newPoolServiceFixture()
	mocks.PoolRepo.On("GetByID", mock.Anything, int64(1)).
		Return(TestPool(1, decimal.NewFromInt(500)), nil)

	pool, err := service.GetPool(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), pool.ID)

	mocks.PoolRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)
	_, err = service.GetPool(context.Background(), 2)
	assert.ErrorIs(t, err, ErrPoolNotFound)
}
