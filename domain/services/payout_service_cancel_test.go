package services

import (
	"testing"

	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPayoutService_CancelPayout(t *testing.T) {
	t.Run("creator cancels a pending payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(200)).Return(TestMember(1, 200), nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.CancelPayout(f.Ctx, 10, 200)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusCancelled, payout.Status)
		assert.Equal(t, entities.VotingStatusCancelled, payout.VotingStatus)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("pool owner cancels someone else's payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(100)).Return(TestOwner(1, 100), nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.CancelPayout(f.Ctx, 10, 100)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusCancelled, payout.Status)
	})

	t.Run("an ordinary member cannot cancel", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(TestMember(1, 201), nil)

		err := f.Service.CancelPayout(f.Ctx, 10, 201)

		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Equal(t, entities.PayoutStatusPendingVoting, payout.Status)
		f.Mocks.PayoutRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("terminal payouts are not cancellable", func(t *testing.T) {
		for _, status := range []entities.PayoutStatus{
			entities.PayoutStatusCompleted,
			entities.PayoutStatusFailed,
			entities.PayoutStatusCancelled,
		} {
			f := NewPayoutTestFixture(t)
			payout := votingPayout(10)
			payout.Status = status

			f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)

			err := f.Service.CancelPayout(f.Ctx, 10, 200)

			assert.ErrorIs(t, err, ErrPayoutNotCancellable, "status %s", status)
		}
	})

	t.Run("payout not found", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(nil, nil)

		err := f.Service.CancelPayout(f.Ctx, 10, 200)

		assert.ErrorIs(t, err, ErrPayoutNotFound)
	})
}

func pendingApproval(payoutID int64) *entities.PoolPayoutApproval {
	return &entities.PoolPayoutApproval{
		ID:       5,
		PayoutID: payoutID,
		Status:   entities.ApprovalStatusPending,
	}
}

func TestPayoutService_DecideApproval(t *testing.T) {
	t.Run("owner approval disburses the payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.VotingStatus = entities.VotingStatusCompleted
		payout.Status = entities.PayoutStatusPending
		pool := TestPool(1, decimal.NewFromInt(1000))

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.ApprovalRepo.On("GetByPayout", mock.Anything, int64(10)).Return(pendingApproval(10), nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(100)).Return(TestOwner(1, 100), nil)
		f.Mocks.ApprovalRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.PoolPayoutApproval) bool {
			return a.Status == entities.ApprovalStatusApproved && a.ApproverID != nil && *a.ApproverID == 100
		})).Return(nil)
		f.Mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(pool, nil)
		f.Mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)
		f.Mocks.PoolRepo.On("UpdateBalance", mock.Anything, int64(1), mock.Anything).Return(nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.DecideApproval(f.Ctx, 10, 100, true, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusCompleted, payout.Status)
		f.Mocks.AssertAllExpectations(t)
	})

	t.Run("owner rejection fails the payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.VotingStatus = entities.VotingStatusCompleted
		payout.Status = entities.PayoutStatusPending

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.ApprovalRepo.On("GetByPayout", mock.Anything, int64(10)).Return(pendingApproval(10), nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(100)).Return(TestOwner(1, 100), nil)
		f.Mocks.ApprovalRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutApproval")).Return(nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.DecideApproval(f.Ctx, 10, 100, false, nil)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusFailed, payout.Status)
		require.NotNil(t, payout.FailureReason)
		assert.Equal(t, "Payout rejected by approver", *payout.FailureReason)
		f.Mocks.TransactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("only the pool owner may decide", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.VotingStatus = entities.VotingStatusCompleted
		payout.Status = entities.PayoutStatusPending

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.ApprovalRepo.On("GetByPayout", mock.Anything, int64(10)).Return(pendingApproval(10), nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(TestMember(1, 201), nil)

		err := f.Service.DecideApproval(f.Ctx, 10, 201, true, nil)

		assert.ErrorIs(t, err, ErrNotAuthorized)
		f.Mocks.ApprovalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already-decided approval", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.Status = entities.PayoutStatusPending

		decided := pendingApproval(10)
		approverID := int64(100)
		decided.Status = entities.ApprovalStatusApproved
		decided.ApproverID = &approverID

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.ApprovalRepo.On("GetByPayout", mock.Anything, int64(10)).Return(decided, nil)

		err := f.Service.DecideApproval(f.Ctx, 10, 100, true, nil)

		assert.ErrorIs(t, err, ErrApprovalDecided)
	})

	t.Run("no approval record", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.Status = entities.PayoutStatusPending

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.ApprovalRepo.On("GetByPayout", mock.Anything, int64(10)).Return(nil, nil)

		err := f.Service.DecideApproval(f.Ctx, 10, 100, true, nil)

		assert.ErrorIs(t, err, ErrApprovalNotFound)
	})
}
