package services

import (
	"testing"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// votingPayout builds a payout whose voting window is open for another hour
func votingPayout(id int64) *entities.PoolPayout {
	p := &entities.PoolPayout{
		ID:                 id,
		PoolID:             1,
		RecipientID:        300,
		Amount:             decimal.NewFromInt(50),
		Status:             entities.PayoutStatusPending,
		CreatedBy:          200,
		VotingResult:       entities.VotingResultPending,
		ApprovalPercentage: decimal.Zero,
	}
	p.OpenVoting(time.Now().Add(-time.Hour), 2*time.Hour)
	return p
}

// expiredVotingPayout builds a payout whose voting window lapsed an hour ago
func expiredVotingPayout(id int64) *entities.PoolPayout {
	p := votingPayout(id)
	p.OpenVoting(time.Now().Add(-3*time.Hour), 2*time.Hour)
	return p
}

func TestPayoutService_CastVote_RecordsVoteMidWindow(t *testing.T) {
	f := NewPayoutTestFixture(t)
	payout := votingPayout(10)

	f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
	f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(TestMember(1, 201), nil)
	f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(VotingEnabled(1), nil)

	var upserted *entities.PoolPayoutVote
	f.Mocks.VoteRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutVote")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(*entities.PoolPayoutVote)
		}).Return(nil)
	f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
		Return([]*entities.PoolPayoutVote{vote(201, entities.VoteTypeApprove, 1)}, nil)
	f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
	f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
	f.ExpectAuditRecords()

	tally, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, tally.TotalVotes)
	assert.Equal(t, entities.VotingResultPending, tally.Outcome)
	assert.Equal(t, entities.PayoutStatusPendingVoting, payout.Status)
	assert.Equal(t, 1, payout.ApproveVotes)
	assert.True(t, decimal.NewFromInt(100).Equal(payout.ApprovalPercentage))

	require.NotNil(t, upserted)
	assert.Equal(t, int64(201), upserted.VoterID)
	assert.True(t, decimal.NewFromInt(1).Equal(upserted.VotingPower))

	var sawVoteCast bool
	for _, ev := range f.Mocks.EventPublisher.Events {
		if _, ok := ev.(events.VoteCastEvent); ok {
			sawVoteCast = true
		}
	}
	assert.True(t, sawVoteCast)
	f.Mocks.AssertAllExpectations(t)
}

func TestPayoutService_CastVote_AutoApproveDisburses(t *testing.T) {
	f := NewPayoutTestFixture(t)
	payout := votingPayout(10)
	pool := TestPool(1, decimal.NewFromInt(1000))

	settings := VotingEnabled(1)
	settings.AutoApprove = true
	settings.MinVoters = 2

	f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
	f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(202)).Return(TestMember(1, 202), nil)
	f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(settings, nil)
	f.Mocks.VoteRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutVote")).Return(nil)
	f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
		Return([]*entities.PoolPayoutVote{
			vote(201, entities.VoteTypeApprove, 1),
			vote(202, entities.VoteTypeApprove, 1),
		}, nil)
	f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
	f.Mocks.PayoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(testPayoutSettings(1), nil)
	f.Mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(pool, nil)
	f.Mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)
	f.Mocks.PoolRepo.On("UpdateBalance", mock.Anything, int64(1), mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(950))
	})).Return(nil)
	f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
	f.ExpectAuditRecords()

	tally, err := f.Service.CastVote(f.Ctx, 10, 202, entities.VoteTypeApprove, nil)

	require.NoError(t, err)
	assert.Equal(t, entities.VotingResultApproved, tally.Outcome)
	assert.True(t, decimal.NewFromInt(100).Equal(tally.ApprovalPercentage))
	assert.Equal(t, entities.PayoutStatusCompleted, payout.Status)
	assert.Equal(t, entities.VotingStatusCompleted, payout.VotingStatus)
	assert.Equal(t, entities.VotingResultApproved, payout.VotingResult)
	f.Mocks.AssertAllExpectations(t)
}

func TestPayoutService_CastVote_RecastReplacesPreviousVote(t *testing.T) {
	f := NewPayoutTestFixture(t)
	payout := votingPayout(10)

	f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
	f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(TestMember(1, 201), nil)
	f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(VotingEnabled(1), nil)
	f.Mocks.VoteRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutVote")).Return(nil)
	// The voter's earlier approve row is gone; only the replacement remains.
	f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
		Return([]*entities.PoolPayoutVote{vote(201, entities.VoteTypeReject, 1)}, nil)
	f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
	f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
	f.ExpectAuditRecords()

	tally, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeReject, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, tally.TotalVotes)
	assert.Equal(t, 0, tally.ApproveVotes)
	assert.Equal(t, 1, tally.RejectVotes)
	assert.True(t, tally.ApprovalPercentage.IsZero())
}

func TestPayoutService_CastVote_WeightedByShares(t *testing.T) {
	f := NewPayoutTestFixture(t)
	payout := votingPayout(10)

	settings := VotingEnabled(1)
	settings.VotingType = entities.VotingTypeOneShareOneVote

	member := TestMember(1, 201)
	member.Shares = decimal.NewFromInt(3)

	f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
	f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(member, nil)
	f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(settings, nil)

	var upserted *entities.PoolPayoutVote
	f.Mocks.VoteRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutVote")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(*entities.PoolPayoutVote)
		}).Return(nil)
	f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
		Return([]*entities.PoolPayoutVote{vote(201, entities.VoteTypeApprove, 3)}, nil)
	f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
	f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
	f.ExpectAuditRecords()

	_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

	require.NoError(t, err)
	require.NotNil(t, upserted)
	assert.True(t, decimal.NewFromInt(3).Equal(upserted.VotingPower))
}

func TestPayoutService_CastVote_ExpiredWindowResolvesLazily(t *testing.T) {
	f := NewPayoutTestFixture(t)
	payout := expiredVotingPayout(10)

	f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
	f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(VotingEnabled(1), nil)
	f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
		Return([]*entities.PoolPayoutVote{}, nil)
	f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
	f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
	f.ExpectAuditRecords()

	_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

	assert.ErrorIs(t, err, ErrVotingClosed)
	assert.Equal(t, entities.PayoutStatusFailed, payout.Status)
	assert.Equal(t, entities.VotingResultRejected, payout.VotingResult)
	require.NotNil(t, payout.FailureReason)
	assert.Equal(t, "Payout rejected by member vote", *payout.FailureReason)

	f.Mocks.VoteRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPayoutService_CastVote_Refusals(t *testing.T) {
	t.Run("invalid vote type", func(t *testing.T) {
		f := NewPayoutTestFixture(t)

		_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteType("veto"), nil)

		assert.ErrorIs(t, err, ErrInvalidVoteType)
	})

	t.Run("payout not found", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(nil, nil)

		_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

		assert.ErrorIs(t, err, ErrPayoutNotFound)
	})

	t.Run("terminal payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.Status = entities.PayoutStatusCancelled
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)

		_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

		assert.ErrorIs(t, err, ErrPayoutTerminal)
	})

	t.Run("payout without a voting phase", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		payout.VotingStatus = entities.VotingStatusNotStarted
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)

		_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeApprove, nil)

		assert.ErrorIs(t, err, ErrVotingNotActive)
	})

	t.Run("voter is not a member", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(votingPayout(10), nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(999)).Return(nil, nil)

		_, err := f.Service.CastVote(f.Ctx, 10, 999, entities.VoteTypeApprove, nil)

		assert.ErrorIs(t, err, ErrNotPoolMember)
	})

	t.Run("abstain disallowed by settings", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		settings := VotingEnabled(1)
		settings.AllowAbstain = false

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(votingPayout(10), nil)
		f.Mocks.MemberRepo.On("GetMember", mock.Anything, int64(1), int64(201)).Return(TestMember(1, 201), nil)
		f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(settings, nil)

		_, err := f.Service.CastVote(f.Ctx, 10, 201, entities.VoteTypeAbstain, nil)

		assert.ErrorIs(t, err, ErrAbstainNotAllowed)
		f.Mocks.VoteRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestPayoutService_ResolveExpiredVoting(t *testing.T) {
	t.Run("quorum miss at expiry fails the payout", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := expiredVotingPayout(10)

		settings := VotingEnabled(1)
		settings.RequireQuorum = true

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(settings, nil)
		f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
			Return([]*entities.PoolPayoutVote{vote(201, entities.VoteTypeApprove, 1)}, nil)
		f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(10, nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.ResolveExpiredVoting(f.Ctx, 10)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusFailed, payout.Status)
		assert.Equal(t, entities.VotingResultFailed, payout.VotingResult)
		require.NotNil(t, payout.FailureReason)
		assert.Equal(t, "Voting quorum not reached", *payout.FailureReason)
	})

	t.Run("threshold met at expiry disburses", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := expiredVotingPayout(10)
		pool := TestPool(1, decimal.NewFromInt(1000))

		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)
		f.Mocks.VotingSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(VotingEnabled(1), nil)
		f.Mocks.VoteRepo.On("ListByPayout", mock.Anything, int64(10)).
			Return([]*entities.PoolPayoutVote{
				vote(201, entities.VoteTypeApprove, 1),
				vote(202, entities.VoteTypeApprove, 1),
			}, nil)
		f.Mocks.MemberRepo.On("CountByPool", mock.Anything, int64(1)).Return(4, nil)
		f.Mocks.PayoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(testPayoutSettings(1), nil)
		f.Mocks.PoolRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(pool, nil)
		f.Mocks.TransactionRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.PoolPayoutTransaction")).Return(nil)
		f.Mocks.PoolRepo.On("UpdateBalance", mock.Anything, int64(1), mock.Anything).Return(nil)
		f.Mocks.PayoutRepo.On("Update", mock.Anything, payout).Return(nil)
		f.ExpectAuditRecords()

		err := f.Service.ResolveExpiredVoting(f.Ctx, 10)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusCompleted, payout.Status)
		assert.Equal(t, entities.VotingResultApproved, payout.VotingResult)
	})

	t.Run("window still open is a no-op", func(t *testing.T) {
		f := NewPayoutTestFixture(t)
		payout := votingPayout(10)
		f.Mocks.PayoutRepo.On("GetByID", mock.Anything, int64(10)).Return(payout, nil)

		err := f.Service.ResolveExpiredVoting(f.Ctx, 10)

		require.NoError(t, err)
		assert.Equal(t, entities.PayoutStatusPendingVoting, payout.Status)
		f.Mocks.PayoutRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
