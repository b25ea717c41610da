package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/interfaces"
	"poolpay/domain/services"
	"poolpay/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sweepMocks is the shared repository mock set behind every unit of work a
// sweep test creates, with commit/rollback bookkeeping.
type sweepMocks struct {
	poolRepo           *testhelpers.MockPoolRepository
	memberRepo         *testhelpers.MockPoolMemberRepository
	payoutRepo         *testhelpers.MockPayoutRepository
	voteRepo           *testhelpers.MockPayoutVoteRepository
	approvalRepo       *testhelpers.MockPayoutApprovalRepository
	votingSettingsRepo *testhelpers.MockVotingSettingsRepository
	payoutSettingsRepo *testhelpers.MockPayoutSettingsRepository
	transactionRepo    *testhelpers.MockPayoutTransactionRepository
	auditRepo          *testhelpers.MockAuditLogRepository
	eventPublisher     *testhelpers.CapturingEventPublisher

	commits   int
	rollbacks int
}

func newSweepMocks() *sweepMocks {
	return &sweepMocks{
		poolRepo:           new(testhelpers.MockPoolRepository),
		memberRepo:         new(testhelpers.MockPoolMemberRepository),
		payoutRepo:         new(testhelpers.MockPayoutRepository),
		voteRepo:           new(testhelpers.MockPayoutVoteRepository),
		approvalRepo:       new(testhelpers.MockPayoutApprovalRepository),
		votingSettingsRepo: new(testhelpers.MockVotingSettingsRepository),
		payoutSettingsRepo: new(testhelpers.MockPayoutSettingsRepository),
		transactionRepo:    new(testhelpers.MockPayoutTransactionRepository),
		auditRepo:          new(testhelpers.MockAuditLogRepository),
		eventPublisher:     &testhelpers.CapturingEventPublisher{},
	}
}

// sweepUnitOfWork mirrors the real unit of work's commit semantics: a
// deferred rollback after a successful commit is a no-op.
type sweepUnitOfWork struct {
	m         *sweepMocks
	committed bool
}

func (u *sweepUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *sweepUnitOfWork) Commit() error {
	u.committed = true
	u.m.commits++
	return nil
}
func (u *sweepUnitOfWork) Rollback() error {
	if !u.committed {
		u.m.rollbacks++
	}
	return nil
}

func (u *sweepUnitOfWork) PoolRepository() interfaces.PoolRepository { return u.m.poolRepo }
func (u *sweepUnitOfWork) PoolMemberRepository() interfaces.PoolMemberRepository {
	return u.m.memberRepo
}
func (u *sweepUnitOfWork) PayoutRepository() interfaces.PayoutRepository { return u.m.payoutRepo }
func (u *sweepUnitOfWork) PayoutVoteRepository() interfaces.PayoutVoteRepository {
	return u.m.voteRepo
}
func (u *sweepUnitOfWork) PayoutApprovalRepository() interfaces.PayoutApprovalRepository {
	return u.m.approvalRepo
}
func (u *sweepUnitOfWork) VotingSettingsRepository() interfaces.VotingSettingsRepository {
	return u.m.votingSettingsRepo
}
func (u *sweepUnitOfWork) PayoutSettingsRepository() interfaces.PayoutSettingsRepository {
	return u.m.payoutSettingsRepo
}
func (u *sweepUnitOfWork) PayoutTransactionRepository() interfaces.PayoutTransactionRepository {
	return u.m.transactionRepo
}
func (u *sweepUnitOfWork) AuditLogRepository() interfaces.AuditLogRepository { return u.m.auditRepo }
func (u *sweepUnitOfWork) EventBus() interfaces.EventPublisher               { return u.m.eventPublisher }

type sweepUowFactory struct {
	m *sweepMocks
}

func (f *sweepUowFactory) Create() UnitOfWork { return &sweepUnitOfWork{m: f.m} }

func expiredVotingPayout() *entities.PoolPayout {
	endsAt := time.Now().Add(-time.Hour)
	startsAt := endsAt.Add(-72 * time.Hour)
	return &entities.PoolPayout{
		ID:             42,
		PublicID:       uuid.New(),
		PoolID:         7,
		RecipientID:    300,
		Amount:         decimal.NewFromInt(50),
		Status:         entities.PayoutStatusPendingVoting,
		CreatedBy:      200,
		VotingEnabled:  true,
		VotingStartsAt: &startsAt,
		VotingEndsAt:   &endsAt,
		VotingStatus:   entities.VotingStatusActive,
		VotingResult:   entities.VotingResultPending,
	}
}

func TestVotingSweepWorker_ResolvesExpiredWindow(t *testing.T) {
	m := newSweepMocks()
	worker := NewVotingSweepWorker(&sweepUowFactory{m: m}, time.Minute)

	payout := expiredVotingPayout()
	m.payoutRepo.On("GetExpiredVoting", mock.Anything).
		Return([]*entities.PoolPayout{payout}, nil)
	m.payoutRepo.On("GetByID", mock.Anything, int64(42)).Return(payout, nil)
	m.votingSettingsRepo.On("GetOrCreate", mock.Anything, int64(7)).
		Return(entities.DefaultVotingSettings(7), nil)
	m.voteRepo.On("ListByPayout", mock.Anything, int64(42)).
		Return([]*entities.PoolPayoutVote{}, nil)
	m.memberRepo.On("CountByPool", mock.Anything, int64(7)).Return(3, nil)
	m.payoutRepo.On("Update", mock.Anything, payout).Return(nil)
	m.auditRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, worker.sweepOnce(context.Background()))

	assert.Equal(t, entities.PayoutStatusFailed, payout.Status)
	assert.Equal(t, entities.VotingResultRejected, payout.VotingResult)
	assert.Equal(t, 1, m.commits)
}

func TestVotingSweepWorker_CommitsBalanceFailure(t *testing.T) {
	m := newSweepMocks()
	worker := NewVotingSweepWorker(&sweepUowFactory{m: m}, time.Minute)

	payout := expiredVotingPayout()
	settings := entities.DefaultVotingSettings(7)
	settings.VotingEnabled = true

	m.payoutRepo.On("GetByID", mock.Anything, int64(42)).Return(payout, nil)
	m.votingSettingsRepo.On("GetOrCreate", mock.Anything, int64(7)).Return(settings, nil)
	m.voteRepo.On("ListByPayout", mock.Anything, int64(42)).
		Return([]*entities.PoolPayoutVote{
			{PayoutID: 42, VoterID: 201, VoteType: entities.VoteTypeApprove, VotingPower: decimal.NewFromInt(1)},
		}, nil)
	m.memberRepo.On("CountByPool", mock.Anything, int64(7)).Return(2, nil)
	m.payoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(7)).
		Return(entities.DefaultPayoutSettings(7), nil)
	// The pool can no longer cover the approved amount at disbursement.
	m.poolRepo.On("GetByIDForUpdate", mock.Anything, int64(7)).
		Return(&entities.Pool{ID: 7, OwnerID: 100, TotalContributed: decimal.NewFromInt(10)}, nil)
	m.payoutRepo.On("Update", mock.Anything, payout).Return(nil)

	err := worker.resolveOne(context.Background(), payout)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInsufficientBalance))

	// The failed transition must commit so the payout leaves the sweep's
	// expired set instead of failing again every interval.
	assert.Equal(t, entities.PayoutStatusFailed, payout.Status)
	require.NotNil(t, payout.FailureReason)
	assert.Equal(t, "Insufficient pool balance at disbursement", *payout.FailureReason)
	assert.Equal(t, 1, m.commits)
	assert.Zero(t, m.rollbacks)
}
