package services

import (
	"context"
	"testing"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/interfaces"
	"poolpay/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// TestMocks bundles every repository mock a service test can need
type TestMocks struct {
	PoolRepo           *testhelpers.MockPoolRepository
	MemberRepo         *testhelpers.MockPoolMemberRepository
	PayoutRepo         *testhelpers.MockPayoutRepository
	VoteRepo           *testhelpers.MockPayoutVoteRepository
	ApprovalRepo       *testhelpers.MockPayoutApprovalRepository
	AuditRepo          *testhelpers.MockAuditLogRepository
	VotingSettingsRepo *testhelpers.MockVotingSettingsRepository
	PayoutSettingsRepo *testhelpers.MockPayoutSettingsRepository
	TransactionRepo    *testhelpers.MockPayoutTransactionRepository
	EventPublisher     *testhelpers.CapturingEventPublisher
}

// NewTestMocks creates a fresh set of repository mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		PoolRepo:           new(testhelpers.MockPoolRepository),
		MemberRepo:         new(testhelpers.MockPoolMemberRepository),
		PayoutRepo:         new(testhelpers.MockPayoutRepository),
		VoteRepo:           new(testhelpers.MockPayoutVoteRepository),
		ApprovalRepo:       new(testhelpers.MockPayoutApprovalRepository),
		AuditRepo:          new(testhelpers.MockAuditLogRepository),
		VotingSettingsRepo: new(testhelpers.MockVotingSettingsRepository),
		PayoutSettingsRepo: new(testhelpers.MockPayoutSettingsRepository),
		TransactionRepo:    new(testhelpers.MockPayoutTransactionRepository),
		EventPublisher:     &testhelpers.CapturingEventPublisher{},
	}
}

// AssertAllExpectations verifies every mock's expectations
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.PoolRepo.AssertExpectations(t)
	m.MemberRepo.AssertExpectations(t)
	m.PayoutRepo.AssertExpectations(t)
	m.VoteRepo.AssertExpectations(t)
	m.ApprovalRepo.AssertExpectations(t)
	m.AuditRepo.AssertExpectations(t)
	m.VotingSettingsRepo.AssertExpectations(t)
	m.PayoutSettingsRepo.AssertExpectations(t)
	m.TransactionRepo.AssertExpectations(t)
}

// PayoutTestFixture provides a complete test environment for payout service tests
type PayoutTestFixture struct {
	T       *testing.T
	Ctx     context.Context
	Service interfaces.PayoutService
	Mocks   *TestMocks
}

// NewPayoutTestFixture wires the payout service with real settings/ledger
// services over mocked repositories
func NewPayoutTestFixture(t *testing.T) *PayoutTestFixture {
	mocks := NewTestMocks()

	payoutSettings := NewPayoutSettingsService(
		mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)
	votingSettings := NewVotingSettingsService(
		mocks.VotingSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)
	ledger := NewLedgerService(mocks.TransactionRepo)

	service := NewPayoutService(
		mocks.PoolRepo,
		mocks.MemberRepo,
		mocks.PayoutRepo,
		mocks.VoteRepo,
		mocks.ApprovalRepo,
		mocks.AuditRepo,
		payoutSettings,
		votingSettings,
		ledger,
		mocks.EventPublisher,
	)

	return &PayoutTestFixture{
		T:       t,
		Ctx:     context.Background(),
		Service: service,
		Mocks:   mocks,
	}
}

// ExpectAuditRecords accepts any number of audit writes
func (f *PayoutTestFixture) ExpectAuditRecords() {
	f.Mocks.AuditRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.AuditLog")).Return(nil)
}

// TestPool builds a pool with the given balance
func TestPool(id int64, balance decimal.Decimal) *entities.Pool {
	return &entities.Pool{
		ID:               id,
		OwnerID:          100,
		Name:             "trip fund",
		TotalContributed: balance,
		CreatedAt:        time.Now(),
	}
}

// TestMember builds a plain member of a pool
func TestMember(poolID, userID int64) *entities.PoolMember {
	return &entities.PoolMember{
		ID:               userID,
		PoolID:           poolID,
		UserID:           userID,
		Role:             entities.PoolMemberRoleMember,
		Shares:           decimal.NewFromInt(1),
		TotalContributed: decimal.Zero,
		JoinedAt:         time.Now(),
	}
}

// TestOwner builds the owning member of a pool
func TestOwner(poolID, userID int64) *entities.PoolMember {
	m := TestMember(poolID, userID)
	m.Role = entities.PoolMemberRoleOwner
	return m
}

// VotingDisabled returns voting settings with voting off
func VotingDisabled(poolID int64) *entities.PoolVotingSettings {
	return entities.DefaultVotingSettings(poolID)
}

// VotingEnabled returns default voting settings with voting on
func VotingEnabled(poolID int64) *entities.PoolVotingSettings {
	s := entities.DefaultVotingSettings(poolID)
	s.VotingEnabled = true
	return s
}
