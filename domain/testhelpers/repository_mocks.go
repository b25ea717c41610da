package testhelpers

import (
	"context"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPoolRepository is a mock implementation of PoolRepository
type MockPoolRepository struct {
	mock.Mock
}

func (m *MockPoolRepository) GetByID(ctx context.Context, id int64) (*entities.Pool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pool), args.Error(1)
}

func (m *MockPoolRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Pool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Pool), args.Error(1)
}

func (m *MockPoolRepository) Create(ctx context.Context, pool *entities.Pool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockPoolRepository) UpdateBalance(ctx context.Context, poolID int64, newBalance decimal.Decimal) error {
	args := m.Called(ctx, poolID, newBalance)
	return args.Error(0)
}

// MockPoolMemberRepository is a mock implementation of PoolMemberRepository
type MockPoolMemberRepository struct {
	mock.Mock
}

func (m *MockPoolMemberRepository) GetMember(ctx context.Context, poolID, userID int64) (*entities.PoolMember, error) {
	args := m.Called(ctx, poolID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolMember), args.Error(1)
}

func (m *MockPoolMemberRepository) ListByPool(ctx context.Context, poolID int64) ([]*entities.PoolMember, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolMember), args.Error(1)
}

func (m *MockPoolMemberRepository) CountByPool(ctx context.Context, poolID int64) (int, error) {
	args := m.Called(ctx, poolID)
	return args.Int(0), args.Error(1)
}

func (m *MockPoolMemberRepository) AddMember(ctx context.Context, member *entities.PoolMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockPoolMemberRepository) AddContribution(ctx context.Context, poolID, userID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, poolID, userID, amount)
	return args.Error(0)
}

// MockPayoutRepository is a mock implementation of PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *entities.PoolPayout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id int64) (*entities.PoolPayout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayout), args.Error(1)
}

func (m *MockPayoutRepository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entities.PoolPayout, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayout), args.Error(1)
}

func (m *MockPayoutRepository) GetDetailByID(ctx context.Context, id int64) (*entities.PoolPayoutDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayoutDetail), args.Error(1)
}

func (m *MockPayoutRepository) Update(ctx context.Context, payout *entities.PoolPayout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) CountCreatedBetween(ctx context.Context, poolID int64, from, to time.Time) (int, error) {
	args := m.Called(ctx, poolID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockPayoutRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayout, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolPayout), args.Error(1)
}

func (m *MockPayoutRepository) GetExpiredVoting(ctx context.Context) ([]*entities.PoolPayout, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolPayout), args.Error(1)
}

// MockPayoutVoteRepository is a mock implementation of PayoutVoteRepository
type MockPayoutVoteRepository struct {
	mock.Mock
}

func (m *MockPayoutVoteRepository) Upsert(ctx context.Context, vote *entities.PoolPayoutVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockPayoutVoteRepository) GetByPayoutAndVoter(ctx context.Context, payoutID, voterID int64) (*entities.PoolPayoutVote, error) {
	args := m.Called(ctx, payoutID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayoutVote), args.Error(1)
}

func (m *MockPayoutVoteRepository) ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutVote, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolPayoutVote), args.Error(1)
}

// MockVotingSettingsRepository is a mock implementation of VotingSettingsRepository
type MockVotingSettingsRepository struct {
	mock.Mock
}

func (m *MockVotingSettingsRepository) GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolVotingSettings, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolVotingSettings), args.Error(1)
}

func (m *MockVotingSettingsRepository) Update(ctx context.Context, settings *entities.PoolVotingSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockPayoutSettingsRepository is a mock implementation of PayoutSettingsRepository
type MockPayoutSettingsRepository struct {
	mock.Mock
}

func (m *MockPayoutSettingsRepository) GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolPayoutSettings, error) {
	args := m.Called(ctx, poolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayoutSettings), args.Error(1)
}

func (m *MockPayoutSettingsRepository) Update(ctx context.Context, settings *entities.PoolPayoutSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockPayoutTransactionRepository is a mock implementation of PayoutTransactionRepository
type MockPayoutTransactionRepository struct {
	mock.Mock
}

func (m *MockPayoutTransactionRepository) Record(ctx context.Context, txn *entities.PoolPayoutTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPayoutTransactionRepository) ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutTransaction, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolPayoutTransaction), args.Error(1)
}

func (m *MockPayoutTransactionRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayoutTransaction, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PoolPayoutTransaction), args.Error(1)
}

// MockPayoutApprovalRepository is a mock implementation of PayoutApprovalRepository
type MockPayoutApprovalRepository struct {
	mock.Mock
}

func (m *MockPayoutApprovalRepository) Create(ctx context.Context, approval *entities.PoolPayoutApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockPayoutApprovalRepository) GetByPayout(ctx context.Context, payoutID int64) (*entities.PoolPayoutApproval, error) {
	args := m.Called(ctx, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PoolPayoutApproval), args.Error(1)
}

func (m *MockPayoutApprovalRepository) Update(ctx context.Context, approval *entities.PoolPayoutApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

// MockAuditLogRepository is a mock implementation of AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Record(ctx context.Context, entry *entities.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.AuditLog, error) {
	args := m.Called(ctx, poolID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditLog), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// CapturingEventPublisher records every published event for assertions
type CapturingEventPublisher struct {
	Events []events.Event
}

func (p *CapturingEventPublisher) Publish(event events.Event) error {
	p.Events = append(p.Events, event)
	return nil
}
