package services

import (
	"context"
	"fmt"

	"poolpay/domain/entities"
	"poolpay/domain/events"
	"poolpay/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type poolService struct {
	poolRepo       interfaces.PoolRepository
	memberRepo     interfaces.PoolMemberRepository
	ledger         interfaces.LedgerService
	auditRepo      interfaces.AuditLogRepository
	eventPublisher interfaces.EventPublisher
}

// NewPoolService creates a new pool service
func NewPoolService(
	poolRepo interfaces.PoolRepository,
	memberRepo interfaces.PoolMemberRepository,
	ledger interfaces.LedgerService,
	auditRepo interfaces.AuditLogRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PoolService {
	return &poolService{
		poolRepo:       poolRepo,
		memberRepo:     memberRepo,
		ledger:         ledger,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// GetPool retrieves a pool
func (s *poolService) GetPool(ctx context.Context, poolID int64) (*entities.Pool, error) {
	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

// CreditContribution credits a member payment to the pool balance, recording
// the ledger row, balance update and member contribution in one unit of work
func (s *poolService) CreditContribution(ctx context.Context, poolID, memberID int64, amount decimal.Decimal, description string) (*entities.PoolPayoutTransaction, error) {
	if !amount.IsPositive() {
		return nil, &ValidationError{Violations: []string{"Contribution amount must be positive"}}
	}

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return nil, ErrPoolNotFound
	}

	member, err := s.memberRepo.GetMember(ctx, poolID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool member: %w", err)
	}
	if member == nil {
		return nil, ErrNotPoolMember
	}

	txn, err := s.ledger.RecordTransaction(ctx, poolID, nil, entities.TransactionTypeCredit, amount, pool.TotalContributed, description)
	if err != nil {
		return nil, err
	}

	newBalance := pool.TotalContributed.Add(amount)
	if err := s.poolRepo.UpdateBalance(ctx, poolID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update pool balance: %w", err)
	}

	if err := s.memberRepo.AddContribution(ctx, poolID, memberID, amount); err != nil {
		return nil, fmt.Errorf("failed to update member contribution: %w", err)
	}

	if err := s.auditRepo.Record(ctx, &entities.AuditLog{
		PoolID:     poolID,
		ActorID:    &memberID,
		Action:     "pool.contribution_credited",
		EntityType: "pool",
		EntityID:   poolID,
		OldValues:  map[string]any{"total_contributed": pool.TotalContributed},
		NewValues:  map[string]any{"total_contributed": newBalance},
	}); err != nil {
		return nil, fmt.Errorf("failed to record contribution audit event: %w", err)
	}

	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		PoolID:          poolID,
		TransactionType: string(entities.TransactionTypeCredit),
		OldBalance:      pool.TotalContributed,
		NewBalance:      newBalance,
		ChangeAmount:    amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return txn, nil
}
