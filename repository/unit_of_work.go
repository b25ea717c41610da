package repository

import (
	"context"
	"fmt"

	"poolpay/application"
	"poolpay/database"
	"poolpay/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	poolRepo               interfaces.PoolRepository
	memberRepo             interfaces.PoolMemberRepository
	payoutRepo             interfaces.PayoutRepository
	voteRepo               interfaces.PayoutVoteRepository
	approvalRepo           interfaces.PayoutApprovalRepository
	votingSettingsRepo     interfaces.VotingSettingsRepository
	payoutSettingsRepo     interfaces.PayoutSettingsRepository
	transactionRepo        interfaces.PayoutTransactionRepository
	auditRepo              interfaces.AuditLogRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a new UnitOfWork that flushes the given
// publisher on commit and discards it on rollback
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.poolRepo = NewPoolRepositoryWithTx(tx)
	u.memberRepo = NewPoolMemberRepositoryWithTx(tx)
	u.payoutRepo = NewPayoutRepositoryWithTx(tx)
	u.voteRepo = NewPayoutVoteRepositoryWithTx(tx)
	u.approvalRepo = NewPayoutApprovalRepositoryWithTx(tx)
	u.votingSettingsRepo = NewVotingSettingsRepositoryWithTx(tx)
	u.payoutSettingsRepo = NewPayoutSettingsRepositoryWithTx(tx)
	u.transactionRepo = NewPayoutTransactionRepositoryWithTx(tx)
	u.auditRepo = NewAuditLogRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// Events are best-effort after the transaction has committed.
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (u *unitOfWork) PoolRepository() interfaces.PoolRepository {
	if u.poolRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.poolRepo
}

func (u *unitOfWork) PoolMemberRepository() interfaces.PoolMemberRepository {
	if u.memberRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.memberRepo
}

func (u *unitOfWork) PayoutRepository() interfaces.PayoutRepository {
	if u.payoutRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.payoutRepo
}

func (u *unitOfWork) PayoutVoteRepository() interfaces.PayoutVoteRepository {
	if u.voteRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.voteRepo
}

func (u *unitOfWork) PayoutApprovalRepository() interfaces.PayoutApprovalRepository {
	if u.approvalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.approvalRepo
}

func (u *unitOfWork) VotingSettingsRepository() interfaces.VotingSettingsRepository {
	if u.votingSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.votingSettingsRepo
}

func (u *unitOfWork) PayoutSettingsRepository() interfaces.PayoutSettingsRepository {
	if u.payoutSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.payoutSettingsRepo
}

func (u *unitOfWork) PayoutTransactionRepository() interfaces.PayoutTransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

func (u *unitOfWork) AuditLogRepository() interfaces.AuditLogRepository {
	if u.auditRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.auditRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
