package application

import (
	"context"

	"poolpay/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every repository returned by a unit of work shares one database
// transaction, and events published through EventBus are flushed only
// after that transaction commits.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	PoolRepository() interfaces.PoolRepository
	PoolMemberRepository() interfaces.PoolMemberRepository
	PayoutRepository() interfaces.PayoutRepository
	PayoutVoteRepository() interfaces.PayoutVoteRepository
	PayoutApprovalRepository() interfaces.PayoutApprovalRepository
	VotingSettingsRepository() interfaces.VotingSettingsRepository
	PayoutSettingsRepository() interfaces.PayoutSettingsRepository
	PayoutTransactionRepository() interfaces.PayoutTransactionRepository
	AuditLogRepository() interfaces.AuditLogRepository

	// EventBus returns the transactional event publisher
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
