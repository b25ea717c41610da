package application

import (
	"poolpay/domain/interfaces"
	"poolpay/domain/services"
)

// NewPayoutServiceFromUOW wires a payout service over the repositories of a
// single unit of work, so every lifecycle transition it performs commits
// atomically with that unit of work.
func NewPayoutServiceFromUOW(uow UnitOfWork) interfaces.PayoutService {
	return services.NewPayoutService(
		uow.PoolRepository(),
		uow.PoolMemberRepository(),
		uow.PayoutRepository(),
		uow.PayoutVoteRepository(),
		uow.PayoutApprovalRepository(),
		uow.AuditLogRepository(),
		NewPayoutSettingsServiceFromUOW(uow),
		NewVotingSettingsServiceFromUOW(uow),
		NewLedgerServiceFromUOW(uow),
		uow.EventBus(),
	)
}

// NewPayoutSettingsServiceFromUOW wires a payout settings service over a
// unit of work's repositories
func NewPayoutSettingsServiceFromUOW(uow UnitOfWork) interfaces.PayoutSettingsService {
	return services.NewPayoutSettingsService(
		uow.PoolRepository(),
		uow.PayoutRepository(),
		uow.PayoutSettingsRepository(),
		uow.AuditLogRepository(),
		uow.EventBus(),
	)
}

// NewVotingSettingsServiceFromUOW wires a voting settings service over a
// unit of work's repositories
func NewVotingSettingsServiceFromUOW(uow UnitOfWork) interfaces.VotingSettingsService {
	return services.NewVotingSettingsService(
		uow.VotingSettingsRepository(),
		uow.AuditLogRepository(),
		uow.EventBus(),
	)
}

// NewLedgerServiceFromUOW wires a ledger service over a unit of work's
// transaction repository
func NewLedgerServiceFromUOW(uow UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.PayoutTransactionRepository())
}

// NewPoolServiceFromUOW wires a pool service over a unit of work's repositories
func NewPoolServiceFromUOW(uow UnitOfWork) interfaces.PoolService {
	return services.NewPoolService(
		uow.PoolRepository(),
		uow.PoolMemberRepository(),
		NewLedgerServiceFromUOW(uow),
		uow.AuditLogRepository(),
		uow.EventBus(),
	)
}
