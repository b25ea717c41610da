package interfaces

import (
	"context"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoolRepository defines the interface for pool data access
type PoolRepository interface {
	// GetByID retrieves a pool by its ID
	GetByID(ctx context.Context, id int64) (*entities.Pool, error)

	// GetByIDForUpdate retrieves a pool and locks its row for the duration
	// of the current transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Pool, error)

	// Create creates a new pool
	Create(ctx context.Context, pool *entities.Pool) error

	// UpdateBalance sets the pool's contributed balance
	UpdateBalance(ctx context.Context, poolID int64, newBalance decimal.Decimal) error
}

// PoolMemberRepository defines the interface for pool membership data access
type PoolMemberRepository interface {
	// GetMember retrieves a member of a pool, nil if not a member
	GetMember(ctx context.Context, poolID, userID int64) (*entities.PoolMember, error)

	// ListByPool returns all members of a pool
	ListByPool(ctx context.Context, poolID int64) ([]*entities.PoolMember, error)

	// CountByPool returns the number of members in a pool
	CountByPool(ctx context.Context, poolID int64) (int, error)

	// AddMember creates a new membership row
	AddMember(ctx context.Context, member *entities.PoolMember) error

	// AddContribution increases a member's contributed total
	AddContribution(ctx context.Context, poolID, userID int64, amount decimal.Decimal) error
}

// PayoutRepository defines the interface for payout data access
type PayoutRepository interface {
	// Create creates a new payout
	Create(ctx context.Context, payout *entities.PoolPayout) error

	// GetByID retrieves a payout by its ID, nil if not found
	GetByID(ctx context.Context, id int64) (*entities.PoolPayout, error)

	// GetByPublicID retrieves a payout by its public reference ID
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*entities.PoolPayout, error)

	// GetDetailByID retrieves a payout with its votes, transactions and approval
	GetDetailByID(ctx context.Context, id int64) (*entities.PoolPayoutDetail, error)

	// Update persists changes to a payout
	Update(ctx context.Context, payout *entities.PoolPayout) error

	// CountCreatedBetween counts payouts created for a pool in [from, to)
	CountCreatedBetween(ctx context.Context, poolID int64, from, to time.Time) (int, error)

	// ListByPool returns the most recent payouts for a pool
	ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayout, error)

	// GetExpiredVoting returns payouts whose voting window has lapsed
	// while still marked active
	GetExpiredVoting(ctx context.Context) ([]*entities.PoolPayout, error)
}

// PayoutVoteRepository defines the interface for payout vote data access
type PayoutVoteRepository interface {
	// Upsert inserts the voter's row for the payout or replaces their prior vote
	Upsert(ctx context.Context, vote *entities.PoolPayoutVote) error

	// GetByPayoutAndVoter retrieves a voter's vote on a payout, nil if absent
	GetByPayoutAndVoter(ctx context.Context, payoutID, voterID int64) (*entities.PoolPayoutVote, error)

	// ListByPayout returns all votes cast on a payout
	ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutVote, error)
}

// VotingSettingsRepository defines the interface for per-pool voting configuration
type VotingSettingsRepository interface {
	// GetOrCreate retrieves the pool's voting settings, creating defaults on
	// first access. Safe under concurrent first access.
	GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolVotingSettings, error)

	// Update persists changes to voting settings
	Update(ctx context.Context, settings *entities.PoolVotingSettings) error
}

// PayoutSettingsRepository defines the interface for per-pool payout limits
type PayoutSettingsRepository interface {
	// GetOrCreate retrieves the pool's payout settings, creating defaults on
	// first access. Safe under concurrent first access.
	GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolPayoutSettings, error)

	// Update persists changes to payout settings
	Update(ctx context.Context, settings *entities.PoolPayoutSettings) error
}

// PayoutTransactionRepository defines the interface for the append-only ledger
type PayoutTransactionRepository interface {
	// Record creates a new ledger row; rows are never updated or deleted
	Record(ctx context.Context, txn *entities.PoolPayoutTransaction) error

	// ListByPayout returns ledger rows for a payout
	ListByPayout(ctx context.Context, payoutID int64) ([]*entities.PoolPayoutTransaction, error)

	// ListByPool returns the most recent ledger rows for a pool
	ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.PoolPayoutTransaction, error)
}

// PayoutApprovalRepository defines the interface for manual approval records
type PayoutApprovalRepository interface {
	// Create creates a new approval record
	Create(ctx context.Context, approval *entities.PoolPayoutApproval) error

	// GetByPayout retrieves the approval record for a payout, nil if absent
	GetByPayout(ctx context.Context, payoutID int64) (*entities.PoolPayoutApproval, error)

	// Update persists the approver's decision
	Update(ctx context.Context, approval *entities.PoolPayoutApproval) error
}

// AuditLogRepository defines the interface for audit event persistence
type AuditLogRepository interface {
	// Record appends an audit event
	Record(ctx context.Context, entry *entities.AuditLog) error

	// ListByPool returns the most recent audit events for a pool
	ListByPool(ctx context.Context, poolID int64, limit int) ([]*entities.AuditLog, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding database
// transaction settles
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all pending events on rollback
	Discard()
}
