package events

import "github.com/shopspring/decimal"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePayoutStateChange EventType = "payout_state_change"
	EventTypeVoteCast          EventType = "vote_cast"
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeSettingsUpdated   EventType = "settings_updated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PayoutStateChangeEvent represents a payout state transition
type PayoutStateChangeEvent struct {
	PayoutID  int64
	PoolID    int64
	OldStatus string
	NewStatus string
	Amount    decimal.Decimal
	Reason    string
}

func (e PayoutStateChangeEvent) Type() EventType {
	return EventTypePayoutStateChange
}

// VoteCastEvent represents a member vote on a payout
type VoteCastEvent struct {
	PayoutID           int64
	PoolID             int64
	VoterID            int64
	VoteType           string
	ApproveVotes       int
	RejectVotes        int
	AbstainVotes       int
	TotalVotes         int
	ApprovalPercentage decimal.Decimal
}

func (e VoteCastEvent) Type() EventType {
	return EventTypeVoteCast
}

// BalanceChangeEvent represents a pool balance change
type BalanceChangeEvent struct {
	PoolID          int64
	PayoutID        *int64
	TransactionType string
	OldBalance      decimal.Decimal
	NewBalance      decimal.Decimal
	ChangeAmount    decimal.Decimal
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// SettingsUpdatedEvent represents a change to pool payout or voting settings
type SettingsUpdatedEvent struct {
	PoolID       int64
	SettingsKind string
	ActorID      int64
}

func (e SettingsUpdatedEvent) Type() EventType {
	return EventTypeSettingsUpdated
}
