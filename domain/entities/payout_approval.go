package entities

import "time"

// ApprovalStatus represents the state of a manual approval record
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// PoolPayoutApproval represents a manual approval gate for a payout,
// used when the pool's payout settings require approval independent of
// member voting.
type PoolPayoutApproval struct {
	ID         int64          `db:"id"`
	PayoutID   int64          `db:"payout_id"`
	ApproverID *int64         `db:"approver_id"`
	Status     ApprovalStatus `db:"status"`
	Comment    *string        `db:"comment"`
	CreatedAt  time.Time      `db:"created_at"`
	DecidedAt  *time.Time     `db:"decided_at"`
}

// IsPending checks if the approval is still awaiting a decision
func (a *PoolPayoutApproval) IsPending() bool {
	return a.Status == ApprovalStatusPending
}

// Decide records the approver's decision
func (a *PoolPayoutApproval) Decide(approverID int64, status ApprovalStatus, comment *string) {
	now := time.Now()
	a.ApproverID = &approverID
	a.Status = status
	a.Comment = comment
	a.DecidedAt = &now
}
