package services

import (
	"errors"
	"strings"
)

// Business-rule errors surfaced to the API boundary. Infrastructure errors
// are wrapped with fmt.Errorf and surface as generic failures instead.
var (
	ErrPoolNotFound         = errors.New("pool not found")
	ErrPayoutNotFound       = errors.New("payout not found")
	ErrPayoutTerminal       = errors.New("payout has already reached a terminal state")
	ErrPayoutNotCancellable = errors.New("payout can no longer be cancelled")
	ErrVotingClosed         = errors.New("voting window is closed")
	ErrVotingNotActive      = errors.New("payout is not in a voting phase")
	ErrNotPoolMember        = errors.New("user is not a member of this pool")
	ErrNotAuthorized        = errors.New("user is not authorized for this operation")
	ErrInvalidVoteType      = errors.New("invalid vote type")
	ErrAbstainNotAllowed    = errors.New("abstain votes are not allowed for this pool")
	ErrDailyLimitExceeded   = errors.New("daily payout limit exceeded")
	ErrMethodNotAllowed     = errors.New("payout method is not allowed for this pool")
	ErrInsufficientBalance  = errors.New("amount exceeds pool balance")
	ErrApprovalNotFound     = errors.New("no approval record exists for this payout")
	ErrApprovalDecided      = errors.New("approval has already been decided")
)

// recordedFailureErrors are business failures whose terminal state
// transition is written before the error is returned: lazy expiry resolution
// settles the window before refusing the vote, and a failed balance re-check
// at disbursement marks the payout failed without a ledger row.
var recordedFailureErrors = []error{
	ErrVotingClosed,
	ErrInsufficientBalance,
}

// IsRecordedFailure reports whether err signals a failure whose state
// transition has already been written. The owner of the transaction must
// commit on these errors, not roll back, or the recorded transition is lost.
func IsRecordedFailure(err error) bool {
	for _, target := range recordedFailureErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidationError carries every limit violation found for a candidate payout
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "payout validation failed: " + strings.Join(e.Violations, "; ")
}

// AsValidationError unwraps a ValidationError from an error chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
