package services

import (
	"context"
	"fmt"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/events"
	"poolpay/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type payoutService struct {
	poolRepo       interfaces.PoolRepository
	memberRepo     interfaces.PoolMemberRepository
	payoutRepo     interfaces.PayoutRepository
	voteRepo       interfaces.PayoutVoteRepository
	approvalRepo   interfaces.PayoutApprovalRepository
	auditRepo      interfaces.AuditLogRepository
	payoutSettings interfaces.PayoutSettingsService
	votingSettings interfaces.VotingSettingsService
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewPayoutService creates a new payout service. All repositories must come
// from the same unit of work so each lifecycle transition commits atomically.
func NewPayoutService(
	poolRepo interfaces.PoolRepository,
	memberRepo interfaces.PoolMemberRepository,
	payoutRepo interfaces.PayoutRepository,
	voteRepo interfaces.PayoutVoteRepository,
	approvalRepo interfaces.PayoutApprovalRepository,
	auditRepo interfaces.AuditLogRepository,
	payoutSettings interfaces.PayoutSettingsService,
	votingSettings interfaces.VotingSettingsService,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.PayoutService {
	return &payoutService{
		poolRepo:       poolRepo,
		memberRepo:     memberRepo,
		payoutRepo:     payoutRepo,
		voteRepo:       voteRepo,
		approvalRepo:   approvalRepo,
		auditRepo:      auditRepo,
		payoutSettings: payoutSettings,
		votingSettings: votingSettings,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// CreatePayout validates amount and daily limits, resolves voting settings
// and creates the payout. When neither voting nor manual approval applies
// the payout is disbursed immediately within the same unit of work.
func (s *payoutService) CreatePayout(ctx context.Context, input interfaces.CreatePayoutInput) (*entities.PoolPayout, error) {
	if !input.Amount.IsPositive() {
		return nil, &ValidationError{Violations: []string{"Amount must be positive"}}
	}

	// Lock the pool row so concurrent payouts cannot both pass the
	// balance and daily-limit checks.
	pool, err := s.poolRepo.GetByIDForUpdate(ctx, input.PoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return nil, ErrPoolNotFound
	}

	creator, err := s.memberRepo.GetMember(ctx, input.PoolID, input.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool member: %w", err)
	}
	if creator == nil {
		return nil, ErrNotPoolMember
	}

	settings, err := s.payoutSettings.GetOrCreate(ctx, input.PoolID)
	if err != nil {
		return nil, err
	}
	if input.PayoutMethod != "" && !settings.AllowsMethod(input.PayoutMethod) {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, input.PayoutMethod)
	}

	validation, err := s.payoutSettings.ValidateAmount(ctx, input.PoolID, input.Amount)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return nil, &ValidationError{Violations: validation.Errors}
	}

	dailyLimit, err := s.payoutSettings.CheckDailyLimit(ctx, input.PoolID)
	if err != nil {
		return nil, err
	}
	if dailyLimit.Exceeded {
		return nil, ErrDailyLimitExceeded
	}

	votingSettings, err := s.votingSettings.Resolve(ctx, input.PoolID)
	if err != nil {
		return nil, err
	}

	payout := &entities.PoolPayout{
		PublicID:           uuid.New(),
		PoolID:             input.PoolID,
		RecipientID:        input.RecipientID,
		Amount:             input.Amount,
		Description:        input.Description,
		PayoutMethod:       input.PayoutMethod,
		Status:             entities.PayoutStatusPending,
		CreatedBy:          input.CreatedBy,
		VotingStatus:       entities.VotingStatusNotStarted,
		VotingResult:       entities.VotingResultPending,
		ApprovalPercentage: decimal.Zero,
	}
	if votingSettings.VotingEnabled {
		payout.OpenVoting(time.Now(), votingSettings.VotingDuration())
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}

	if err := s.recordAudit(ctx, payout, &input.CreatedBy, "payout.created", nil, map[string]any{
		"status": payout.Status,
		"amount": payout.Amount,
	}); err != nil {
		return nil, err
	}
	s.publishStateChange(payout, "", "")

	if !votingSettings.VotingEnabled {
		if settings.NeedsManualApproval(payout.Amount) {
			if err := s.approvalRepo.Create(ctx, &entities.PoolPayoutApproval{
				PayoutID: payout.ID,
				Status:   entities.ApprovalStatusPending,
			}); err != nil {
				return nil, fmt.Errorf("failed to create approval record: %w", err)
			}
		} else {
			if err := s.disburse(ctx, payout, &input.CreatedBy); err != nil {
				return nil, err
			}
		}
	}

	return payout, nil
}

// CastVote records or replaces a member's vote, recomputes the tally from
// the current vote rows and applies a decisive outcome to the payout
func (s *payoutService) CastVote(ctx context.Context, payoutID, voterID int64, voteType entities.VoteType, comment *string) (*entities.VoteTally, error) {
	if !voteType.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidVoteType, voteType)
	}

	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	if payout.IsTerminal() {
		return nil, ErrPayoutTerminal
	}
	if payout.VotingStatus != entities.VotingStatusActive {
		return nil, ErrVotingNotActive
	}
	if payout.IsVotingExpired() {
		// Lazy expiry resolution: settle the window before refusing the vote.
		if err := s.resolveExpired(ctx, payout); err != nil {
			return nil, err
		}
		return nil, ErrVotingClosed
	}

	member, err := s.memberRepo.GetMember(ctx, payout.PoolID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool member: %w", err)
	}
	if member == nil {
		return nil, ErrNotPoolMember
	}

	votingSettings, err := s.votingSettings.Resolve(ctx, payout.PoolID)
	if err != nil {
		return nil, err
	}
	if voteType == entities.VoteTypeAbstain && !votingSettings.AllowAbstain {
		return nil, ErrAbstainNotAllowed
	}

	vote := &entities.PoolPayoutVote{
		PayoutID:    payoutID,
		VoterID:     voterID,
		VoteType:    voteType,
		VotingPower: member.VotingPower(votingSettings.VotingType),
		Comment:     comment,
	}
	if err := s.voteRepo.Upsert(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to upsert vote: %w", err)
	}

	tally, err := s.recomputeFromRows(ctx, payout, votingSettings, false)
	if err != nil {
		return nil, err
	}
	payout.ApplyTally(tally)

	if err := s.applyOutcome(ctx, payout, tally.Outcome, &voterID); err != nil {
		return nil, err
	}

	if err := s.recordAudit(ctx, payout, &voterID, "payout.vote_cast", nil, map[string]any{
		"vote_type":           voteType,
		"voting_power":        vote.VotingPower,
		"approval_percentage": tally.ApprovalPercentage,
		"outcome":             tally.Outcome,
	}); err != nil {
		return nil, err
	}

	if err := s.eventPublisher.Publish(events.VoteCastEvent{
		PayoutID:           payout.ID,
		PoolID:             payout.PoolID,
		VoterID:            voterID,
		VoteType:           string(voteType),
		ApproveVotes:       tally.ApproveVotes,
		RejectVotes:        tally.RejectVotes,
		AbstainVotes:       tally.AbstainVotes,
		TotalVotes:         tally.TotalVotes,
		ApprovalPercentage: tally.ApprovalPercentage,
	}); err != nil {
		log.WithError(err).Error("Failed to publish vote cast event")
	}

	return tally, nil
}

// RecomputeTally re-derives the aggregates from the current vote rows
// without mutating the payout
func (s *payoutService) RecomputeTally(ctx context.Context, payoutID int64) (*entities.VoteTally, error) {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}

	votingSettings, err := s.votingSettings.Resolve(ctx, payout.PoolID)
	if err != nil {
		return nil, err
	}
	return s.recomputeFromRows(ctx, payout, votingSettings, payout.IsVotingExpired())
}

// CancelPayout cancels a non-terminal payout. Only the creator or the pool
// owner may cancel; a completed payout is immutable.
func (s *payoutService) CancelPayout(ctx context.Context, payoutID, actorID int64) error {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get payout: %w", err)
	}
	if payout == nil {
		return ErrPayoutNotFound
	}
	if !payout.CanBeCancelled() {
		return ErrPayoutNotCancellable
	}

	member, err := s.memberRepo.GetMember(ctx, payout.PoolID, actorID)
	if err != nil {
		return fmt.Errorf("failed to get pool member: %w", err)
	}
	isCreator := actorID == payout.CreatedBy
	isOwner := member != nil && member.IsOwner()
	if !isCreator && !isOwner {
		return ErrNotAuthorized
	}

	oldStatus := payout.Status
	payout.Cancel()
	if err := s.payoutRepo.Update(ctx, payout); err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}

	if err := s.recordAudit(ctx, payout, &actorID, "payout.cancelled", map[string]any{
		"status": oldStatus,
	}, map[string]any{
		"status": payout.Status,
	}); err != nil {
		return err
	}
	s.publishStateChange(payout, string(oldStatus), "cancelled by user")
	return nil
}

// DecideApproval records a manual approval decision. Approval disburses the
// payout; rejection fails it.
func (s *payoutService) DecideApproval(ctx context.Context, payoutID, approverID int64, approve bool, comment *string) error {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get payout: %w", err)
	}
	if payout == nil {
		return ErrPayoutNotFound
	}
	if payout.IsTerminal() {
		return ErrPayoutTerminal
	}

	approval, err := s.approvalRepo.GetByPayout(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get approval record: %w", err)
	}
	if approval == nil {
		return ErrApprovalNotFound
	}
	if !approval.IsPending() {
		return ErrApprovalDecided
	}

	member, err := s.memberRepo.GetMember(ctx, payout.PoolID, approverID)
	if err != nil {
		return fmt.Errorf("failed to get pool member: %w", err)
	}
	if member == nil || !member.IsOwner() {
		return ErrNotAuthorized
	}

	if approve {
		approval.Decide(approverID, entities.ApprovalStatusApproved, comment)
		if err := s.approvalRepo.Update(ctx, approval); err != nil {
			return fmt.Errorf("failed to update approval record: %w", err)
		}
		if err := s.disburse(ctx, payout, &approverID); err != nil {
			return err
		}
	} else {
		approval.Decide(approverID, entities.ApprovalStatusRejected, comment)
		if err := s.approvalRepo.Update(ctx, approval); err != nil {
			return fmt.Errorf("failed to update approval record: %w", err)
		}
		oldStatus := payout.Status
		payout.MarkFailed("Payout rejected by approver")
		if err := s.payoutRepo.Update(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		s.publishStateChange(payout, string(oldStatus), *payout.FailureReason)
	}

	return s.recordAudit(ctx, payout, &approverID, "payout.approval_decided", nil, map[string]any{
		"approved": approve,
		"status":   payout.Status,
	})
}

// GetPayoutDetail returns the payout with its votes, ledger rows and approval
func (s *payoutService) GetPayoutDetail(ctx context.Context, payoutID int64) (*entities.PoolPayoutDetail, error) {
	detail, err := s.payoutRepo.GetDetailByID(ctx, payoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout detail: %w", err)
	}
	if detail == nil || detail.Payout == nil {
		return nil, ErrPayoutNotFound
	}
	return detail, nil
}

// ResolveExpiredVoting settles a payout whose voting window lapsed without a
// decisive outcome. Called by the periodic sweep and by the lazy path on
// vote casts against an expired window.
func (s *payoutService) ResolveExpiredVoting(ctx context.Context, payoutID int64) error {
	payout, err := s.payoutRepo.GetByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("failed to get payout: %w", err)
	}
	if payout == nil {
		return ErrPayoutNotFound
	}
	if !payout.IsVotingExpired() {
		return nil
	}
	return s.resolveExpired(ctx, payout)
}

// resolveExpired tallies with the window marked expired and applies the
// terminal voting outcome
func (s *payoutService) resolveExpired(ctx context.Context, payout *entities.PoolPayout) error {
	votingSettings, err := s.votingSettings.Resolve(ctx, payout.PoolID)
	if err != nil {
		return err
	}

	tally, err := s.recomputeFromRows(ctx, payout, votingSettings, true)
	if err != nil {
		return err
	}
	payout.ApplyTally(tally)

	if err := s.applyOutcome(ctx, payout, tally.Outcome, nil); err != nil {
		return err
	}

	return s.recordAudit(ctx, payout, nil, "payout.voting_expired", nil, map[string]any{
		"outcome":             tally.Outcome,
		"total_votes":         tally.TotalVotes,
		"approval_percentage": tally.ApprovalPercentage,
	})
}

// recomputeFromRows loads the vote rows and eligible-voter count and derives
// a fresh tally
func (s *payoutService) recomputeFromRows(ctx context.Context, payout *entities.PoolPayout, votingSettings *entities.PoolVotingSettings, windowExpired bool) (*entities.VoteTally, error) {
	votes, err := s.voteRepo.ListByPayout(ctx, payout.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	eligible, err := s.memberRepo.CountByPool(ctx, payout.PoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pool members: %w", err)
	}
	return ComputeTally(votes, votingSettings, eligible, windowExpired), nil
}

// applyOutcome moves the payout according to a tally outcome. A pending
// outcome just persists the refreshed aggregates.
func (s *payoutService) applyOutcome(ctx context.Context, payout *entities.PoolPayout, outcome entities.VotingResult, actorID *int64) error {
	oldStatus := payout.Status

	switch outcome {
	case entities.VotingResultApproved:
		payout.CloseVoting(entities.VotingResultApproved)

		settings, err := s.payoutSettings.GetOrCreate(ctx, payout.PoolID)
		if err != nil {
			return err
		}
		if settings.NeedsManualApproval(payout.Amount) {
			payout.Status = entities.PayoutStatusPending
			if err := s.payoutRepo.Update(ctx, payout); err != nil {
				return fmt.Errorf("failed to update payout: %w", err)
			}
			existing, err := s.approvalRepo.GetByPayout(ctx, payout.ID)
			if err != nil {
				return fmt.Errorf("failed to get approval record: %w", err)
			}
			if existing == nil {
				if err := s.approvalRepo.Create(ctx, &entities.PoolPayoutApproval{
					PayoutID: payout.ID,
					Status:   entities.ApprovalStatusPending,
				}); err != nil {
					return fmt.Errorf("failed to create approval record: %w", err)
				}
			}
			s.publishStateChange(payout, string(oldStatus), "vote approved, awaiting manual approval")
			return nil
		}
		return s.disburse(ctx, payout, actorID)

	case entities.VotingResultRejected:
		payout.CloseVoting(entities.VotingResultRejected)
		payout.MarkFailed("Payout rejected by member vote")
		if err := s.payoutRepo.Update(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		s.publishStateChange(payout, string(oldStatus), *payout.FailureReason)
		return nil

	case entities.VotingResultFailed:
		payout.CloseVoting(entities.VotingResultFailed)
		payout.MarkFailed("Voting quorum not reached")
		if err := s.payoutRepo.Update(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		s.publishStateChange(payout, string(oldStatus), *payout.FailureReason)
		return nil

	default:
		if err := s.payoutRepo.Update(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		return nil
	}
}

// disburse performs the atomic terminal transition: re-check the pool
// balance under lock, record the ledger debit, decrement the pool balance
// and complete the payout. Failing the balance re-check marks the payout
// failed without writing a ledger row.
func (s *payoutService) disburse(ctx context.Context, payout *entities.PoolPayout, actorID *int64) error {
	oldStatus := payout.Status
	payout.Status = entities.PayoutStatusProcessing

	pool, err := s.poolRepo.GetByIDForUpdate(ctx, payout.PoolID)
	if err != nil {
		return fmt.Errorf("failed to lock pool: %w", err)
	}
	if pool == nil {
		return ErrPoolNotFound
	}

	if !pool.CanCover(payout.Amount) {
		payout.MarkFailed("Insufficient pool balance at disbursement")
		if err := s.payoutRepo.Update(ctx, payout); err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}
		s.publishStateChange(payout, string(oldStatus), *payout.FailureReason)
		return fmt.Errorf("%w: pool %d has %s, payout needs %s",
			ErrInsufficientBalance, pool.ID, pool.TotalContributed, payout.Amount)
	}

	txn, err := s.ledger.RecordTransaction(ctx, payout.PoolID, &payout.ID,
		entities.TransactionTypeDebit, payout.Amount, pool.TotalContributed, payout.Description)
	if err != nil {
		return err
	}

	if err := s.poolRepo.UpdateBalance(ctx, payout.PoolID, txn.BalanceAfter); err != nil {
		return fmt.Errorf("failed to update pool balance: %w", err)
	}

	payout.MarkCompleted(time.Now())
	if err := s.payoutRepo.Update(ctx, payout); err != nil {
		return fmt.Errorf("failed to update payout: %w", err)
	}

	if err := s.recordAudit(ctx, payout, actorID, "payout.completed", map[string]any{
		"status":  oldStatus,
		"balance": txn.BalanceBefore,
	}, map[string]any{
		"status":  payout.Status,
		"balance": txn.BalanceAfter,
	}); err != nil {
		return err
	}

	if err := s.eventPublisher.Publish(events.BalanceChangeEvent{
		PoolID:          payout.PoolID,
		PayoutID:        &payout.ID,
		TransactionType: string(entities.TransactionTypeDebit),
		OldBalance:      txn.BalanceBefore,
		NewBalance:      txn.BalanceAfter,
		ChangeAmount:    payout.Amount.Neg(),
	}); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}
	s.publishStateChange(payout, string(oldStatus), "")
	return nil
}

func (s *payoutService) recordAudit(ctx context.Context, payout *entities.PoolPayout, actorID *int64, action string, oldValues, newValues map[string]any) error {
	if err := s.auditRepo.Record(ctx, &entities.AuditLog{
		PoolID:     payout.PoolID,
		ActorID:    actorID,
		Action:     action,
		EntityType: "pool_payout",
		EntityID:   payout.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

func (s *payoutService) publishStateChange(payout *entities.PoolPayout, oldStatus, reason string) {
	if err := s.eventPublisher.Publish(events.PayoutStateChangeEvent{
		PayoutID:  payout.ID,
		PoolID:    payout.PoolID,
		OldStatus: oldStatus,
		NewStatus: string(payout.Status),
		Amount:    payout.Amount,
		Reason:    reason,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payout state change event")
	}
}
