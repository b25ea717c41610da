package api

import (
	"time"

	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
)

type payoutResponse struct {
	ID                 int64           `json:"id"`
	PublicID           string          `json:"public_id"`
	PoolID             int64           `json:"pool_id"`
	RecipientID        int64           `json:"recipient_id"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description,omitempty"`
	PayoutMethod       string          `json:"payout_method"`
	Status             string          `json:"status"`
	CreatedBy          int64           `json:"created_by"`
	VotingEnabled      bool            `json:"voting_enabled"`
	VotingStatus       string          `json:"voting_status"`
	VotingResult       string          `json:"voting_result"`
	VotingStartsAt     *time.Time      `json:"voting_starts_at,omitempty"`
	VotingEndsAt       *time.Time      `json:"voting_ends_at,omitempty"`
	ApproveVotes       int             `json:"approve_votes"`
	RejectVotes        int             `json:"reject_votes"`
	AbstainVotes       int             `json:"abstain_votes"`
	TotalVotes         int             `json:"total_votes"`
	ApprovalPercentage decimal.Decimal `json:"approval_percentage"`
	FailureReason      *string         `json:"failure_reason,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toPayoutResponse(p *entities.PoolPayout) payoutResponse {
	return payoutResponse{
		ID:                 p.ID,
		PublicID:           p.PublicID.String(),
		PoolID:             p.PoolID,
		RecipientID:        p.RecipientID,
		Amount:             p.Amount,
		Description:        p.Description,
		PayoutMethod:       p.PayoutMethod,
		Status:             string(p.Status),
		CreatedBy:          p.CreatedBy,
		VotingEnabled:      p.VotingEnabled,
		VotingStatus:       string(p.VotingStatus),
		VotingResult:       string(p.VotingResult),
		VotingStartsAt:     p.VotingStartsAt,
		VotingEndsAt:       p.VotingEndsAt,
		ApproveVotes:       p.ApproveVotes,
		RejectVotes:        p.RejectVotes,
		AbstainVotes:       p.AbstainVotes,
		TotalVotes:         p.TotalVotes,
		ApprovalPercentage: p.ApprovalPercentage,
		FailureReason:      p.FailureReason,
		CompletedAt:        p.CompletedAt,
		CreatedAt:          p.CreatedAt,
	}
}

type voteResponse struct {
	VoterID     int64           `json:"voter_id"`
	VoteType    string          `json:"vote_type"`
	VotingPower decimal.Decimal `json:"voting_power"`
	Comment     *string         `json:"comment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type transactionResponse struct {
	ID              int64           `json:"id"`
	PoolID          int64           `json:"pool_id"`
	PayoutID        *int64          `json:"payout_id,omitempty"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toTransactionResponse(t *entities.PoolPayoutTransaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		PoolID:          t.PoolID,
		PayoutID:        t.PayoutID,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

type approvalResponse struct {
	Status     string     `json:"status"`
	ApproverID *int64     `json:"approver_id,omitempty"`
	Comment    *string    `json:"comment,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// payoutDetailResponse adds vote progress and the remaining voting window
// to the payout body
type payoutDetailResponse struct {
	Payout              payoutResponse        `json:"payout"`
	Votes               []voteResponse        `json:"votes"`
	Transactions        []transactionResponse `json:"transactions"`
	Approval            *approvalResponse     `json:"approval,omitempty"`
	VotingTimeRemaining int64                 `json:"voting_time_remaining_seconds"`
}

func toPayoutDetailResponse(d *entities.PoolPayoutDetail) payoutDetailResponse {
	resp := payoutDetailResponse{
		Payout:              toPayoutResponse(d.Payout),
		Votes:               make([]voteResponse, 0, len(d.Votes)),
		Transactions:        make([]transactionResponse, 0, len(d.Transactions)),
		VotingTimeRemaining: int64(d.Payout.VotingTimeRemaining().Seconds()),
	}
	for _, v := range d.Votes {
		resp.Votes = append(resp.Votes, voteResponse{
			VoterID:     v.VoterID,
			VoteType:    string(v.VoteType),
			VotingPower: v.VotingPower,
			Comment:     v.Comment,
			CreatedAt:   v.CreatedAt,
		})
	}
	for _, t := range d.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	if d.Approval != nil {
		resp.Approval = &approvalResponse{
			Status:     string(d.Approval.Status),
			ApproverID: d.Approval.ApproverID,
			Comment:    d.Approval.Comment,
			DecidedAt:  d.Approval.DecidedAt,
		}
	}
	return resp
}

type tallyResponse struct {
	ApproveVotes       int             `json:"approve_votes"`
	RejectVotes        int             `json:"reject_votes"`
	AbstainVotes       int             `json:"abstain_votes"`
	TotalVotes         int             `json:"total_votes"`
	ApprovalPercentage decimal.Decimal `json:"approval_percentage"`
	EligibleVoters     int             `json:"eligible_voters"`
	Outcome            string          `json:"outcome"`
}

func toTallyResponse(t *entities.VoteTally) tallyResponse {
	return tallyResponse{
		ApproveVotes:       t.ApproveVotes,
		RejectVotes:        t.RejectVotes,
		AbstainVotes:       t.AbstainVotes,
		TotalVotes:         t.TotalVotes,
		ApprovalPercentage: t.ApprovalPercentage,
		EligibleVoters:     t.EligibleVoters,
		Outcome:            string(t.Outcome),
	}
}

type payoutSettingsResponse struct {
	PoolID               int64           `json:"pool_id"`
	MaxPayoutAmount      decimal.Decimal `json:"max_payout_amount"`
	MinPayoutAmount      decimal.Decimal `json:"min_payout_amount"`
	RequireApproval      bool            `json:"require_approval"`
	ApprovalThreshold    decimal.Decimal `json:"approval_threshold"`
	MaxDailyPayouts      int             `json:"max_daily_payouts"`
	AllowedPayoutMethods []string        `json:"allowed_payout_methods"`
}

func toPayoutSettingsResponse(s *entities.PoolPayoutSettings) payoutSettingsResponse {
	return payoutSettingsResponse{
		PoolID:               s.PoolID,
		MaxPayoutAmount:      s.MaxPayoutAmount,
		MinPayoutAmount:      s.MinPayoutAmount,
		RequireApproval:      s.RequireApproval,
		ApprovalThreshold:    s.ApprovalThreshold,
		MaxDailyPayouts:      s.MaxDailyPayouts,
		AllowedPayoutMethods: s.AllowedPayoutMethods,
	}
}

type votingSettingsResponse struct {
	PoolID              int64           `json:"pool_id"`
	VotingEnabled       bool            `json:"voting_enabled"`
	VotingThreshold     decimal.Decimal `json:"voting_threshold"`
	VotingDurationHours int             `json:"voting_duration_hours"`
	MinVoters           int             `json:"min_voters"`
	VotingType          string          `json:"voting_type"`
	AutoApprove         bool            `json:"auto_approve"`
	AllowAbstain        bool            `json:"allow_abstain"`
	RequireQuorum       bool            `json:"require_quorum"`
	QuorumPercentage    decimal.Decimal `json:"quorum_percentage"`
}

func toVotingSettingsResponse(s *entities.PoolVotingSettings) votingSettingsResponse {
	return votingSettingsResponse{
		PoolID:              s.PoolID,
		VotingEnabled:       s.VotingEnabled,
		VotingThreshold:     s.VotingThreshold,
		VotingDurationHours: s.VotingDurationHours,
		MinVoters:           s.MinVoters,
		VotingType:          string(s.VotingType),
		AutoApprove:         s.AutoApprove,
		AllowAbstain:        s.AllowAbstain,
		RequireQuorum:       s.RequireQuorum,
		QuorumPercentage:    s.QuorumPercentage,
	}
}

type poolResponse struct {
	ID               int64           `json:"id"`
	OwnerID          int64           `json:"owner_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	GoalAmount       decimal.Decimal `json:"goal_amount"`
	TotalContributed decimal.Decimal `json:"total_contributed"`
	IsPrivate        bool            `json:"is_private"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toPoolResponse(p *entities.Pool) poolResponse {
	return poolResponse{
		ID:               p.ID,
		OwnerID:          p.OwnerID,
		Name:             p.Name,
		Description:      p.Description,
		GoalAmount:       p.GoalAmount,
		TotalContributed: p.TotalContributed,
		IsPrivate:        p.IsPrivate,
		CreatedAt:        p.CreatedAt,
	}
}
