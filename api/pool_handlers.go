package api

import (
	"encoding/json"
	"net/http"

	"poolpay/application"
	"poolpay/domain/entities"
	"poolpay/domain/interfaces"
	"poolpay/domain/services"
	"poolpay/infrastructure/observability"

	"github.com/shopspring/decimal"
)

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}

	var pool *entities.Pool
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		pool, err = application.NewPoolServiceFromUOW(uow).GetPool(r.Context(), poolID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toPoolResponse(pool))
}

type contributionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (s *Server) handleCreditContribution(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	actor, _ := actorID(r)

	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var txn *entities.PoolPayoutTransaction
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		txn, err = application.NewPoolServiceFromUOW(uow).CreditContribution(
			r.Context(), poolID, actor, req.Amount, req.Description)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if m := observability.GetMetrics(); m != nil {
		m.RecordLedgerTransaction(string(txn.TransactionType))
	}
	respondCreated(w, toTransactionResponse(txn))
}

func (s *Server) handleListPoolTransactions(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	limit := queryLimit(r, 50)

	var txns []*entities.PoolPayoutTransaction
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		txns, err = application.NewLedgerServiceFromUOW(uow).ListPoolTransactions(r.Context(), poolID, limit)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, toTransactionResponse(t))
	}
	respondOK(w, resp)
}

func (s *Server) handleGetPayoutSettings(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}

	var settings *entities.PoolPayoutSettings
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		settings, err = application.NewPayoutSettingsServiceFromUOW(uow).GetOrCreate(r.Context(), poolID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toPayoutSettingsResponse(settings))
}

type payoutSettingsRequest struct {
	MaxPayoutAmount      decimal.Decimal `json:"max_payout_amount"`
	MinPayoutAmount      decimal.Decimal `json:"min_payout_amount"`
	RequireApproval      bool            `json:"require_approval"`
	ApprovalThreshold    decimal.Decimal `json:"approval_threshold"`
	MaxDailyPayouts      int             `json:"max_daily_payouts"`
	AllowedPayoutMethods []string        `json:"allowed_payout_methods"`
}

func (s *Server) handleUpdatePayoutSettings(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	actor, _ := actorID(r)

	var req payoutSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var settings *entities.PoolPayoutSettings
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		if err := s.requirePoolOwner(r, uow, poolID, actor); err != nil {
			return err
		}
		settings = &entities.PoolPayoutSettings{
			PoolID:               poolID,
			MaxPayoutAmount:      req.MaxPayoutAmount,
			MinPayoutAmount:      req.MinPayoutAmount,
			RequireApproval:      req.RequireApproval,
			ApprovalThreshold:    req.ApprovalThreshold,
			MaxDailyPayouts:      req.MaxDailyPayouts,
			AllowedPayoutMethods: req.AllowedPayoutMethods,
		}
		return application.NewPayoutSettingsServiceFromUOW(uow).UpdateSettings(r.Context(), actor, settings)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toPayoutSettingsResponse(settings))
}

func (s *Server) handleValidateAmount(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		respondBadRequest(w, "Invalid amount")
		return
	}

	var validation *interfaces.AmountValidation
	err = s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		validation, err = application.NewPayoutSettingsServiceFromUOW(uow).ValidateAmount(r.Context(), poolID, amount)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, validation)
}

func (s *Server) handleDailyLimit(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}

	var limit *interfaces.DailyLimit
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		limit, err = application.NewPayoutSettingsServiceFromUOW(uow).CheckDailyLimit(r.Context(), poolID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if limit.Remaining < 0 {
		limit.Remaining = 0
	}
	respondOK(w, limit)
}

func (s *Server) handleGetVotingSettings(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}

	var settings *entities.PoolVotingSettings
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		settings, err = application.NewVotingSettingsServiceFromUOW(uow).Resolve(r.Context(), poolID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toVotingSettingsResponse(settings))
}

type votingSettingsRequest struct {
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

func (s *Server) handleUpdateVotingSettings(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	actor, _ := actorID(r)

	var req votingSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var settings *entities.PoolVotingSettings
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		if err := s.requirePoolOwner(r, uow, poolID, actor); err != nil {
			return err
		}
		settings = &entities.PoolVotingSettings{
			PoolID:              poolID,
			VotingEnabled:       req.VotingEnabled,
			VotingThreshold:     req.VotingThreshold,
			VotingDurationHours: req.VotingDurationHours,
			MinVoters:           req.MinVoters,
			VotingType:          entities.VotingType(req.VotingType),
			AutoApprove:         req.AutoApprove,
			AllowAbstain:        req.AllowAbstain,
			RequireQuorum:       req.RequireQuorum,
			QuorumPercentage:    req.QuorumPercentage,
		}
		return application.NewVotingSettingsServiceFromUOW(uow).UpdateSettings(r.Context(), actor, settings)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toVotingSettingsResponse(settings))
}

// requirePoolOwner restricts settings mutations to the pool owner
func (s *Server) requirePoolOwner(r *http.Request, uow application.UnitOfWork, poolID, actor int64) error {
	pool, err := uow.PoolRepository().GetByID(r.Context(), poolID)
	if err != nil {
		return err
	}
	if pool == nil {
		return services.ErrPoolNotFound
	}
	if pool.OwnerID != actor {
		return services.ErrNotAuthorized
	}
	return nil
}
