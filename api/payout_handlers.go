package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"poolpay/application"
	"poolpay/domain/entities"
	"poolpay/domain/interfaces"
	"poolpay/infrastructure/observability"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type createPayoutRequest struct {
	RecipientID  int64           `json:"recipient_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	PayoutMethod string          `json:"payout_method"`
}

func (s *Server) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	actor, _ := actorID(r)

	var req createPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var payout *entities.PoolPayout
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		payout, err = application.NewPayoutServiceFromUOW(uow).CreatePayout(r.Context(), interfaces.CreatePayoutInput{
			PoolID:       poolID,
			RecipientID:  req.RecipientID,
			CreatedBy:    actor,
			Amount:       req.Amount,
			Description:  req.Description,
			PayoutMethod: req.PayoutMethod,
		})
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if m := observability.GetMetrics(); m != nil {
		m.RecordPayoutCreated(string(payout.Status))
	}
	respondCreated(w, toPayoutResponse(payout))
}

func (s *Server) handleGetPayout(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := urlID(r, "payoutID")
	if !ok {
		respondBadRequest(w, "Invalid payout id")
		return
	}

	var detail *entities.PoolPayoutDetail
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		detail, err = application.NewPayoutServiceFromUOW(uow).GetPayoutDetail(r.Context(), payoutID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toPayoutDetailResponse(detail))
}

func (s *Server) handleListPayouts(w http.ResponseWriter, r *http.Request) {
	poolID, ok := urlID(r, "poolID")
	if !ok {
		respondBadRequest(w, "Invalid pool id")
		return
	}
	limit := queryLimit(r, 50)

	var payouts []*entities.PoolPayout
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		payouts, err = uow.PayoutRepository().ListByPool(r.Context(), poolID, limit)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]payoutResponse, 0, len(payouts))
	for _, p := range payouts {
		resp = append(resp, toPayoutResponse(p))
	}
	respondOK(w, resp)
}

type castVoteRequest struct {
	VoteType string  `json:"vote_type"`
	Comment  *string `json:"comment,omitempty"`
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := urlID(r, "payoutID")
	if !ok {
		respondBadRequest(w, "Invalid payout id")
		return
	}
	actor, _ := actorID(r)

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var tally *entities.VoteTally
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		tally, err = application.NewPayoutServiceFromUOW(uow).CastVote(
			r.Context(), payoutID, actor, entities.VoteType(req.VoteType), req.Comment)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if m := observability.GetMetrics(); m != nil {
		m.RecordVoteCast(req.VoteType)
	}
	respondOK(w, toTallyResponse(tally))
}

func (s *Server) handleCancelPayout(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := urlID(r, "payoutID")
	if !ok {
		respondBadRequest(w, "Invalid payout id")
		return
	}
	actor, _ := actorID(r)

	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		return application.NewPayoutServiceFromUOW(uow).CancelPayout(r.Context(), payoutID, actor)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]string{"status": string(entities.PayoutStatusCancelled)})
}

type approvalDecisionRequest struct {
	Approve bool    `json:"approve"`
	Comment *string `json:"comment,omitempty"`
}

func (s *Server) handleDecideApproval(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := urlID(r, "payoutID")
	if !ok {
		respondBadRequest(w, "Invalid payout id")
		return
	}
	actor, _ := actorID(r)

	var req approvalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var payout *entities.PoolPayout
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		svc := application.NewPayoutServiceFromUOW(uow)
		if err := svc.DecideApproval(r.Context(), payoutID, actor, req.Approve, req.Comment); err != nil {
			return err
		}
		var err error
		payout, err = uow.PayoutRepository().GetByID(r.Context(), payoutID)
		return err
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, toPayoutResponse(payout))
}

func (s *Server) handleListPayoutTransactions(w http.ResponseWriter, r *http.Request) {
	payoutID, ok := urlID(r, "payoutID")
	if !ok {
		respondBadRequest(w, "Invalid payout id")
		return
	}

	var txns []*entities.PoolPayoutTransaction
	err := s.inTx(r.Context(), func(uow application.UnitOfWork) error {
		var err error
		txns, err = application.NewLedgerServiceFromUOW(uow).ListPayoutTransactions(r.Context(), payoutID)
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

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 200 {
		return fallback
	}
	return limit
}
