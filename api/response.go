package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"poolpay/domain/services"

	log "github.com/sirupsen/logrus"
)

// Response is the envelope every endpoint returns
type Response struct {
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	Data            any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{
		ResponseCode:    "SUCCESS",
		ResponseMessage: "OK",
		Data:            data,
	})
}

func respondCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{
		ResponseCode:    "SUCCESS",
		ResponseMessage: "Created",
		Data:            data,
	})
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{
		ResponseCode:    "BAD_REQUEST",
		ResponseMessage: message,
	})
}

// respondError maps business errors to envelope codes. Anything unmapped is
// an infrastructure failure and surfaces as a 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			ResponseCode:    "VALIDATION_FAILED",
			ResponseMessage: "Payout validation failed",
			Data:            map[string]any{"errors": ve.Violations},
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, Response{
				ResponseCode:    m.code,
				ResponseMessage: m.err.Error(),
			})
			return
		}
	}

	log.WithError(err).Error("Unhandled error at API boundary")
	writeJSON(w, http.StatusInternalServerError, Response{
		ResponseCode:    "INTERNAL_ERROR",
		ResponseMessage: "An internal error occurred",
	})
}

var errorMappings = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrPoolNotFound, http.StatusNotFound, "POOL_NOT_FOUND"},
	{services.ErrPayoutNotFound, http.StatusNotFound, "PAYOUT_NOT_FOUND"},
	{services.ErrApprovalNotFound, http.StatusNotFound, "APPROVAL_NOT_FOUND"},
	{services.ErrNotPoolMember, http.StatusForbidden, "NOT_POOL_MEMBER"},
	{services.ErrNotAuthorized, http.StatusForbidden, "NOT_AUTHORIZED"},
	{services.ErrPayoutTerminal, http.StatusConflict, "PAYOUT_TERMINAL"},
	{services.ErrPayoutNotCancellable, http.StatusConflict, "PAYOUT_NOT_CANCELLABLE"},
	{services.ErrVotingClosed, http.StatusConflict, "VOTING_CLOSED"},
	{services.ErrVotingNotActive, http.StatusConflict, "VOTING_NOT_ACTIVE"},
	{services.ErrApprovalDecided, http.StatusConflict, "APPROVAL_DECIDED"},
	{services.ErrInvalidVoteType, http.StatusBadRequest, "INVALID_VOTE_TYPE"},
	{services.ErrAbstainNotAllowed, http.StatusConflict, "ABSTAIN_NOT_ALLOWED"},
	{services.ErrDailyLimitExceeded, http.StatusConflict, "DAILY_LIMIT_EXCEEDED"},
	{services.ErrMethodNotAllowed, http.StatusConflict, "METHOD_NOT_ALLOWED"},
	{services.ErrInsufficientBalance, http.StatusConflict, "INSUFFICIENT_BALANCE"},
}
