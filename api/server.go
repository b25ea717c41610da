package api

import (
	"context"

	"poolpay/application"
	"poolpay/domain/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Server exposes the payout engine over HTTP
type Server struct {
	uowFactory application.UnitOfWorkFactory
}

// NewServer creates a new API server
func NewServer(uowFactory application.UnitOfWorkFactory) *Server {
	return &Server{uowFactory: uowFactory}
}

// Router builds the chi router with all routes mounted
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireActor)

		r.Route("/pools/{poolID}", func(r chi.Router) {
			r.Get("/", s.handleGetPool)
			r.Post("/contributions", s.handleCreditContribution)
			r.Get("/transactions", s.handleListPoolTransactions)

			r.Get("/payouts", s.handleListPayouts)
			r.Post("/payouts", s.handleCreatePayout)

			r.Get("/payout-settings", s.handleGetPayoutSettings)
			r.Put("/payout-settings", s.handleUpdatePayoutSettings)
			r.Get("/payout-settings/validate", s.handleValidateAmount)
			r.Get("/payout-settings/daily-limit", s.handleDailyLimit)

			r.Get("/voting-settings", s.handleGetVotingSettings)
			r.Put("/voting-settings", s.handleUpdateVotingSettings)
		})

		r.Route("/payouts/{payoutID}", func(r chi.Router) {
			r.Get("/", s.handleGetPayout)
			r.Post("/votes", s.handleCastVote)
			r.Post("/cancel", s.handleCancelPayout)
			r.Post("/approval", s.handleDecideApproval)
			r.Get("/transactions", s.handleListPayoutTransactions)
		})
	})

	return r
}

// inTx runs fn inside a fresh unit of work, committing on success and
// rolling back on error. Recorded business failures commit: the service has
// already written the terminal transition (expired window settled, payout
// marked failed at disbursement) and rolling it back would strand the payout
// in a non-terminal state.
func (s *Server) inTx(ctx context.Context, fn func(uow application.UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := fn(uow); err != nil {
		if services.IsRecordedFailure(err) {
			if commitErr := uow.Commit(); commitErr != nil {
				log.WithError(commitErr).Error("Failed to commit recorded failure state")
				_ = uow.Rollback()
			}
			return err
		}
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}
