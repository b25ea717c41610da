package application

import (
	"context"
	"fmt"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/services"

	log "github.com/sirupsen/logrus"
)

// VotingSweepWorker periodically settles payouts whose voting window has
// lapsed without a decisive outcome. Expiry is also resolved lazily when a
// vote arrives against an expired window; the sweep covers payouts nobody
// touches again.
type VotingSweepWorker struct {
	uowFactory UnitOfWorkFactory
	interval   time.Duration
}

// NewVotingSweepWorker creates a new voting sweep worker
func NewVotingSweepWorker(uowFactory UnitOfWorkFactory, interval time.Duration) *VotingSweepWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &VotingSweepWorker{
		uowFactory: uowFactory,
		interval:   interval,
	}
}

// Start begins the sweep loop and returns a stop function
func (w *VotingSweepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Voting sweep worker started")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			if err := w.sweepOnce(ctx); err != nil {
				log.Errorf("Error sweeping expired voting windows: %v", err)
			}

			select {
			case <-ctx.Done():
				log.Info("Voting sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Voting sweep worker shutting down (stop requested)...")
				return
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// sweepOnce finds every payout with an expired voting window and resolves
// each in its own unit of work, so one bad payout cannot block the rest
func (w *VotingSweepWorker) sweepOnce(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	expired, err := uow.PayoutRepository().GetExpiredVoting(ctx)
	if err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to list expired voting windows: %w", err)
	}
	uow.Rollback()

	if len(expired) == 0 {
		return nil
	}

	log.Infof("Found %d payouts with expired voting windows", len(expired))

	var successCount, failureCount int
	for _, payout := range expired {
		if err := w.resolveOne(ctx, payout); err != nil {
			log.Errorf("Error resolving expired voting for payout %d: %v", payout.ID, err)
			failureCount++
		} else {
			successCount++
		}
	}

	log.WithFields(log.Fields{
		"total":      len(expired),
		"successful": successCount,
		"failed":     failureCount,
	}).Info("Completed expired voting sweep")

	return nil
}

// resolveOne settles a single expired voting window in its own transaction.
// A recorded failure (e.g. the pool can no longer cover an approved payout)
// commits so the failed transition sticks and the payout drops out of the
// next sweep.
func (w *VotingSweepWorker) resolveOne(ctx context.Context, payout *entities.PoolPayout) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	payoutService := NewPayoutServiceFromUOW(uow)
	if err := payoutService.ResolveExpiredVoting(ctx, payout.ID); err != nil {
		if services.IsRecordedFailure(err) {
			if commitErr := uow.Commit(); commitErr != nil {
				return commitErr
			}
		}
		return err
	}

	return uow.Commit()
}
