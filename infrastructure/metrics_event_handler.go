package infrastructure

import (
	"context"

	"poolpay/domain/entities"
	"poolpay/domain/events"
	"poolpay/infrastructure/observability"
)

// RegisterMetricsHandlers subscribes payout lifecycle metrics to the
// locally-dispatched event stream, so resolution counters and the active
// voting gauge track every transition regardless of which code path
// (request, approval, sweep) produced it.
func RegisterMetricsHandlers(factory *UnitOfWorkFactory) {
	factory.RegisterLocalHandler(events.EventTypePayoutStateChange,
		func(_ context.Context, event events.Event) error {
			change, ok := event.(events.PayoutStateChangeEvent)
			if !ok {
				return nil
			}
			m := observability.GetMetrics()
			if m == nil {
				return nil
			}
			resolved, delta := payoutStateMetrics(change.OldStatus, change.NewStatus)
			if delta != 0 {
				m.UpdateActiveVoting(delta)
			}
			if resolved {
				m.RecordPayoutResolved(change.NewStatus)
			}
			return nil
		})
}

// payoutStateMetrics derives the gauge and counter movements for a payout
// status transition: entering pending_voting opens a voting window, leaving
// it closes one, and any terminal status counts as a resolution.
func payoutStateMetrics(oldStatus, newStatus string) (resolved bool, activeDelta int64) {
	voting := string(entities.PayoutStatusPendingVoting)
	if newStatus == voting && oldStatus != voting {
		activeDelta = 1
	}
	if oldStatus == voting && newStatus != voting {
		activeDelta = -1
	}

	switch newStatus {
	case string(entities.PayoutStatusCompleted),
		string(entities.PayoutStatusFailed),
		string(entities.PayoutStatusCancelled):
		resolved = true
	}
	return resolved, activeDelta
}
