package infrastructure

import (
	"fmt"

	"poolpay/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePayoutStateChange:
		return "payouts.state_changed"
	case events.EventTypeVoteCast:
		return "payouts.vote_cast"
	case events.EventTypeBalanceChange:
		return "pools.balance_changed"
	case events.EventTypeSettingsUpdated:
		return "pools.settings_updated"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "payouts.state_changed":
		return events.EventTypePayoutStateChange
	case "payouts.vote_cast":
		return events.EventTypeVoteCast
	case "pools.balance_changed":
		return events.EventTypeBalanceChange
	case "pools.settings_updated":
		return events.EventTypeSettingsUpdated
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"payouts.state_changed",
		"payouts.vote_cast",
		"pools.balance_changed",
		"pools.settings_updated",
	}
}
