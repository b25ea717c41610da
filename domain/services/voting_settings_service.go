package services

import (
	"context"
	"fmt"

	"poolpay/domain/entities"
	"poolpay/domain/events"
	"poolpay/domain/interfaces"
)

type votingSettingsService struct {
	settingsRepo   interfaces.VotingSettingsRepository
	auditRepo      interfaces.AuditLogRepository
	eventPublisher interfaces.EventPublisher
}

// NewVotingSettingsService creates a new voting settings service
func NewVotingSettingsService(
	settingsRepo interfaces.VotingSettingsRepository,
	auditRepo interfaces.AuditLogRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.VotingSettingsService {
	return &votingSettingsService{
		settingsRepo:   settingsRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Resolve returns the pool's voting settings, creating defaults on first access
func (s *votingSettingsService) Resolve(ctx context.Context, poolID int64) (*entities.PoolVotingSettings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voting settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and persists new voting settings
func (s *votingSettingsService) UpdateSettings(ctx context.Context, actorID int64, settings *entities.PoolVotingSettings) error {
	var violations []string
	if !settings.VotingType.IsValid() {
		violations = append(violations, fmt.Sprintf("Unknown voting type: %s", settings.VotingType))
	}
	if !settings.VotingThreshold.IsPositive() || settings.VotingThreshold.GreaterThan(hundred) {
		violations = append(violations, "Voting threshold must be between 0 and 100")
	}
	if settings.VotingDurationHours < 1 {
		violations = append(violations, "Voting duration must be at least 1 hour")
	}
	if settings.MinVoters < 1 {
		violations = append(violations, "Minimum voters must be at least 1")
	}
	if !settings.QuorumPercentage.IsPositive() || settings.QuorumPercentage.GreaterThan(hundred) {
		violations = append(violations, "Quorum percentage must be between 0 and 100")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	current, err := s.settingsRepo.GetOrCreate(ctx, settings.PoolID)
	if err != nil {
		return fmt.Errorf("failed to get voting settings: %w", err)
	}
	settings.ID = current.ID

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update voting settings: %w", err)
	}

	if err := s.auditRepo.Record(ctx, &entities.AuditLog{
		PoolID:     settings.PoolID,
		ActorID:    &actorID,
		Action:     "voting_settings.updated",
		EntityType: "pool_voting_settings",
		EntityID:   settings.ID,
		OldValues: map[string]any{
			"voting_enabled":   current.VotingEnabled,
			"voting_threshold": current.VotingThreshold,
			"voting_type":      current.VotingType,
			"require_quorum":   current.RequireQuorum,
		},
		NewValues: map[string]any{
			"voting_enabled":   settings.VotingEnabled,
			"voting_threshold": settings.VotingThreshold,
			"voting_type":      settings.VotingType,
			"require_quorum":   settings.RequireQuorum,
		},
	}); err != nil {
		return fmt.Errorf("failed to record settings audit event: %w", err)
	}

	return s.eventPublisher.Publish(events.SettingsUpdatedEvent{
		PoolID:       settings.PoolID,
		SettingsKind: "voting",
		ActorID:      actorID,
	})
}
