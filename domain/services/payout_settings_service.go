package services

import (
	"context"
	"fmt"
	"time"

	"poolpay/domain/entities"
	"poolpay/domain/events"
	"poolpay/domain/interfaces"

	"github.com/shopspring/decimal"
)

type payoutSettingsService struct {
	poolRepo       interfaces.PoolRepository
	payoutRepo     interfaces.PayoutRepository
	settingsRepo   interfaces.PayoutSettingsRepository
	auditRepo      interfaces.AuditLogRepository
	eventPublisher interfaces.EventPublisher
}

// NewPayoutSettingsService creates a new payout settings service
func NewPayoutSettingsService(
	poolRepo interfaces.PoolRepository,
	payoutRepo interfaces.PayoutRepository,
	settingsRepo interfaces.PayoutSettingsRepository,
	auditRepo interfaces.AuditLogRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.PayoutSettingsService {
	return &payoutSettingsService{
		poolRepo:       poolRepo,
		payoutRepo:     payoutRepo,
		settingsRepo:   settingsRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// GetOrCreate resolves the pool's payout settings with lazy defaults
func (s *payoutSettingsService) GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolPayoutSettings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and persists new payout settings
func (s *payoutSettingsService) UpdateSettings(ctx context.Context, actorID int64, settings *entities.PoolPayoutSettings) error {
	if !settings.MinPayoutAmount.IsPositive() {
		return &ValidationError{Violations: []string{"Minimum payout amount must be positive"}}
	}
	if settings.MaxPayoutAmount.LessThan(settings.MinPayoutAmount) {
		return &ValidationError{Violations: []string{"Maximum payout amount cannot be below the minimum"}}
	}
	if settings.ApprovalThreshold.IsNegative() {
		return &ValidationError{Violations: []string{"Approval threshold cannot be negative"}}
	}
	if settings.MaxDailyPayouts < 1 {
		return &ValidationError{Violations: []string{"Daily payout limit must be at least 1"}}
	}

	current, err := s.settingsRepo.GetOrCreate(ctx, settings.PoolID)
	if err != nil {
		return fmt.Errorf("failed to get payout settings: %w", err)
	}
	settings.ID = current.ID

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update payout settings: %w", err)
	}

	if err := s.auditRepo.Record(ctx, &entities.AuditLog{
		PoolID:     settings.PoolID,
		ActorID:    &actorID,
		Action:     "payout_settings.updated",
		EntityType: "pool_payout_settings",
		EntityID:   settings.ID,
		OldValues: map[string]any{
			"max_payout_amount": current.MaxPayoutAmount,
			"min_payout_amount": current.MinPayoutAmount,
			"require_approval":  current.RequireApproval,
			"max_daily_payouts": current.MaxDailyPayouts,
		},
		NewValues: map[string]any{
			"max_payout_amount": settings.MaxPayoutAmount,
			"min_payout_amount": settings.MinPayoutAmount,
			"require_approval":  settings.RequireApproval,
			"max_daily_payouts": settings.MaxDailyPayouts,
		},
	}); err != nil {
		return fmt.Errorf("failed to record settings audit event: %w", err)
	}

	return s.eventPublisher.Publish(events.SettingsUpdatedEvent{
		PoolID:       settings.PoolID,
		SettingsKind: "payout",
		ActorID:      actorID,
	})
}

// ValidateAmount checks a candidate amount against the pool's limits,
// collecting every violation instead of stopping at the first
func (s *payoutSettingsService) ValidateAmount(ctx context.Context, poolID int64, amount decimal.Decimal) (*interfaces.AmountValidation, error) {
	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, ErrPoolNotFound
	}

	settings, err := s.settingsRepo.GetOrCreate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout settings: %w", err)
	}

	var violations []string
	if amount.LessThan(settings.MinPayoutAmount) {
		violations = append(violations, fmt.Sprintf("Amount must be at least %s", settings.MinPayoutAmount))
	}
	if amount.GreaterThan(settings.MaxPayoutAmount) {
		violations = append(violations, fmt.Sprintf("Amount cannot exceed %s", settings.MaxPayoutAmount))
	}
	if amount.GreaterThan(pool.TotalContributed) {
		violations = append(violations, "Amount exceeds pool balance")
	}

	return &interfaces.AmountValidation{
		IsValid: len(violations) == 0,
		Errors:  violations,
	}, nil
}

// CheckDailyLimit counts payouts created in the current calendar day
// (local midnight to midnight) against the configured cap
func (s *payoutSettingsService) CheckDailyLimit(ctx context.Context, poolID int64) (*interfaces.DailyLimit, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout settings: %w", err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	used, err := s.payoutRepo.CountCreatedBetween(ctx, poolID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count payouts for daily limit: %w", err)
	}

	return &interfaces.DailyLimit{
		Limit:     settings.MaxDailyPayouts,
		Used:      used,
		Remaining: settings.MaxDailyPayouts - used,
		Exceeded:  used >= settings.MaxDailyPayouts,
	}, nil
}
