package services

import (
	"context"
	"testing"

	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPayoutSettingsService_ValidateAmount(t *testing.T) {
	settings := entities.DefaultPayoutSettings(1)
	settings.MinPayoutAmount = decimal.NewFromInt(1)
	settings.MaxPayoutAmount = decimal.NewFromInt(500)

	tests := []struct {
		name               string
		amount             decimal.Decimal
		poolBalance        int64
		expectedValid      bool
		expectedViolations []string
	}{
		{
			name:          "amount within every limit",
			amount:        decimal.NewFromInt(200),
			poolBalance:   1000,
			expectedValid: true,
		},
		{
			name:               "amount above the per-payout maximum",
			amount:             decimal.NewFromInt(600),
			poolBalance:        1000,
			expectedValid:      false,
			expectedViolations: []string{"Amount cannot exceed 500"},
		},
		{
			name:               "amount below the minimum",
			amount:             decimal.NewFromFloat(0.5),
			poolBalance:        1000,
			expectedValid:      false,
			expectedViolations: []string{"Amount must be at least 1"},
		},
		{
			name:               "amount exceeds the pool balance",
			amount:             decimal.NewFromInt(400),
			poolBalance:        300,
			expectedValid:      false,
			expectedViolations: []string{"Amount exceeds pool balance"},
		},
		{
			name:          "every violation is collected",
			amount:        decimal.NewFromInt(600),
			poolBalance:   100,
			expectedValid: false,
			expectedViolations: []string{
				"Amount cannot exceed 500",
				"Amount exceeds pool balance",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := NewPayoutSettingsService(
				mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

			mocks.PoolRepo.On("GetByID", mock.Anything, int64(1)).
				Return(TestPool(1, decimal.NewFromInt(tt.poolBalance)), nil)
			mocks.PayoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).
				Return(settings, nil)

			validation, err := service.ValidateAmount(context.Background(), 1, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedValid, validation.IsValid)
			assert.Equal(t, tt.expectedViolations, validation.Errors)
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestPayoutSettingsService_ValidateAmount_PoolNotFound(t *testing.T) {
	mocks := NewTestMocks()
	service := NewPayoutSettingsService(
		mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

	mocks.PoolRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	_, err := service.ValidateAmount(context.Background(), 99, decimal.NewFromInt(10))

	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestPayoutSettingsService_CheckDailyLimit(t *testing.T) {
	tests := []struct {
		name              string
		limit             int
		used              int
		expectedExceeded  bool
		expectedRemaining int
	}{
		{name: "under the limit", limit: 10, used: 3, expectedExceeded: false, expectedRemaining: 7},
		{name: "at the limit", limit: 2, used: 2, expectedExceeded: true, expectedRemaining: 0},
		{name: "nothing used yet", limit: 5, used: 0, expectedExceeded: false, expectedRemaining: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := NewTestMocks()
			service := NewPayoutSettingsService(
				mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

			settings := entities.DefaultPayoutSettings(1)
			settings.MaxDailyPayouts = tt.limit
			mocks.PayoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(settings, nil)
			mocks.PayoutRepo.On("CountCreatedBetween", mock.Anything, int64(1), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
				Return(tt.used, nil)

			limit, err := service.CheckDailyLimit(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, tt.limit, limit.Limit)
			assert.Equal(t, tt.used, limit.Used)
			assert.Equal(t, tt.expectedRemaining, limit.Remaining)
			assert.Equal(t, tt.expectedExceeded, limit.Exceeded)
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestPayoutSettingsService_UpdateSettings(t *testing.T) {
	t.Run("rejects inverted min and max", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewPayoutSettingsService(
			mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

		settings := entities.DefaultPayoutSettings(1)
		settings.MinPayoutAmount = decimal.NewFromInt(100)
		settings.MaxPayoutAmount = decimal.NewFromInt(50)

		err := service.UpdateSettings(context.Background(), 100, settings)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Violations, "Maximum payout amount cannot be below the minimum")
		mocks.PayoutSettingsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects a zero daily limit", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewPayoutSettingsService(
			mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

		settings := entities.DefaultPayoutSettings(1)
		settings.MaxDailyPayouts = 0

		err := service.UpdateSettings(context.Background(), 100, settings)

		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, ve.Violations, "Daily payout limit must be at least 1")
	})

	t.Run("persists valid settings with an audit trail", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewPayoutSettingsService(
			mocks.PoolRepo, mocks.PayoutRepo, mocks.PayoutSettingsRepo, mocks.AuditRepo, mocks.EventPublisher)

		current := entities.DefaultPayoutSettings(1)
		current.ID = 42
		updated := entities.DefaultPayoutSettings(1)
		updated.MaxPayoutAmount = decimal.NewFromInt(2000)

		mocks.PayoutSettingsRepo.On("GetOrCreate", mock.Anything, int64(1)).Return(current, nil)
		mocks.PayoutSettingsRepo.On("Update", mock.Anything, updated).Return(nil)
		mocks.AuditRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.AuditLog")).Return(nil)

		err := service.UpdateSettings(context.Background(), 100, updated)

		require.NoError(t, err)
		assert.Equal(t, int64(42), updated.ID)
		require.Len(t, mocks.EventPublisher.Events, 1)
		mocks.AssertAllExpectations(t)
	})
}
