package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PayoutSettingsRepository implements the PayoutSettingsRepository interface
type PayoutSettingsRepository struct {
	q Queryable
}

// NewPayoutSettingsRepository creates a new payout settings repository
func NewPayoutSettingsRepository(db *database.DB) *PayoutSettingsRepository {
	return &PayoutSettingsRepository{q: db.Pool}
}

// NewPayoutSettingsRepositoryWithTx creates a new payout settings repository bound to a transaction
func NewPayoutSettingsRepositoryWithTx(tx Queryable) *PayoutSettingsRepository {
	return &PayoutSettingsRepository{q: tx}
}

const payoutSettingsColumns = `id, pool_id, max_payout_amount, min_payout_amount, require_approval,
	approval_threshold, max_daily_payouts, allowed_payout_methods, created_at, updated_at`

func scanPayoutSettings(row pgx.Row) (*entities.PoolPayoutSettings, error) {
	var s entities.PoolPayoutSettings
	err := row.Scan(
		&s.ID,
		&s.PoolID,
		&s.MaxPayoutAmount,
		&s.MinPayoutAmount,
		&s.RequireApproval,
		&s.ApprovalThreshold,
		&s.MaxDailyPayouts,
		&s.AllowedPayoutMethods,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreate retrieves the pool's payout settings, inserting the defaults
// on first access. The column defaults in the schema match
// entities.DefaultPayoutSettings.
func (r *PayoutSettingsRepository) GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolPayoutSettings, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_payout_settings WHERE pool_id = $1`, payoutSettingsColumns)

	settings, err := scanPayoutSettings(r.q.QueryRow(ctx, query, poolID))
	if err == nil {
		return settings, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get payout settings for pool %d: %w", poolID, err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO pool_payout_settings (pool_id)
		VALUES ($1)
		ON CONFLICT (pool_id) DO UPDATE SET pool_id = EXCLUDED.pool_id
		RETURNING %s
	`, payoutSettingsColumns)

	settings, err = scanPayoutSettings(r.q.QueryRow(ctx, insertQuery, poolID))
	if err != nil {
		return nil, fmt.Errorf("failed to create payout settings for pool %d: %w", poolID, err)
	}
	return settings, nil
}

// Update persists new payout settings for a pool
func (r *PayoutSettingsRepository) Update(ctx context.Context, settings *entities.PoolPayoutSettings) error {
	query := `
		UPDATE pool_payout_settings
		SET max_payout_amount = $2,
		    min_payout_amount = $3,
		    require_approval = $4,
		    approval_threshold = $5,
		    max_daily_payouts = $6,
		    allowed_payout_methods = $7,
		    updated_at = NOW()
		WHERE pool_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.PoolID,
		settings.MaxPayoutAmount,
		settings.MinPayoutAmount,
		settings.RequireApproval,
		settings.ApprovalThreshold,
		settings.MaxDailyPayouts,
		settings.AllowedPayoutMethods,
	)

	if err != nil {
		return fmt.Errorf("failed to update payout settings for pool %d: %w", settings.PoolID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payout settings for pool %d not found", settings.PoolID)
	}
	return nil
}
