package repository

import (
	"context"
	"fmt"

	"poolpay/database"
	"poolpay/domain/entities"

	"github.com/jackc/pgx/v5"
)

// VotingSettingsRepository implements the VotingSettingsRepository interface
type VotingSettingsRepository struct {
	q Queryable
}

// NewVotingSettingsRepository creates a new voting settings repository
func NewVotingSettingsRepository(db *database.DB) *VotingSettingsRepository {
	return &VotingSettingsRepository{q: db.Pool}
}

// NewVotingSettingsRepositoryWithTx creates a new voting settings repository bound to a transaction
func NewVotingSettingsRepositoryWithTx(tx Queryable) *VotingSettingsRepository {
	return &VotingSettingsRepository{q: tx}
}

const votingSettingsColumns = `id, pool_id, voting_enabled, voting_threshold, voting_duration_hours,
	min_voters, voting_type, auto_approve, allow_abstain, require_quorum, quorum_percentage,
	created_at, updated_at`

func scanVotingSettings(row pgx.Row) (*entities.PoolVotingSettings, error) {
	var s entities.PoolVotingSettings
	err := row.Scan(
		&s.ID,
		&s.PoolID,
		&s.VotingEnabled,
		&s.VotingThreshold,
		&s.VotingDurationHours,
		&s.MinVoters,
		&s.VotingType,
		&s.AutoApprove,
		&s.AllowAbstain,
		&s.RequireQuorum,
		&s.QuorumPercentage,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreate retrieves the pool's voting settings, inserting the defaults
// on first access. The column defaults in the schema match
// entities.DefaultVotingSettings.
func (r *VotingSettingsRepository) GetOrCreate(ctx context.Context, poolID int64) (*entities.PoolVotingSettings, error) {
	query := fmt.Sprintf(`SELECT %s FROM pool_voting_settings WHERE pool_id = $1`, votingSettingsColumns)

	settings, err := scanVotingSettings(r.q.QueryRow(ctx, query, poolID))
	if err == nil {
		return settings, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get voting settings for pool %d: %w", poolID, err)
	}

	// Idempotent insert so concurrent first accesses both see the same row.
	insertQuery := fmt.Sprintf(`
		INSERT INTO pool_voting_settings (pool_id)
		VALUES ($1)
		ON CONFLICT (pool_id) DO UPDATE SET pool_id = EXCLUDED.pool_id
		RETURNING %s
	`, votingSettingsColumns)

	settings, err = scanVotingSettings(r.q.QueryRow(ctx, insertQuery, poolID))
	if err != nil {
		return nil, fmt.Errorf("failed to create voting settings for pool %d: %w", poolID, err)
	}
	return settings, nil
}

// Update persists new voting settings for a pool
func (r *VotingSettingsRepository) Update(ctx context.Context, settings *entities.PoolVotingSettings) error {
	query := `
		UPDATE pool_voting_settings
		SET voting_enabled = $2,
		    voting_threshold = $3,
		    voting_duration_hours = $4,
		    min_voters = $5,
		    voting_type = $6,
		    auto_approve = $7,
		    allow_abstain = $8,
		    require_quorum = $9,
		    quorum_percentage = $10,
		    updated_at = NOW()
		WHERE pool_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.PoolID,
		settings.VotingEnabled,
		settings.VotingThreshold,
		settings.VotingDurationHours,
		settings.MinVoters,
		settings.VotingType,
		settings.AutoApprove,
		settings.AllowAbstain,
		settings.RequireQuorum,
		settings.QuorumPercentage,
	)

	if err != nil {
		return fmt.Errorf("failed to update voting settings for pool %d: %w", settings.PoolID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("voting settings for pool %d not found", settings.PoolID)
	}
	return nil
}
