package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"
)

// AdminConfigRepository implements access to the singleton administrator
// configuration row
type AdminConfigRepository struct {
	q queryable
}

// NewAdminConfigRepository creates a new admin config repository
func NewAdminConfigRepository(db *database.DB) *AdminConfigRepository {
	return &AdminConfigRepository{q: db.Pool}
}

// newAdminConfigRepositoryWithTx creates a new admin config repository with a transaction
func newAdminConfigRepositoryWithTx(tx queryable) *AdminConfigRepository {
	return &AdminConfigRepository{q: tx}
}

// Get returns the singleton configuration row. The row is seeded by the
// initial migration, so it always exists.
func (r *AdminConfigRepository) Get(ctx context.Context) (*models.AdminConfig, error) {
	query := `
		SELECT commission_percent, free_quota_count, operator_user_id, updated_at
		FROM configuracoes_admin
		WHERE id = 1
	`

	var config models.AdminConfig
	err := r.q.QueryRow(ctx, query).Scan(
		&config.CommissionPercent,
		&config.FreeQuotaCount,
		&config.OperatorUserID,
		&config.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get admin config: %w", err)
	}

	return &config, nil
}

// Update overwrites the singleton configuration row
func (r *AdminConfigRepository) Update(ctx context.Context, config *models.AdminConfig) error {
	query := `
		UPDATE configuracoes_admin
		SET commission_percent = $1, free_quota_count = $2, operator_user_id = $3, updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		config.CommissionPercent,
		config.FreeQuotaCount,
		config.OperatorUserID,
	).Scan(&config.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update admin config: %w", err)
	}

	return nil
}
