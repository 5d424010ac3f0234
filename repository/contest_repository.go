package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ContestRepository implements contest data access, including the quota
// ledger operations
type ContestRepository struct {
	q queryable
}

// NewContestRepository creates a new contest repository
func NewContestRepository(db *database.DB) *ContestRepository {
	return &ContestRepository{q: db.Pool}
}

// newContestRepositoryWithTx creates a new contest repository with a transaction
func newContestRepositoryWithTx(tx queryable) *ContestRepository {
	return &ContestRepository{q: tx}
}

// Create creates a new contest
func (r *ContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	if contest.ID == "" {
		contest.ID = uuid.NewString()
	}
	if contest.Status == "" {
		contest.Status = models.ContestStatusOpen
	}

	query := `
		INSERT INTO contests (id, name, number, draw_date, price_per_quota, max_quotas, status, total_prize)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING quotas_sold, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		contest.ID,
		contest.Name,
		contest.Number,
		contest.DrawDate,
		contest.PricePerQuota,
		contest.MaxQuotas,
		contest.Status,
		contest.TotalPrize,
	).Scan(&contest.QuotasSold, &contest.CreatedAt, &contest.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contest %s: %w", contest.Name, err)
	}

	return nil
}

// GetByID retrieves a contest by its ID
func (r *ContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	query := `
		SELECT id, name, number, draw_date, price_per_quota, max_quotas,
		       quotas_sold, status, drawn_numbers, total_prize, created_at, updated_at
		FROM contests
		WHERE id = $1
	`

	var contest models.Contest
	err := r.q.QueryRow(ctx, query, id).Scan(
		&contest.ID,
		&contest.Name,
		&contest.Number,
		&contest.DrawDate,
		&contest.PricePerQuota,
		&contest.MaxQuotas,
		&contest.QuotasSold,
		&contest.Status,
		&contest.DrawnNumbers,
		&contest.TotalPrize,
		&contest.CreatedAt,
		&contest.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contest %s: %w", id, err)
	}

	return &contest, nil
}

// GetAll returns all contests, newest first
func (r *ContestRepository) GetAll(ctx context.Context) ([]*models.Contest, error) {
	query := `
		SELECT id, name, number, draw_date, price_per_quota, max_quotas,
		       quotas_sold, status, drawn_numbers, total_prize, created_at, updated_at
		FROM contests
		ORDER BY number DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get contests: %w", err)
	}
	defer rows.Close()

	var contests []*models.Contest
	for rows.Next() {
		var contest models.Contest
		err := rows.Scan(
			&contest.ID,
			&contest.Name,
			&contest.Number,
			&contest.DrawDate,
			&contest.PricePerQuota,
			&contest.MaxQuotas,
			&contest.QuotasSold,
			&contest.Status,
			&contest.DrawnNumbers,
			&contest.TotalPrize,
			&contest.CreatedAt,
			&contest.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, &contest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contests: %w", err)
	}

	return contests, nil
}

// UpdateStatus updates a contest's status and, for the drawn transition,
// records the drawn numbers
func (r *ContestRepository) UpdateStatus(ctx context.Context, id string, status models.ContestStatus, drawnNumbers []int32) error {
	query := `
		UPDATE contests
		SET status = $1, drawn_numbers = COALESCE($2, drawn_numbers), updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, status, drawnNumbers, id)
	if err != nil {
		return fmt.Errorf("failed to update status for contest %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrContestNotFound
	}

	return nil
}

// ReserveQuotas atomically increments the quota counter if capacity allows.
// Concurrent purchases serialize on this row update; the loser of a race for
// the last quota gets InsufficientCapacityError. Returns true when the
// reservation took the contest to capacity.
func (r *ContestRepository) ReserveQuotas(ctx context.Context, contestID string, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity must be positive")
	}

	query := `
		UPDATE contests
		SET quotas_sold = quotas_sold + $1, updated_at = NOW()
		WHERE id = $2 AND status = 'open' AND quotas_sold + $1 <= max_quotas
		RETURNING quotas_sold, max_quotas
	`

	var quotasSold, maxQuotas int64
	err := r.q.QueryRow(ctx, query, quantity, contestID).Scan(&quotasSold, &maxQuotas)
	if err == nil {
		return quotasSold == maxQuotas, nil
	}
	if err != pgx.ErrNoRows {
		return false, fmt.Errorf("failed to reserve %d quotas on contest %s: %w", quantity, contestID, err)
	}

	// The guarded update matched nothing; find out why
	contest, err := r.GetByID(ctx, contestID)
	if err != nil {
		return false, fmt.Errorf("failed to check contest after reservation miss: %w", err)
	}
	if contest == nil {
		return false, models.ErrContestNotFound
	}
	if !contest.IsOpen() {
		return false, models.ErrContestNotOpen
	}
	if contest.QuotasSold > contest.MaxQuotas {
		return false, &models.IntegrityError{
			ContestID:  contestID,
			QuotasSold: contest.QuotasSold,
			MaxQuotas:  contest.MaxQuotas,
		}
	}
	return false, &models.InsufficientCapacityError{
		ContestID: contestID,
		Requested: quantity,
		Available: contest.QuotasAvailable(),
	}
}

// ReleaseQuotas returns previously reserved quotas to the pool. Used when a
// pending payment is cancelled or expires, or a participation is deleted.
func (r *ContestRepository) ReleaseQuotas(ctx context.Context, contestID string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	query := `
		UPDATE contests
		SET quotas_sold = GREATEST(quotas_sold - $1, 0), updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, quantity, contestID)
	if err != nil {
		return fmt.Errorf("failed to release %d quotas on contest %s: %w", quantity, contestID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrContestNotFound
	}

	return nil
}
