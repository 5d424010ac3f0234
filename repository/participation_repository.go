package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ParticipationRepository implements participation data access
type ParticipationRepository struct {
	q queryable
}

// NewParticipationRepository creates a new participation repository
func NewParticipationRepository(db *database.DB) *ParticipationRepository {
	return &ParticipationRepository{q: db.Pool}
}

// newParticipationRepositoryWithTx creates a new participation repository with a transaction
func newParticipationRepositoryWithTx(tx queryable) *ParticipationRepository {
	return &ParticipationRepository{q: tx}
}

// Merge creates the participation row for (user, contest) or, if one already
// exists, sums the quota count and amount onto it. The upsert rides on the
// unique constraint, so two concurrent writers for the same user cannot
// create duplicate rows; the second simply merges. Returns true when the row
// was created by this call. On update the stored chosen numbers are kept and
// the passed ones ignored.
func (r *ParticipationRepository) Merge(ctx context.Context, participation *models.Participation) (bool, error) {
	if participation.ID == "" {
		participation.ID = uuid.NewString()
	}

	query := `
		INSERT INTO participations (id, user_id, contest_id, chosen_numbers, quota_count, amount_paid)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, contest_id)
		DO UPDATE SET
			quota_count = participations.quota_count + EXCLUDED.quota_count,
			amount_paid = participations.amount_paid + EXCLUDED.amount_paid,
			updated_at = NOW()
		RETURNING id, chosen_numbers, quota_count, amount_paid, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.q.QueryRow(ctx, query,
		participation.ID,
		participation.UserID,
		participation.ContestID,
		participation.ChosenNumbers,
		participation.QuotaCount,
		participation.AmountPaid,
	).Scan(
		&participation.ID,
		&participation.ChosenNumbers,
		&participation.QuotaCount,
		&participation.AmountPaid,
		&participation.CreatedAt,
		&participation.UpdatedAt,
		&inserted,
	)

	if err != nil {
		return false, fmt.Errorf("failed to merge participation for user %s in contest %s: %w",
			participation.UserID, participation.ContestID, err)
	}

	return inserted, nil
}

// GetByID retrieves a participation by its ID
func (r *ParticipationRepository) GetByID(ctx context.Context, id string) (*models.Participation, error) {
	query := `
		SELECT id, user_id, contest_id, chosen_numbers, quota_count, amount_paid, created_at, updated_at
		FROM participations
		WHERE id = $1
	`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByUserAndContest retrieves the single row a user holds in a contest
func (r *ParticipationRepository) GetByUserAndContest(ctx context.Context, userID, contestID string) (*models.Participation, error) {
	query := `
		SELECT id, user_id, contest_id, chosen_numbers, quota_count, amount_paid, created_at, updated_at
		FROM participations
		WHERE user_id = $1 AND contest_id = $2
	`
	return r.scanOne(r.q.QueryRow(ctx, query, userID, contestID))
}

// GetByContest returns all participations for a contest, oldest first
func (r *ParticipationRepository) GetByContest(ctx context.Context, contestID string) ([]*models.Participation, error) {
	query := `
		SELECT id, user_id, contest_id, chosen_numbers, quota_count, amount_paid, created_at, updated_at
		FROM participations
		WHERE contest_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations for contest %s: %w", contestID, err)
	}
	defer rows.Close()

	var participations []*models.Participation
	for rows.Next() {
		var p models.Participation
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.ContestID,
			&p.ChosenNumbers,
			&p.QuotaCount,
			&p.AmountPaid,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participations = append(participations, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}

	return participations, nil
}

// Update overwrites a participation's numbers, quota count and amount.
// Admin-only; the engine itself only ever merges.
func (r *ParticipationRepository) Update(ctx context.Context, participation *models.Participation) error {
	query := `
		UPDATE participations
		SET chosen_numbers = $1, quota_count = $2, amount_paid = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query,
		participation.ChosenNumbers,
		participation.QuotaCount,
		participation.AmountPaid,
		participation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participation %s: %w", participation.ID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrParticipationNotFound
	}

	return nil
}

// Delete removes a participation. Only explicit admin deletion reaches here.
func (r *ParticipationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.Exec(ctx, `DELETE FROM participations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participation %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrParticipationNotFound
	}

	return nil
}

func (r *ParticipationRepository) scanOne(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ContestID,
		&p.ChosenNumbers,
		&p.QuotaCount,
		&p.AmountPaid,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participation: %w", err)
	}

	return &p, nil
}
