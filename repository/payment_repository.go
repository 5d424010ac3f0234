package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements payment record data access
type PaymentRepository struct {
	q queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// newPaymentRepositoryWithTx creates a new payment repository with a transaction
func newPaymentRepositoryWithTx(tx queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	query := `
		INSERT INTO pagamentos (id, user_id, contest_id, quota_count, amount, payment_method,
		                        status, chosen_numbers, checkout_session_id, payment_intent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		payment.ID,
		payment.UserID,
		payment.ContestID,
		payment.QuotaCount,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.ChosenNumbers,
		payment.CheckoutSessionID,
		payment.PaymentIntentID,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment for user %s: %w", payment.UserID, err)
	}

	return nil
}

// GetByID retrieves a payment by its ID
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.scanOne(r.q.QueryRow(ctx, r.selectQuery("id = $1"), id))
}

// GetBySessionID retrieves a payment by its gateway checkout-session ID
func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	return r.scanOne(r.q.QueryRow(ctx, r.selectQuery("checkout_session_id = $1"), sessionID))
}

// GetByContest returns all payments for a contest, newest first
func (r *PaymentRepository) GetByContest(ctx context.Context, contestID string) ([]*models.Payment, error) {
	rows, err := r.q.Query(ctx, r.selectQuery("contest_id = $1")+" ORDER BY created_at DESC", contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments for contest %s: %w", contestID, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// SetCheckoutSession records the gateway session ID on a payment
func (r *PaymentRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	query := `
		UPDATE pagamentos
		SET checkout_session_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, sessionID, id)
	if err != nil {
		return fmt.Errorf("failed to set checkout session on payment %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrPaymentNotFound
	}

	return nil
}

// MarkPaid transitions a payment from pending to paid. Returns false when
// the payment was not pending, which is how re-delivered webhooks and
// concurrent verifications collapse into a no-op: only the caller that
// observes true performs the participation merge.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paymentIntentID *string) (bool, error) {
	query := `
		UPDATE pagamentos
		SET status = 'paid', payment_intent_id = COALESCE($1, payment_intent_id), updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, paymentIntentID, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment %s paid: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkClosed transitions a pending payment to cancelled or expired. Returns
// false when the payment was not pending; a paid record never moves backward.
func (r *PaymentRepository) MarkClosed(ctx context.Context, id string, status models.PaymentStatus) (bool, error) {
	if status != models.PaymentStatusCancelled && status != models.PaymentStatusExpired {
		return false, fmt.Errorf("invalid terminal status %q", status)
	}

	query := `
		UPDATE pagamentos
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to close payment %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *PaymentRepository) selectQuery(where string) string {
	return `
		SELECT id, user_id, contest_id, quota_count, amount, payment_method,
		       status, chosen_numbers, checkout_session_id, payment_intent_id, created_at, updated_at
		FROM pagamentos
		WHERE ` + where
}

func (r *PaymentRepository) scanOne(row pgx.Row) (*models.Payment, error) {
	payment, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (r *PaymentRepository) scanRow(rows pgx.Rows) (*models.Payment, error) {
	payment, err := scanPayment(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return payment, nil
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ContestID,
		&p.QuotaCount,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.ChosenNumbers,
		&p.CheckoutSessionID,
		&p.PaymentIntentID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
