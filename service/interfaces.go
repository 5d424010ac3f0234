package service

import (
	"context"

	"bolao/events"
	"bolao/gateway"
	"bolao/models"
)

// ContestRepository defines the interface for contest data access and the
// quota ledger
type ContestRepository interface {
	// Create creates a new contest
	Create(ctx context.Context, contest *models.Contest) error

	// GetByID retrieves a contest by its ID
	GetByID(ctx context.Context, id string) (*models.Contest, error)

	// GetAll returns all contests, newest first
	GetAll(ctx context.Context) ([]*models.Contest, error)

	// UpdateStatus updates a contest's status and optionally its drawn numbers
	UpdateStatus(ctx context.Context, id string, status models.ContestStatus, drawnNumbers []int32) error

	// ReserveQuotas atomically increments the quota counter if capacity allows;
	// returns true when the contest reached capacity
	ReserveQuotas(ctx context.Context, contestID string, quantity int64) (bool, error)

	// ReleaseQuotas returns previously reserved quotas to the pool
	ReleaseQuotas(ctx context.Context, contestID string, quantity int64) error
}

// ParticipationRepository defines the interface for participation data access
type ParticipationRepository interface {
	// Merge creates the (user, contest) row or sums quotas and amount onto it;
	// returns true when the row was created
	Merge(ctx context.Context, participation *models.Participation) (bool, error)

	// GetByID retrieves a participation by its ID
	GetByID(ctx context.Context, id string) (*models.Participation, error)

	// GetByUserAndContest retrieves the single row a user holds in a contest
	GetByUserAndContest(ctx context.Context, userID, contestID string) (*models.Participation, error)

	// GetByContest returns all participations for a contest
	GetByContest(ctx context.Context, contestID string) ([]*models.Participation, error)

	// Update overwrites a participation (admin edit)
	Update(ctx context.Context, participation *models.Participation) error

	// Delete removes a participation (admin only)
	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines the interface for payment record data access
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *models.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id string) (*models.Payment, error)

	// GetBySessionID retrieves a payment by its gateway checkout-session ID
	GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)

	// GetByContest returns all payments for a contest
	GetByContest(ctx context.Context, contestID string) ([]*models.Payment, error)

	// SetCheckoutSession records the gateway session ID on a payment
	SetCheckoutSession(ctx context.Context, id, sessionID string) error

	// MarkPaid transitions pending -> paid; false means it was not pending
	MarkPaid(ctx context.Context, id string, paymentIntentID *string) (bool, error)

	// MarkClosed transitions pending -> cancelled | expired; false means it
	// was not pending
	MarkClosed(ctx context.Context, id string, status models.PaymentStatus) (bool, error)
}

// AdminConfigRepository defines the interface for the singleton admin config
type AdminConfigRepository interface {
	// Get returns the singleton configuration row
	Get(ctx context.Context) (*models.AdminConfig, error)

	// Update overwrites the singleton configuration row
	Update(ctx context.Context, config *models.AdminConfig) error
}

// PaymentGateway defines the interface to the external payment provider
type PaymentGateway interface {
	// CreateCheckoutSession opens a checkout session for a purchase
	CreateCheckoutSession(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error)

	// GetSessionStatus fetches the authoritative status of a session
	GetSessionStatus(ctx context.Context, sessionID string) (*gateway.SessionStatus, error)
}

// PurchaseService defines the interface for gateway purchases
type PurchaseService interface {
	// Purchase reserves quotas, records a pending payment and opens a
	// checkout session the buyer must be redirected to
	Purchase(ctx context.Context, userID, contestID string, quotaCount int64, chosenNumbers []int32) (*models.PurchaseResult, error)
}

// ReconciliationService defines the interface for payment reconciliation
type ReconciliationService interface {
	// Verify fetches the gateway's authoritative status for a session and
	// reconciles the internal payment record, merging quotas into the
	// participation exactly once per paid transition
	Verify(ctx context.Context, sessionID string) (*models.VerifyResult, error)

	// CancelPayment transitions a pending payment to cancelled and releases
	// its reserved quotas
	CancelPayment(ctx context.Context, paymentID string) error
}

// DistributionService defines the interface for prize-pool distribution reads
type DistributionService interface {
	// GetDistribution computes the prize breakdown for a contest
	GetDistribution(ctx context.Context, contestID string) (*models.Distribution, error)
}

// AdminService defines the interface for administrator operations
type AdminService interface {
	// GrantQuotas assigns quotas to a user without going through the
	// gateway; the payment record is created already paid
	GrantQuotas(ctx context.Context, contestID, userID string, quotaCount int64, chosenNumbers []int32) (*models.Participation, error)

	// GetConfig returns the admin configuration
	GetConfig(ctx context.Context) (*models.AdminConfig, error)

	// UpdateConfig overwrites the admin configuration
	UpdateConfig(ctx context.Context, config *models.AdminConfig) error

	// CreateContest creates a new contest
	CreateContest(ctx context.Context, contest *models.Contest) error

	// ListContests returns all contests
	ListContests(ctx context.Context) ([]*models.Contest, error)

	// GetContest returns one contest
	GetContest(ctx context.Context, contestID string) (*models.Contest, error)

	// UpdateContestStatus moves a contest one step forward in its lifecycle
	UpdateContestStatus(ctx context.Context, contestID string, status models.ContestStatus, drawnNumbers []int32) error

	// ListPayments returns all payment records for a contest
	ListPayments(ctx context.Context, contestID string) ([]*models.Payment, error)

	// ListParticipants returns all participations for a contest
	ListParticipants(ctx context.Context, contestID string) ([]*models.Participation, error)

	// UpdateParticipation overwrites a participation's ticket, quota count and
	// amount, adjusting the contest's quota counter by the difference
	UpdateParticipation(ctx context.Context, participation *models.Participation) error

	// DeleteParticipation removes a participation and releases its quotas
	DeleteParticipation(ctx context.Context, participationID string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	ContestRepository() ContestRepository
	ParticipationRepository() ParticipationRepository
	PaymentRepository() PaymentRepository
	AdminConfigRepository() AdminConfigRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
