package service

import (
	"context"

	"bolao/events"
	"bolao/gateway"
	"bolao/models"

	"github.com/stretchr/testify/mock"
)

// MockContestRepository is a mock implementation of ContestRepository
type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	args := m.Called(ctx, contest)
	return args.Error(0)
}

func (m *MockContestRepository) GetByID(ctx context.Context, id string) (*models.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contest), args.Error(1)
}

func (m *MockContestRepository) GetAll(ctx context.Context) ([]*models.Contest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contest), args.Error(1)
}

func (m *MockContestRepository) UpdateStatus(ctx context.Context, id string, status models.ContestStatus, drawnNumbers []int32) error {
	args := m.Called(ctx, id, status, drawnNumbers)
	return args.Error(0)
}

func (m *MockContestRepository) ReserveQuotas(ctx context.Context, contestID string, quantity int64) (bool, error) {
	args := m.Called(ctx, contestID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockContestRepository) ReleaseQuotas(ctx context.Context, contestID string, quantity int64) error {
	args := m.Called(ctx, contestID, quantity)
	return args.Error(0)
}

// MockParticipationRepository is a mock implementation of ParticipationRepository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Merge(ctx context.Context, participation *models.Participation) (bool, error) {
	args := m.Called(ctx, participation)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipationRepository) GetByID(ctx context.Context, id string) (*models.Participation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetByUserAndContest(ctx context.Context, userID, contestID string) (*models.Participation, error) {
	args := m.Called(ctx, userID, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetByContest(ctx context.Context, contestID string) ([]*models.Participation, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participation), args.Error(1)
}

func (m *MockParticipationRepository) Update(ctx context.Context, participation *models.Participation) error {
	args := m.Called(ctx, participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByContest(ctx context.Context, contestID string) ([]*models.Payment, error) {
	args := m.Called(ctx, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SetCheckoutSession(ctx context.Context, id, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id string, paymentIntentID *string) (bool, error) {
	args := m.Called(ctx, id, paymentIntentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkClosed(ctx context.Context, id string, status models.PaymentStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

// MockAdminConfigRepository is a mock implementation of AdminConfigRepository
type MockAdminConfigRepository struct {
	mock.Mock
}

func (m *MockAdminConfigRepository) Get(ctx context.Context) (*models.AdminConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminConfig), args.Error(1)
}

func (m *MockAdminConfigRepository) Update(ctx context.Context, config *models.AdminConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) GetSessionStatus(ctx context.Context, sessionID string) (*gateway.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.SessionStatus), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher that
// records published events
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	contestRepo       ContestRepository
	participationRepo ParticipationRepository
	paymentRepo       PaymentRepository
	adminConfigRepo   AdminConfigRepository
	publisher         EventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	contestRepo ContestRepository,
	participationRepo ParticipationRepository,
	paymentRepo PaymentRepository,
	adminConfigRepo AdminConfigRepository,
) {
	m.contestRepo = contestRepo
	m.participationRepo = participationRepo
	m.paymentRepo = paymentRepo
	m.adminConfigRepo = adminConfigRepo
	m.publisher = &MockEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ContestRepository() ContestRepository {
	return m.contestRepo
}

func (m *MockUnitOfWork) ParticipationRepository() ParticipationRepository {
	return m.participationRepo
}

func (m *MockUnitOfWork) PaymentRepository() PaymentRepository {
	return m.paymentRepo
}

func (m *MockUnitOfWork) AdminConfigRepository() AdminConfigRepository {
	return m.adminConfigRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
