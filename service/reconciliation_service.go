package service

import (
	"context"
	"fmt"

	"bolao/events"
	"bolao/models"

	log "github.com/sirupsen/logrus"
)

// ReconciliationConfig names the policies the engine follows when merging
// a confirmed payment into a participation
type ReconciliationConfig struct {
	// AutoAssignNumbers makes the engine draw a ticket for purchases that
	// collected no number choice. When off, such a payment fails the merge
	// and stays pending until numbers are supplied.
	AutoAssignNumbers bool
}

type reconciliationService struct {
	uowFactory UnitOfWorkFactory
	gateway    PaymentGateway
	config     ReconciliationConfig
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(uowFactory UnitOfWorkFactory, gw PaymentGateway, config ReconciliationConfig) ReconciliationService {
	return &reconciliationService{
		uowFactory: uowFactory,
		gateway:    gw,
		config:     config,
	}
}

// Verify reconciles a payment record against the gateway's authoritative
// status. Safe to call any number of times for the same session: the
// pending -> paid transition is guarded in the database, and only the call
// that wins the transition performs the participation merge. An unpaid
// session is a normal state, not an error.
func (s *reconciliationService) Verify(ctx context.Context, sessionID string) (*models.VerifyResult, error) {
	payment, err := s.getBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, models.ErrPaymentNotFound
	}

	// The gateway call stays outside any transaction; a timeout here must
	// not hold locks and never changes payment state
	status, err := s.gateway.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sessionId":      sessionID,
		"paymentId":      payment.ID,
		"gatewayStatus":  status.PaymentStatus,
		"internalStatus": payment.Status,
	}).Info("Verifying payment")

	switch status.PaymentStatus {
	case models.GatewayStatusPaid:
		return s.settle(ctx, payment, status.PaymentIntentID)
	case models.GatewayStatusExpired:
		return s.expire(ctx, payment)
	default:
		// Still unpaid: the record stays pending and the caller may re-verify
		return &models.VerifyResult{
			PaymentID:      payment.ID,
			GatewayStatus:  status.PaymentStatus,
			InternalStatus: payment.Status,
		}, nil
	}
}

// settle transitions the payment to paid and merges its quotas into the
// participation, all in one transaction. Losing the transition guard means
// another caller already reconciled this payment; that is a success.
func (s *reconciliationService) settle(ctx context.Context, payment *models.Payment, paymentIntentID string) (*models.VerifyResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var intentID *string
	if paymentIntentID != "" {
		intentID = &paymentIntentID
	}

	merged, err := uow.PaymentRepository().MarkPaid(ctx, payment.ID, intentID)
	if err != nil {
		return nil, err
	}

	if merged {
		if err := s.merge(ctx, uow, payment); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if !merged {
		log.WithField("paymentId", payment.ID).Info("Payment already reconciled, no-op")
	}

	return &models.VerifyResult{
		PaymentID:      payment.ID,
		GatewayStatus:  models.GatewayStatusPaid,
		InternalStatus: models.PaymentStatusPaid,
		Merged:         merged,
	}, nil
}

// merge executes the one-time merge step for a payment that just won the
// paid transition
func (s *reconciliationService) merge(ctx context.Context, uow UnitOfWork, payment *models.Payment) error {
	config, err := uow.AdminConfigRepository().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get admin config: %w", err)
	}

	numbers := payment.ChosenNumbers
	if numbers == nil {
		if !s.config.AutoAssignNumbers {
			return models.ErrNumbersRequired
		}
		numbers = GenerateTicketNumbers()
	}

	// House quotas count toward shares but never toward revenue
	amount := payment.Amount
	if config.IsOperator(payment.UserID) {
		amount = 0
	}

	participation := &models.Participation{
		UserID:        payment.UserID,
		ContestID:     payment.ContestID,
		ChosenNumbers: numbers,
		QuotaCount:    payment.QuotaCount,
		AmountPaid:    amount,
	}

	created, err := uow.ParticipationRepository().Merge(ctx, participation)
	if err != nil {
		return err
	}

	uow.EventBus().Publish(events.PaymentConfirmedEvent{
		PaymentID:  payment.ID,
		UserID:     payment.UserID,
		ContestID:  payment.ContestID,
		QuotaCount: payment.QuotaCount,
		Amount:     amount,
	})
	uow.EventBus().Publish(events.ParticipationMergedEvent{
		ParticipationID: participation.ID,
		UserID:          payment.UserID,
		ContestID:       payment.ContestID,
		QuotasAdded:     payment.QuotaCount,
		TotalQuotas:     participation.QuotaCount,
		Created:         created,
	})

	return nil
}

// expire closes a pending payment the gateway reports as expired and
// returns its reserved quotas to the pool
func (s *reconciliationService) expire(ctx context.Context, payment *models.Payment) (*models.VerifyResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	closed, err := uow.PaymentRepository().MarkClosed(ctx, payment.ID, models.PaymentStatusExpired)
	if err != nil {
		return nil, err
	}

	internalStatus := payment.Status
	if closed {
		internalStatus = models.PaymentStatusExpired
		if err := uow.ContestRepository().ReleaseQuotas(ctx, payment.ContestID, payment.QuotaCount); err != nil {
			return nil, err
		}
		uow.EventBus().Publish(events.PaymentClosedEvent{
			PaymentID:      payment.ID,
			ContestID:      payment.ContestID,
			QuotasReleased: payment.QuotaCount,
			FinalStatus:    string(models.PaymentStatusExpired),
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.VerifyResult{
		PaymentID:      payment.ID,
		GatewayStatus:  models.GatewayStatusExpired,
		InternalStatus: internalStatus,
	}, nil
}

// CancelPayment transitions a pending payment to cancelled and releases its
// reserved quotas. A paid record never moves backward.
func (s *reconciliationService) CancelPayment(ctx context.Context, paymentID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return models.ErrPaymentNotFound
	}

	closed, err := uow.PaymentRepository().MarkClosed(ctx, paymentID, models.PaymentStatusCancelled)
	if err != nil {
		return err
	}
	if !closed {
		return fmt.Errorf("payment %s is not pending (status %s)", paymentID, payment.Status)
	}

	if err := uow.ContestRepository().ReleaseQuotas(ctx, payment.ContestID, payment.QuotaCount); err != nil {
		return err
	}

	uow.EventBus().Publish(events.PaymentClosedEvent{
		PaymentID:      payment.ID,
		ContestID:      payment.ContestID,
		QuotasReleased: payment.QuotaCount,
		FinalStatus:    string(models.PaymentStatusCancelled),
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *reconciliationService) getBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return payment, nil
}
