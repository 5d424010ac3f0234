package service

import (
	"context"
	"fmt"

	"bolao/events"
	"bolao/gateway"
	"bolao/models"

	log "github.com/sirupsen/logrus"
)

type purchaseService struct {
	uowFactory UnitOfWorkFactory
	gateway    PaymentGateway
	successURL string
	cancelURL  string
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(uowFactory UnitOfWorkFactory, gw PaymentGateway, successURL, cancelURL string) PurchaseService {
	return &purchaseService{
		uowFactory: uowFactory,
		gateway:    gw,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// Purchase reserves quotas and opens a gateway checkout session. The
// reservation and the pending payment record are one transaction, so a
// capacity rejection leaves no trace; gateway failure after the commit
// compensates by cancelling the record and releasing the quotas.
func (s *purchaseService) Purchase(ctx context.Context, userID, contestID string, quotaCount int64, chosenNumbers []int32) (*models.PurchaseResult, error) {
	if quotaCount <= 0 {
		return nil, fmt.Errorf("quota count must be positive")
	}
	if chosenNumbers != nil && !models.ValidTicket(chosenNumbers) {
		return nil, models.ErrInvalidTicket
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contest, err := uow.ContestRepository().GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	if contest == nil {
		return nil, models.ErrContestNotFound
	}
	if !contest.IsOpen() {
		return nil, models.ErrContestNotOpen
	}

	soldOut, err := uow.ContestRepository().ReserveQuotas(ctx, contestID, quotaCount)
	if err != nil {
		return nil, err
	}

	config, err := uow.AdminConfigRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin config: %w", err)
	}

	// The operator's own purchases are recorded with amount 0: house quotas
	// must never count as revenue
	amount := quotaCount * contest.PricePerQuota
	if config.IsOperator(userID) {
		amount = 0
	}

	payment := &models.Payment{
		UserID:        userID,
		ContestID:     contestID,
		QuotaCount:    quotaCount,
		Amount:        amount,
		Method:        models.PaymentMethodGateway,
		Status:        models.PaymentStatusPending,
		ChosenNumbers: chosenNumbers,
	}

	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	if soldOut {
		uow.EventBus().Publish(events.ContestSoldOutEvent{
			ContestID: contestID,
			MaxQuotas: contest.MaxQuotas,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		PaymentID:   payment.ID,
		UserID:      userID,
		ContestID:   contestID,
		Description: fmt.Sprintf("%s - %d cota(s)", contest.Name, quotaCount),
		UnitAmount:  contest.PricePerQuota,
		Quantity:    quotaCount,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
	})
	if err != nil {
		s.compensate(ctx, payment)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.storeSession(ctx, payment.ID, session.SessionID); err != nil {
		s.compensate(ctx, payment)
		return nil, err
	}

	log.WithFields(log.Fields{
		"paymentId": payment.ID,
		"contestId": contestID,
		"userId":    userID,
		"quotas":    quotaCount,
	}).Info("Purchase initiated")

	return &models.PurchaseResult{
		PaymentID:   payment.ID,
		CheckoutURL: session.RedirectURL,
	}, nil
}

func (s *purchaseService) storeSession(ctx context.Context, paymentID, sessionID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PaymentRepository().SetCheckoutSession(ctx, paymentID, sessionID); err != nil {
		return fmt.Errorf("failed to store checkout session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compensate rolls a purchase back after the reservation committed but the
// checkout could not be completed: cancel the pending record and return its
// quotas to the pool
func (s *purchaseService) compensate(ctx context.Context, payment *models.Payment) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).WithField("paymentId", payment.ID).
			Error("Failed to begin compensation transaction, quotas remain reserved")
		return
	}
	defer uow.Rollback()

	closed, err := uow.PaymentRepository().MarkClosed(ctx, payment.ID, models.PaymentStatusCancelled)
	if err != nil {
		log.WithError(err).WithField("paymentId", payment.ID).Error("Failed to cancel payment during compensation")
		return
	}
	if closed {
		if err := uow.ContestRepository().ReleaseQuotas(ctx, payment.ContestID, payment.QuotaCount); err != nil {
			log.WithError(err).WithField("paymentId", payment.ID).Error("Failed to release quotas during compensation")
			return
		}
		uow.EventBus().Publish(events.PaymentClosedEvent{
			PaymentID:      payment.ID,
			ContestID:      payment.ContestID,
			QuotasReleased: payment.QuotaCount,
			FinalStatus:    string(models.PaymentStatusCancelled),
		})
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).WithField("paymentId", payment.ID).Error("Failed to commit compensation transaction")
	}
}
