package service

import (
	"context"
	"fmt"

	"bolao/events"
	"bolao/models"

	log "github.com/sirupsen/logrus"
)

type adminService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdminService creates a new admin service
func NewAdminService(uowFactory UnitOfWorkFactory) AdminService {
	return &adminService{
		uowFactory: uowFactory,
	}
}

// GrantQuotas assigns quotas to a user without going through the gateway.
// The reservation, the participation merge and the already-paid payment
// record are one transaction. Admin entry always requires explicit numbers;
// auto-assignment is a gateway-flow policy.
func (s *adminService) GrantQuotas(ctx context.Context, contestID, userID string, quotaCount int64, chosenNumbers []int32) (*models.Participation, error) {
	if quotaCount <= 0 {
		return nil, fmt.Errorf("quota count must be positive")
	}
	if chosenNumbers == nil {
		return nil, models.ErrNumbersRequired
	}
	if !models.ValidTicket(chosenNumbers) {
		return nil, models.ErrInvalidTicket
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contest, err := uow.ContestRepository().GetByID(ctx, contestID)
	if err != nil {
		return nil, err
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
		return nil, err
	}

	amount := quotaCount * contest.PricePerQuota
	if config.IsOperator(userID) {
		amount = 0
	}

	participation := &models.Participation{
		UserID:        userID,
		ContestID:     contestID,
		ChosenNumbers: chosenNumbers,
		QuotaCount:    quotaCount,
		AmountPaid:    amount,
	}

	created, err := uow.ParticipationRepository().Merge(ctx, participation)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:        userID,
		ContestID:     contestID,
		QuotaCount:    quotaCount,
		Amount:        amount,
		Method:        models.PaymentMethodAdmin,
		Status:        models.PaymentStatusPaid,
		ChosenNumbers: chosenNumbers,
	}

	if err := uow.PaymentRepository().Create(ctx, payment); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.QuotasGrantedEvent{
		ContestID:  contestID,
		UserID:     userID,
		QuotaCount: quotaCount,
	})
	uow.EventBus().Publish(events.ParticipationMergedEvent{
		ParticipationID: participation.ID,
		UserID:          userID,
		ContestID:       contestID,
		QuotasAdded:     quotaCount,
		TotalQuotas:     participation.QuotaCount,
		Created:         created,
	})
	if soldOut {
		uow.EventBus().Publish(events.ContestSoldOutEvent{
			ContestID: contestID,
			MaxQuotas: contest.MaxQuotas,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"contestId": contestID,
		"userId":    userID,
		"quotas":    quotaCount,
	}).Info("Quotas granted by admin")

	return participation, nil
}

// GetConfig returns the admin configuration
func (s *adminService) GetConfig(ctx context.Context) (*models.AdminConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.AdminConfigRepository().Get(ctx)
}

// UpdateConfig overwrites the admin configuration
func (s *adminService) UpdateConfig(ctx context.Context, config *models.AdminConfig) error {
	if !config.Validate() {
		return fmt.Errorf("commission percent must be 0-100 and free quota count non-negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AdminConfigRepository().Update(ctx, config); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateContest creates a new contest
func (s *adminService) CreateContest(ctx context.Context, contest *models.Contest) error {
	if contest.Name == "" {
		return fmt.Errorf("contest name cannot be empty")
	}
	if contest.PricePerQuota <= 0 {
		return fmt.Errorf("price per quota must be positive")
	}
	if contest.MaxQuotas <= 0 {
		return fmt.Errorf("max quotas must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ContestRepository().Create(ctx, contest); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListContests returns all contests
func (s *adminService) ListContests(ctx context.Context) ([]*models.Contest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ContestRepository().GetAll(ctx)
}

// GetContest returns one contest
func (s *adminService) GetContest(ctx context.Context, contestID string) (*models.Contest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contest, err := uow.ContestRepository().GetByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, models.ErrContestNotFound
	}

	return contest, nil
}

// UpdateContestStatus moves a contest one step forward in its lifecycle.
// The drawn transition requires the drawn numbers.
func (s *adminService) UpdateContestStatus(ctx context.Context, contestID string, status models.ContestStatus, drawnNumbers []int32) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contest, err := uow.ContestRepository().GetByID(ctx, contestID)
	if err != nil {
		return err
	}
	if contest == nil {
		return models.ErrContestNotFound
	}
	if !contest.CanTransitionTo(status) {
		return fmt.Errorf("contest %s cannot move from %s to %s", contestID, contest.Status, status)
	}

	if status == models.ContestStatusDrawn {
		if !models.ValidTicket(drawnNumbers) {
			return models.ErrInvalidTicket
		}
	} else {
		drawnNumbers = nil
	}

	if err := uow.ContestRepository().UpdateStatus(ctx, contestID, status, drawnNumbers); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListPayments returns all payment records for a contest
func (s *adminService) ListPayments(ctx context.Context, contestID string) ([]*models.Payment, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PaymentRepository().GetByContest(ctx, contestID)
}

// ListParticipants returns all participations for a contest
func (s *adminService) ListParticipants(ctx context.Context, contestID string) ([]*models.Participation, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ParticipationRepository().GetByContest(ctx, contestID)
}

// UpdateParticipation overwrites a participation's ticket, quota count and
// amount. The contest counter is adjusted by the quota difference so the
// ledger stays consistent with the edit.
func (s *adminService) UpdateParticipation(ctx context.Context, participation *models.Participation) error {
	if participation.QuotaCount <= 0 {
		return fmt.Errorf("quota count must be positive")
	}
	if !models.ValidTicket(participation.ChosenNumbers) {
		return models.ErrInvalidTicket
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.ParticipationRepository().GetByID(ctx, participation.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return models.ErrParticipationNotFound
	}

	diff := participation.QuotaCount - existing.QuotaCount
	if diff > 0 {
		if _, err := uow.ContestRepository().ReserveQuotas(ctx, existing.ContestID, diff); err != nil {
			return err
		}
	} else if diff < 0 {
		if err := uow.ContestRepository().ReleaseQuotas(ctx, existing.ContestID, -diff); err != nil {
			return err
		}
	}

	participation.UserID = existing.UserID
	participation.ContestID = existing.ContestID
	if err := uow.ParticipationRepository().Update(ctx, participation); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"participationId": participation.ID,
		"contestId":       existing.ContestID,
		"quotaDiff":       diff,
	}).Info("Participation updated by admin")

	return nil
}

// DeleteParticipation removes a participation and returns its quotas to the
// pool
func (s *adminService) DeleteParticipation(ctx context.Context, participationID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	participation, err := uow.ParticipationRepository().GetByID(ctx, participationID)
	if err != nil {
		return err
	}
	if participation == nil {
		return models.ErrParticipationNotFound
	}

	if err := uow.ParticipationRepository().Delete(ctx, participationID); err != nil {
		return err
	}

	if err := uow.ContestRepository().ReleaseQuotas(ctx, participation.ContestID, participation.QuotaCount); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"participationId": participationID,
		"contestId":       participation.ContestID,
		"quotasReleased":  participation.QuotaCount,
	}).Info("Participation deleted by admin")

	return nil
}
