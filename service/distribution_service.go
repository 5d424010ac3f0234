package service

import (
	"context"
	"fmt"
	"math"

	"bolao/models"

	log "github.com/sirupsen/logrus"
)

type distributionService struct {
	uowFactory UnitOfWorkFactory
}

// NewDistributionService creates a new distribution service
func NewDistributionService(uowFactory UnitOfWorkFactory) DistributionService {
	return &distributionService{
		uowFactory: uowFactory,
	}
}

// GetDistribution loads a contest's participations and the admin
// configuration and computes the prize breakdown
func (s *distributionService) GetDistribution(ctx context.Context, contestID string) (*models.Distribution, error) {
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

	participations, err := uow.ParticipationRepository().GetByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	config, err := uow.AdminConfigRepository().Get(ctx)
	if err != nil {
		return nil, err
	}

	distribution := ComputeDistribution(contest, participations, config)

	if distribution.ConfigurationWarning {
		log.WithFields(log.Fields{
			"contestId":         contestID,
			"revenue":           distribution.Revenue,
			"houseQuotaValue":   distribution.HouseQuotaValue,
			"commission":        distribution.Commission,
			"rawPlayablePool":   distribution.RawPlayablePool,
			"commissionPercent": config.CommissionPercent,
			"freeQuotaCount":    config.FreeQuotaCount,
		}).Warn("Commission and free quotas exceed contest revenue, playable pool clamped to 0")
	}

	return distribution, nil
}

// ComputeDistribution is the single place prize math lives. It is a pure
// function over the contest, its participations and the admin configuration.
//
// The house (operator) participation is asymmetric on purpose: its quotas
// count toward totalQuotas and it takes a proportional prize, but its
// amount paid is 0 and contributes nothing to revenue. That is how free
// house quotas dilute everyone's share without being charged to anyone.
func ComputeDistribution(contest *models.Contest, participations []*models.Participation, config *models.AdminConfig) *models.Distribution {
	distribution := &models.Distribution{
		ContestID: contest.ID,
	}

	var revenue, totalQuotas int64
	for _, p := range participations {
		totalQuotas += p.QuotaCount
		if !config.IsOperator(p.UserID) {
			revenue += p.AmountPaid
		}
	}

	distribution.Revenue = revenue
	distribution.TotalQuotas = totalQuotas

	// A contest that collected nothing owes nothing: no house deduction and
	// no commission are taken from zero revenue
	if revenue > 0 {
		distribution.HouseQuotaValue = config.FreeQuotaCount * contest.PricePerQuota
		distribution.Commission = revenue * config.CommissionPercent / 100
	}

	distribution.RawPlayablePool = revenue - distribution.HouseQuotaValue - distribution.Commission
	distribution.ConfigurationWarning = distribution.RawPlayablePool < 0

	distribution.PlayablePool = distribution.RawPlayablePool
	if distribution.PlayablePool < 0 {
		distribution.PlayablePool = 0
	}

	if len(participations) == 0 {
		return distribution
	}

	distribution.Entries = make([]models.DistributionEntry, 0, len(participations))
	for _, p := range participations {
		entry := models.DistributionEntry{
			UserID:            p.UserID,
			QuotaCount:        p.QuotaCount,
			AmountPaid:        p.AmountPaid,
			DisplayAmountPaid: p.AmountPaid,
			IsHouse:           config.IsOperator(p.UserID),
		}

		// The house row displays what its quotas would cost even though the
		// ledger records 0
		if entry.IsHouse {
			entry.DisplayAmountPaid = p.QuotaCount * contest.PricePerQuota
		}

		if totalQuotas > 0 {
			fraction := float64(p.QuotaCount) / float64(totalQuotas)
			entry.SharePercent = fraction * 100
			entry.PrizeAmount = int64(math.Round(fraction * float64(distribution.PlayablePool)))
		}

		distribution.Entries = append(distribution.Entries, entry)
	}

	return distribution
}
