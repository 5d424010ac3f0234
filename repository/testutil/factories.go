package testutil

import (
	"time"

	"bolao/models"
)

// CreateTestContest creates an open contest with sensible defaults
func CreateTestContest(name string) *models.Contest {
	return &models.Contest{
		Name:          name,
		Number:        2660,
		DrawDate:      time.Now().Add(7 * 24 * time.Hour),
		PricePerQuota: 1000,
		MaxQuotas:     100,
		Status:        models.ContestStatusOpen,
		TotalPrize:    500000000,
	}
}

// CreateTestContestWithCapacity creates a contest with a specific capacity
func CreateTestContestWithCapacity(name string, maxQuotas int64) *models.Contest {
	contest := CreateTestContest(name)
	contest.MaxQuotas = maxQuotas
	return contest
}

// CreateTestParticipation creates a participation with a valid ticket
func CreateTestParticipation(userID, contestID string, quotaCount int64) *models.Participation {
	return &models.Participation{
		UserID:        userID,
		ContestID:     contestID,
		ChosenNumbers: []int32{4, 8, 15, 16, 23, 42},
		QuotaCount:    quotaCount,
		AmountPaid:    quotaCount * 1000,
	}
}

// CreateTestPayment creates a pending gateway payment
func CreateTestPayment(userID, contestID string, quotaCount int64) *models.Payment {
	return &models.Payment{
		UserID:        userID,
		ContestID:     contestID,
		QuotaCount:    quotaCount,
		Amount:        quotaCount * 1000,
		Method:        models.PaymentMethodGateway,
		Status:        models.PaymentStatusPending,
		ChosenNumbers: []int32{4, 8, 15, 16, 23, 42},
	}
}

// CreateTestAdminConfig creates an admin configuration with an operator set
func CreateTestAdminConfig(operatorUserID string) *models.AdminConfig {
	return &models.AdminConfig{
		CommissionPercent: 10,
		FreeQuotaCount:    3,
		OperatorUserID:    operatorUserID,
	}
}
