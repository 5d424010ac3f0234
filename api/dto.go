package api

import (
	"time"

	"bolao/models"
)

type purchaseRequest struct {
	ContestID     string  `json:"contest_id" binding:"required"`
	QuotaCount    int64   `json:"quota_count" binding:"required,gt=0"`
	ChosenNumbers []int32 `json:"chosen_numbers"`
}

type purchaseResponse struct {
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
}

type verifyRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type verifyResponse struct {
	PaymentID      string `json:"payment_id"`
	GatewayStatus  string `json:"gateway_status"`
	InternalStatus string `json:"internal_status"`
	Merged         bool   `json:"merged"`
}

type grantRequest struct {
	UserID        string  `json:"user_id" binding:"required"`
	QuotaCount    int64   `json:"quota_count" binding:"required,gt=0"`
	ChosenNumbers []int32 `json:"chosen_numbers" binding:"required"`
}

type createContestRequest struct {
	Name          string    `json:"name" binding:"required"`
	Number        int       `json:"number"`
	DrawDate      time.Time `json:"draw_date" binding:"required"`
	PricePerQuota int64     `json:"price_per_quota" binding:"required"`
	MaxQuotas     int64     `json:"max_quotas" binding:"required"`
	TotalPrize    int64     `json:"total_prize"`
}

type updateStatusRequest struct {
	Status       string  `json:"status" binding:"required"`
	DrawnNumbers []int32 `json:"drawn_numbers"`
}

type updateParticipationRequest struct {
	QuotaCount    int64   `json:"quota_count" binding:"required,gt=0"`
	AmountPaid    int64   `json:"amount_paid"`
	ChosenNumbers []int32 `json:"chosen_numbers" binding:"required"`
}

type updateConfigRequest struct {
	CommissionPercent int64  `json:"commission_percent"`
	FreeQuotaCount    int64  `json:"free_quota_count"`
	OperatorUserID    string `json:"operator_user_id"`
}

type contestResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Number          int       `json:"number"`
	DrawDate        time.Time `json:"draw_date"`
	PricePerQuota   int64     `json:"price_per_quota"`
	MaxQuotas       int64     `json:"max_quotas"`
	QuotasSold      int64     `json:"quotas_sold"`
	QuotasAvailable int64     `json:"quotas_available"`
	Status          string    `json:"status"`
	DrawnNumbers    []int32   `json:"drawn_numbers,omitempty"`
	TotalPrize      int64     `json:"total_prize"`
	CreatedAt       time.Time `json:"created_at"`
}

func toContestResponse(c *models.Contest) contestResponse {
	return contestResponse{
		ID:              c.ID,
		Name:            c.Name,
		Number:          c.Number,
		DrawDate:        c.DrawDate,
		PricePerQuota:   c.PricePerQuota,
		MaxQuotas:       c.MaxQuotas,
		QuotasSold:      c.QuotasSold,
		QuotasAvailable: c.QuotasAvailable(),
		Status:          string(c.Status),
		DrawnNumbers:    c.DrawnNumbers,
		TotalPrize:      c.TotalPrize,
		CreatedAt:       c.CreatedAt,
	}
}

type participationResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ContestID     string    `json:"contest_id"`
	ChosenNumbers []int32   `json:"chosen_numbers"`
	QuotaCount    int64     `json:"quota_count"`
	AmountPaid    int64     `json:"amount_paid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toParticipationResponse(p *models.Participation) participationResponse {
	return participationResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		ContestID:     p.ContestID,
		ChosenNumbers: p.ChosenNumbers,
		QuotaCount:    p.QuotaCount,
		AmountPaid:    p.AmountPaid,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type paymentResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	ContestID         string    `json:"contest_id"`
	QuotaCount        int64     `json:"quota_count"`
	Amount            int64     `json:"amount"`
	Method            string    `json:"payment_method"`
	Status            string    `json:"status"`
	ChosenNumbers     []int32   `json:"chosen_numbers,omitempty"`
	CheckoutSessionID *string   `json:"checkout_session_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		ContestID:         p.ContestID,
		QuotaCount:        p.QuotaCount,
		Amount:            p.Amount,
		Method:            string(p.Method),
		Status:            string(p.Status),
		ChosenNumbers:     p.ChosenNumbers,
		CheckoutSessionID: p.CheckoutSessionID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

type distributionEntryResponse struct {
	UserID       string  `json:"user_id"`
	QuotaCount   int64   `json:"quota_count"`
	AmountPaid   int64   `json:"amount_paid"`
	SharePercent float64 `json:"share_percent"`
	PrizeAmount  int64   `json:"prize_amount"`
	IsHouse      bool    `json:"is_house"`
}

type distributionResponse struct {
	ContestID            string                      `json:"contest_id"`
	Revenue              int64                       `json:"revenue"`
	HouseQuotaValue      int64                       `json:"house_quota_value"`
	Commission           int64                       `json:"commission"`
	PlayablePool         int64                       `json:"playable_pool"`
	RawPlayablePool      int64                       `json:"raw_playable_pool"`
	TotalQuotas          int64                       `json:"total_quotas"`
	ConfigurationWarning bool                        `json:"configuration_warning"`
	Entries              []distributionEntryResponse `json:"entries"`
}

func toDistributionResponse(d *models.Distribution) distributionResponse {
	resp := distributionResponse{
		ContestID:            d.ContestID,
		Revenue:              d.Revenue,
		HouseQuotaValue:      d.HouseQuotaValue,
		Commission:           d.Commission,
		PlayablePool:         d.PlayablePool,
		RawPlayablePool:      d.RawPlayablePool,
		TotalQuotas:          d.TotalQuotas,
		ConfigurationWarning: d.ConfigurationWarning,
		Entries:              make([]distributionEntryResponse, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		resp.Entries = append(resp.Entries, distributionEntryResponse{
			UserID:       e.UserID,
			QuotaCount:   e.QuotaCount,
			AmountPaid:   e.DisplayAmountPaid,
			SharePercent: e.SharePercent,
			PrizeAmount:  e.PrizeAmount,
			IsHouse:      e.IsHouse,
		})
	}
	return resp
}

type configResponse struct {
	CommissionPercent int64     `json:"commission_percent"`
	FreeQuotaCount    int64     `json:"free_quota_count"`
	OperatorUserID    string    `json:"operator_user_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toConfigResponse(c *models.AdminConfig) configResponse {
	return configResponse{
		CommissionPercent: c.CommissionPercent,
		FreeQuotaCount:    c.FreeQuotaCount,
		OperatorUserID:    c.OperatorUserID,
		UpdatedAt:         c.UpdatedAt,
	}
}
