package models

import (
	"time"
)

// AdminConfig is the singleton administrator configuration. OperatorUserID
// identifies the house account: its participations are recorded with
// amount 0 and excluded from revenue while still diluting prize shares.
type AdminConfig struct {
	CommissionPercent int64     `db:"commission_percent"`
	FreeQuotaCount    int64     `db:"free_quota_count"`
	OperatorUserID    string    `db:"operator_user_id"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// IsOperator checks whether a user is the house account
func (c *AdminConfig) IsOperator(userID string) bool {
	return c.OperatorUserID != "" && c.OperatorUserID == userID
}

// Validate checks the configured values are within their legal ranges
func (c *AdminConfig) Validate() bool {
	return c.CommissionPercent >= 0 && c.CommissionPercent <= 100 && c.FreeQuotaCount >= 0
}
