package models

import (
	"time"
)

// PaymentStatus represents the lifecycle state of a payment record.
// Transitions only move forward: pending -> paid | cancelled | expired.
// paid is terminal and triggers exactly one participation merge.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// PaymentMethod distinguishes gateway checkouts from admin-assisted grants
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodAdmin   PaymentMethod = "admin"
)

// GatewayStatus is the authoritative payment state reported by the gateway
type GatewayStatus string

const (
	GatewayStatusPaid    GatewayStatus = "paid"
	GatewayStatusUnpaid  GatewayStatus = "unpaid"
	GatewayStatusExpired GatewayStatus = "expired"
)

// Payment is one purchase attempt. Amount is QuotaCount x the contest's
// price per quota in centavos, forced to 0 for the operator's own purchases.
// ChosenNumbers is nil when the purchase flow collected no number choice.
type Payment struct {
	ID                string        `db:"id"`
	UserID            string        `db:"user_id"`
	ContestID         string        `db:"contest_id"`
	QuotaCount        int64         `db:"quota_count"`
	Amount            int64         `db:"amount"`
	Method            PaymentMethod `db:"payment_method"`
	Status            PaymentStatus `db:"status"`
	ChosenNumbers     []int32       `db:"chosen_numbers"`
	CheckoutSessionID *string       `db:"checkout_session_id"`
	PaymentIntentID   *string       `db:"payment_intent_id"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

// IsTerminal checks whether the payment can still change state
func (p *Payment) IsTerminal() bool {
	return p.Status != PaymentStatusPending
}

// PurchaseResult is returned to the caller of a gateway purchase
type PurchaseResult struct {
	PaymentID   string
	CheckoutURL string
}

// VerifyResult reports both sides of a reconciliation check
type VerifyResult struct {
	PaymentID      string
	GatewayStatus  GatewayStatus
	InternalStatus PaymentStatus
	// Merged is true when this call performed the participation merge,
	// false on idempotent re-verification of an already-paid record
	Merged bool
}
