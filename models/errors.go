package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentNotFound means no payment record matches the given
	// checkout-session or payment id
	ErrPaymentNotFound = errors.New("payment record not found")

	// ErrContestNotFound means the contest does not exist
	ErrContestNotFound = errors.New("contest not found")

	// ErrContestNotOpen means the contest is not accepting purchases
	ErrContestNotOpen = errors.New("contest is not open for participation")

	// ErrNumbersRequired means a participation would be created without a
	// ticket and auto-assignment is disabled
	ErrNumbersRequired = errors.New("chosen numbers are required")

	// ErrInvalidTicket means the chosen numbers are not 6 distinct values
	// within the legal range
	ErrInvalidTicket = fmt.Errorf("ticket must be %d distinct numbers between %d and %d",
		TicketSize, TicketNumberMin, TicketNumberMax)

	// ErrParticipationNotFound means no participation row matches
	ErrParticipationNotFound = errors.New("participation not found")
)

// InsufficientCapacityError is returned when a purchase would exceed the
// contest's capacity. Available carries how many quotas remain so the caller
// can report it.
type InsufficientCapacityError struct {
	ContestID string
	Requested int64
	Available int64
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("contest %s has only %d quotas available, %d requested",
		e.ContestID, e.Available, e.Requested)
}

// GatewayUnavailableError is a transient failure talking to the payment
// gateway. It never changes payment state; the caller may retry.
type GatewayUnavailableError struct {
	Err error
}

func (e *GatewayUnavailableError) Error() string {
	return fmt.Sprintf("payment gateway unavailable: %v", e.Err)
}

func (e *GatewayUnavailableError) Unwrap() error {
	return e.Err
}

// IntegrityError marks a data-integrity violation (quotas sold beyond
// capacity) that blocks further automatic mutation of the contest
type IntegrityError struct {
	ContestID  string
	QuotasSold int64
	MaxQuotas  int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("contest %s ledger corrupt: %d quotas sold exceeds capacity %d",
		e.ContestID, e.QuotasSold, e.MaxQuotas)
}
