package models

import (
	"time"
)

// TicketNumberMin and TicketNumberMax bound the numbers a participation can
// play, and TicketSize is how many distinct numbers a ticket carries.
const (
	TicketNumberMin = 1
	TicketNumberMax = 60
	TicketSize      = 6
)

// Participation is the single row a user holds in a contest. Successive
// successful payments sum onto QuotaCount and AmountPaid; the row is never
// recreated. The operator's own row always carries AmountPaid = 0 so house
// quotas dilute the pool without counting as revenue.
type Participation struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ContestID     string    `db:"contest_id"`
	ChosenNumbers []int32   `db:"chosen_numbers"`
	QuotaCount    int64     `db:"quota_count"`
	AmountPaid    int64     `db:"amount_paid"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ValidTicket checks that the chosen numbers form a complete ticket:
// exactly TicketSize distinct integers within [TicketNumberMin, TicketNumberMax]
func ValidTicket(numbers []int32) bool {
	if len(numbers) != TicketSize {
		return false
	}
	seen := make(map[int32]bool, TicketSize)
	for _, n := range numbers {
		if n < TicketNumberMin || n > TicketNumberMax {
			return false
		}
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
