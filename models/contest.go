package models

import (
	"time"
)

// ContestStatus represents the lifecycle state of a contest
type ContestStatus string

const (
	ContestStatusOpen      ContestStatus = "open"
	ContestStatusClosed    ContestStatus = "closed"
	ContestStatusDrawn     ContestStatus = "drawn"
	ContestStatusFinalized ContestStatus = "finalized"
)

// Contest represents a lottery-pool contest. PricePerQuota and TotalPrize
// are in centavos. QuotasSold is a denormalized counter maintained by the
// quota reservation queries; it must never exceed MaxQuotas.
type Contest struct {
	ID            string        `db:"id"`
	Name          string        `db:"name"`
	Number        int           `db:"number"`
	DrawDate      time.Time     `db:"draw_date"`
	PricePerQuota int64         `db:"price_per_quota"`
	MaxQuotas     int64         `db:"max_quotas"`
	QuotasSold    int64         `db:"quotas_sold"`
	Status        ContestStatus `db:"status"`
	DrawnNumbers  []int32       `db:"drawn_numbers"`
	TotalPrize    int64         `db:"total_prize"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// IsOpen checks whether the contest accepts new purchases
func (c *Contest) IsOpen() bool {
	return c.Status == ContestStatusOpen
}

// QuotasAvailable returns how many quotas can still be sold
func (c *Contest) QuotasAvailable() int64 {
	available := c.MaxQuotas - c.QuotasSold
	if available < 0 {
		return 0
	}
	return available
}

// CanTransitionTo checks whether a status change is a legal forward move
func (c *Contest) CanTransitionTo(next ContestStatus) bool {
	order := map[ContestStatus]int{
		ContestStatusOpen:      0,
		ContestStatusClosed:    1,
		ContestStatusDrawn:     2,
		ContestStatusFinalized: 3,
	}
	current, ok := order[c.Status]
	if !ok {
		return false
	}
	target, ok := order[next]
	if !ok {
		return false
	}
	return target == current+1
}
