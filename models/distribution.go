package models

// DistributionEntry is one participant's slice of the playable pool.
// DisplayAmountPaid differs from AmountPaid only for the house row, which
// shows quota value to the UI while the ledger keeps 0.
type DistributionEntry struct {
	UserID            string
	QuotaCount        int64
	AmountPaid        int64
	DisplayAmountPaid int64
	SharePercent      float64
	PrizeAmount       int64
	IsHouse           bool
}

// Distribution is the full prize breakdown for a contest. All currency
// values are centavos. RawPlayablePool keeps the signed value so admins can
// see when commission plus free quotas exceed what was collected;
// PlayablePool is the clamped figure shares are computed from.
type Distribution struct {
	ContestID            string
	Revenue              int64
	HouseQuotaValue      int64
	Commission           int64
	RawPlayablePool      int64
	PlayablePool         int64
	TotalQuotas          int64
	ConfigurationWarning bool
	Entries              []DistributionEntry
}
