package model

import "time"

type Reward struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	PointsRequired int       `json:"points_required"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimFulfilled ClaimStatus = "fulfilled"
	ClaimRejected  ClaimStatus = "rejected"
)

// Valid reports whether s is one of the known claim statuses.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimFulfilled, ClaimRejected:
		return true
	}
	return false
}

type ClaimedReward struct {
	ID             int64       `json:"id"`
	UserID         string      `json:"user_id"`
	RewardID       int64       `json:"reward_id"`
	PointsRedeemed int         `json:"points_redeemed"`
	Status         ClaimStatus `json:"status"`
	ClaimedAt      time.Time   `json:"claimed_at"`
}

// ClaimRequest is what the ledger asks the store to commit atomically.
type ClaimRequest struct {
	UserID    string
	RewardID  int64
	Status    ClaimStatus
	ClaimedAt time.Time
}

// LedgerTotals are the raw sums a balance is derived from.
type LedgerTotals struct {
	Earned    int `json:"earned"`
	Fulfilled int `json:"fulfilled"`
	Pending   int `json:"pending"`
}

type PointBalance struct {
	UserID      string `json:"user_id"`
	TotalEarned int    `json:"total_earned"`
	TotalSpent  int    `json:"total_spent"`
	Reserved    int    `json:"reserved"`
	Balance     int    `json:"balance"`
	Spendable   int    `json:"spendable"`
	// Clamped is set when the raw sums went negative, which only corrupt
	// data can produce.
	Clamped bool `json:"-"`
}

// NewPointBalance derives a balance from ledger totals. Only fulfilled
// claims reduce Balance; pending claims additionally reduce Spendable.
// Neither figure is ever negative.
func NewPointBalance(userID string, t LedgerTotals) PointBalance {
	b := PointBalance{
		UserID:      userID,
		TotalEarned: t.Earned,
		TotalSpent:  t.Fulfilled,
		Reserved:    t.Pending,
		Balance:     t.Earned - t.Fulfilled,
		Spendable:   t.Earned - t.Fulfilled - t.Pending,
	}
	if b.Balance < 0 {
		b.Balance = 0
		b.Clamped = true
	}
	if b.Spendable < 0 {
		b.Spendable = 0
	}
	return b
}
