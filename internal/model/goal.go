package model

import "time"

// Goal is a user's declared abstinence goal.
type Goal struct {
	UserID         string    `json:"user_id"`
	QuitDate       time.Time `json:"quit_date"`
	Active         bool      `json:"active"`
	DailyCostCents int64     `json:"daily_cost_cents"`
	Currency       string    `json:"currency"`
	UpdatedAt      time.Time `json:"updated_at"`
}
