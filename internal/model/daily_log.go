package model

import (
	"fmt"
	"time"
)

// DailyLog is one user's check-in for one calendar date.
type DailyLog struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	Date             time.Time `json:"date"`
	UsedNicotine     bool      `json:"used_nicotine"`
	ProductType      *string   `json:"product_type,omitempty"`
	Quantity         *float64  `json:"quantity,omitempty"`
	Mood             int       `json:"mood"`
	Energy           int       `json:"energy"`
	Focus            int       `json:"focus"`
	SleepHours       float64   `json:"sleep_hours"`
	SleepQuality     int       `json:"sleep_quality"`
	CravingIntensity int       `json:"craving_intensity"`
	CravingTrigger   *string   `json:"craving_trigger,omitempty"`
	Journal          *string   `json:"journal,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Validate checks the field ranges a log must satisfy before it is stored.
func (l DailyLog) Validate() error {
	if l.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if l.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	if l.Quantity != nil && *l.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", ErrInvalidArgument)
	}
	for _, f := range []struct {
		name     string
		val      int
		min, max int
	}{
		{"mood", l.Mood, 1, 5},
		{"energy", l.Energy, 1, 5},
		{"focus", l.Focus, 1, 5},
		{"sleep_quality", l.SleepQuality, 1, 5},
		{"craving_intensity", l.CravingIntensity, 0, 10},
	} {
		if f.val < f.min || f.val > f.max {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidArgument, f.name, f.min, f.max, f.val)
		}
	}
	if l.SleepHours < 0 || l.SleepHours > 24 {
		return fmt.Errorf("%w: sleep_hours must be between 0 and 24", ErrInvalidArgument)
	}
	return nil
}
