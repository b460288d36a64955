package model

import (
	"fmt"
	"strings"
	"time"
)

// StreakMode selects which definition of days afresh a caller wants.
type StreakMode string

const (
	// StreakGoal counts whole days since the active goal's quit date.
	StreakGoal StreakMode = "goal"
	// StreakLog counts contiguous non-use log days.
	StreakLog StreakMode = "log"
)

// ParseStreakMode accepts "goal" or "log" (case-insensitive).
func ParseStreakMode(s string) (StreakMode, error) {
	switch StreakMode(strings.ToLower(strings.TrimSpace(s))) {
	case StreakGoal:
		return StreakGoal, nil
	case StreakLog:
		return StreakLog, nil
	}
	return "", fmt.Errorf("%w: streak mode must be %q or %q", ErrInvalidArgument, StreakGoal, StreakLog)
}

// DaySummary is one point of a windowed chart series.
type DaySummary struct {
	Date                time.Time `json:"date"`
	CravingCount        int       `json:"craving_count"`
	AvgCravingIntensity float64   `json:"avg_craving_intensity"`
	AvgMood             float64   `json:"avg_mood"`
	AvgEnergy           float64   `json:"avg_energy"`
	AvgFocus            float64   `json:"avg_focus"`
}

type AchievementStatus struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type HealthMilestoneStatus struct {
	Threshold   time.Duration `json:"-"`
	Label       string        `json:"threshold"`
	Hours       float64       `json:"threshold_hours"`
	Achieved    bool          `json:"achieved"`
	Description string        `json:"description"`
}

// Streaks reports both definitions side by side.
type Streaks struct {
	Goal       int `json:"goal"`
	Log        int `json:"log"`
	LongestLog int `json:"longest_log"`
}

// Summary is the dashboard view of a user's progress.
type Summary struct {
	UserID             string                 `json:"user_id"`
	Points             PointBalance           `json:"points"`
	Streaks            Streaks                `json:"streaks"`
	MoneySavedCents    int64                  `json:"money_saved_cents"`
	Currency           string                 `json:"currency,omitempty"`
	AchievementsTotal  int                    `json:"achievements_total"`
	AchievementsEarned int                    `json:"achievements_unlocked"`
	NextMilestone      *HealthMilestoneStatus `json:"next_milestone,omitempty"`
	LoggedDays         int                    `json:"logged_days"`
}
