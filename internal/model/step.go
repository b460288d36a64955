package model

import "time"

// StepsPerPoint is how many steps earn one point.
const StepsPerPoint = 100

type StepEntry struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Date         time.Time `json:"date"`
	Steps        int       `json:"steps"`
	PointsEarned int       `json:"points_earned"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PointsForSteps is the only way points are derived from a step count.
func PointsForSteps(steps int) int {
	if steps <= 0 {
		return 0
	}
	return steps / StepsPerPoint
}
