package progress

import (
	"fmt"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

const (
	DefaultWindowDays = 7
	MaxWindowDays     = 365
)

// WindowStart returns the first date of a windowDays-long window ending at end.
func WindowStart(end time.Time, windowDays int) time.Time {
	return model.CalendarDate(end).AddDate(0, 0, -(windowDays - 1))
}

// Aggregate builds exactly windowDays summaries ending at end, oldest
// first. Days without logs are zero-filled so charts render a baseline.
func Aggregate(logs []model.DailyLog, windowDays int, end time.Time) ([]model.DaySummary, error) {
	if windowDays < 1 || windowDays > MaxWindowDays {
		return nil, fmt.Errorf("%w: window days must be between 1 and %d, got %d", model.ErrInvalidArgument, MaxWindowDays, windowDays)
	}

	type acc struct {
		n, cravings                    int
		intensity, mood, energy, focus float64
	}
	byDate := make(map[time.Time]*acc)
	for _, l := range logs {
		d := model.CalendarDate(l.Date)
		a := byDate[d]
		if a == nil {
			a = &acc{}
			byDate[d] = a
		}
		a.n++
		if l.CravingIntensity > 0 {
			a.cravings++
		}
		a.intensity += float64(l.CravingIntensity)
		a.mood += float64(l.Mood)
		a.energy += float64(l.Energy)
		a.focus += float64(l.Focus)
	}

	start := WindowStart(end, windowDays)
	out := make([]model.DaySummary, windowDays)
	for i := range out {
		d := start.AddDate(0, 0, i)
		out[i].Date = d
		a := byDate[d]
		if a == nil {
			continue
		}
		n := float64(a.n)
		out[i].CravingCount = a.cravings
		out[i].AvgCravingIntensity = a.intensity / n
		out[i].AvgMood = a.mood / n
		out[i].AvgEnergy = a.energy / n
		out[i].AvgFocus = a.focus / n
	}
	return out, nil
}
