package progress

import (
	"sort"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

const day = 24 * time.Hour

// Elapsed returns how long ago the goal's quit date was, never negative.
// A nil or inactive goal has elapsed nothing.
func Elapsed(g *model.Goal, asOf time.Time) time.Duration {
	if g == nil || !g.Active {
		return 0
	}
	d := asOf.Sub(g.QuitDate)
	if d < 0 {
		return 0
	}
	return d
}

// DaysAfreshFromGoal counts whole days since the goal's quit date. It is 0
// for a future quit date and for a missing or inactive goal.
func DaysAfreshFromGoal(g *model.Goal, asOf time.Time) int {
	return int(Elapsed(g, asOf) / day)
}

// dayStatus collapses logs to one entry per calendar date. A date counts as
// used if any log for it reports nicotine use.
type dayStatus struct {
	date time.Time
	used bool
}

func collapse(logs []model.DailyLog, asOf time.Time) []dayStatus {
	cutoff := model.CalendarDate(asOf)
	byDate := make(map[time.Time]bool, len(logs))
	for _, l := range logs {
		d := model.CalendarDate(l.Date)
		if d.After(cutoff) {
			continue
		}
		byDate[d] = byDate[d] || l.UsedNicotine
	}

	days := make([]dayStatus, 0, len(byDate))
	for d, used := range byDate {
		days = append(days, dayStatus{date: d, used: used})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.After(days[j].date) })
	return days
}

// DaysAfreshFromLogs counts consecutive non-use days backward from the most
// recent log dated on or before asOf. A use day or a missing date ends the
// count. Input order does not matter.
func DaysAfreshFromLogs(logs []model.DailyLog, asOf time.Time) int {
	days := collapse(logs, asOf)
	streak := 0
	for i, d := range days {
		if d.used {
			break
		}
		if i > 0 && !days[i-1].date.AddDate(0, 0, -1).Equal(d.date) {
			break
		}
		streak++
	}
	return streak
}

// LongestLogStreak returns the longest run of consecutive non-use log days
// on or before asOf.
func LongestLogStreak(logs []model.DailyLog, asOf time.Time) int {
	days := collapse(logs, asOf)
	longest, run := 0, 0
	for i, d := range days {
		switch {
		case d.used:
			run = 0
			continue
		case i > 0 && !days[i-1].used && days[i-1].date.AddDate(0, 0, -1).Equal(d.date):
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// DistinctLogDays counts the unique dates present in logs.
func DistinctLogDays(logs []model.DailyLog) int {
	seen := make(map[time.Time]struct{}, len(logs))
	for _, l := range logs {
		seen[model.CalendarDate(l.Date)] = struct{}{}
	}
	return len(seen)
}

// MoneySaved is the goal's daily cost multiplied by the days afresh, in
// minor currency units.
func MoneySaved(g *model.Goal, daysAfresh int) int64 {
	if g == nil || !g.Active || daysAfresh <= 0 {
		return 0
	}
	return g.DailyCostCents * int64(daysAfresh)
}
