package progress

import (
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

// Achievement is one unlockable rule. Every predicate is monotonic in its
// inputs: more days afresh or more logged days never re-lock it.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Unlocked    func(daysAfresh int, logs []model.DailyLog) bool
}

func daysAtLeast(n int) func(int, []model.DailyLog) bool {
	return func(daysAfresh int, _ []model.DailyLog) bool { return daysAfresh >= n }
}

func loggedDaysAtLeast(n int) func(int, []model.DailyLog) bool {
	return func(_ int, logs []model.DailyLog) bool { return DistinctLogDays(logs) >= n }
}

// Achievements is the ordered catalog.
var Achievements = []Achievement{
	{"first_day", "First Day", "One full day afresh.", daysAtLeast(1)},
	{"three_days", "Three Days", "Three days afresh.", daysAtLeast(3)},
	{"one_week", "One Week", "A full week afresh.", daysAtLeast(7)},
	{"two_weeks", "Two Weeks", "Two weeks afresh.", daysAtLeast(14)},
	{"one_month", "One Month", "Thirty days afresh.", daysAtLeast(30)},
	{"three_months", "Three Months", "Ninety days afresh.", daysAtLeast(90)},
	{"six_months", "Six Months", "Half a year afresh.", daysAtLeast(180)},
	{"one_year", "One Year", "A full year afresh.", daysAtLeast(365)},
	{"first_log", "First Check-in", "Logged your first day.", loggedDaysAtLeast(1)},
	{"logged_week", "Seven Check-ins", "Logged seven different days.", loggedDaysAtLeast(7)},
	{"logged_month", "Thirty Check-ins", "Logged thirty different days.", loggedDaysAtLeast(30)},
}

// EvaluateAchievements runs every rule in catalog order.
func EvaluateAchievements(daysAfresh int, logs []model.DailyLog) []model.AchievementStatus {
	out := make([]model.AchievementStatus, len(Achievements))
	for i, a := range Achievements {
		out[i] = model.AchievementStatus{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Unlocked:    a.Unlocked(daysAfresh, logs),
		}
	}
	return out
}

type HealthMilestone struct {
	Threshold   time.Duration
	Label       string
	Description string
}

// HealthTimeline is ordered by threshold, shortest first.
var HealthTimeline = []HealthMilestone{
	{20 * time.Minute, "20 minutes", "Heart rate and blood pressure drop."},
	{12 * time.Hour, "12 hours", "Carbon monoxide in the blood drops to normal."},
	{24 * time.Hour, "24 hours", "Heart attack risk begins to decrease."},
	{48 * time.Hour, "48 hours", "Nerve endings regrow; smell and taste improve."},
	{14 * day, "14 days", "Circulation improves and lung function increases."},
	{30 * day, "30 days", "Coughing and shortness of breath decrease."},
	{365 * day, "1 year", "Excess coronary heart disease risk is half that of a smoker."},
	{5 * 365 * day, "5 years", "Stroke risk falls to that of a non-smoker."},
	{10 * 365 * day, "10 years", "Lung cancer death risk is about half that of a smoker."},
	{15 * 365 * day, "15 years", "Coronary heart disease risk matches a non-smoker's."},
}

// EvaluateHealthTimeline marks each milestone achieved once elapsed reaches
// its threshold.
func EvaluateHealthTimeline(elapsed time.Duration) []model.HealthMilestoneStatus {
	out := make([]model.HealthMilestoneStatus, len(HealthTimeline))
	for i, m := range HealthTimeline {
		out[i] = model.HealthMilestoneStatus{
			Threshold:   m.Threshold,
			Label:       m.Label,
			Hours:       m.Threshold.Hours(),
			Achieved:    elapsed >= m.Threshold,
			Description: m.Description,
		}
	}
	return out
}

// NextMilestone returns the first milestone not yet achieved, or nil once
// the whole timeline is done.
func NextMilestone(statuses []model.HealthMilestoneStatus) *model.HealthMilestoneStatus {
	for i := range statuses {
		if !statuses[i].Achieved {
			m := statuses[i]
			return &m
		}
	}
	return nil
}
