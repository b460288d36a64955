package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func clean(d string) model.DailyLog {
	return model.DailyLog{UserID: "u1", Date: date(d), Mood: 3, Energy: 3, Focus: 3, SleepQuality: 3}
}

func used(d string) model.DailyLog {
	l := clean(d)
	l.UsedNicotine = true
	return l
}

func TestDaysAfreshFromGoal(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		goal *model.Goal
		want int
	}{
		{"no goal", nil, 0},
		{"inactive goal", &model.Goal{QuitDate: now.Add(-72 * time.Hour)}, 0},
		{"future quit date", &model.Goal{QuitDate: now.Add(48 * time.Hour), Active: true}, 0},
		{"just under a day", &model.Goal{QuitDate: now.Add(-23 * time.Hour), Active: true}, 0},
		{"exactly one day", &model.Goal{QuitDate: now.Add(-24 * time.Hour), Active: true}, 1},
		{"fifty hours", &model.Goal{QuitDate: now.Add(-50 * time.Hour), Active: true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysAfreshFromGoal(tt.goal, now); got != tt.want {
				t.Errorf("DaysAfreshFromGoal = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysAfreshFromLogs(t *testing.T) {
	tests := []struct {
		name string
		logs []model.DailyLog
		asOf string
		want int
	}{
		{"no logs", nil, "2024-03-04", 0},
		{"gap breaks streak", []model.DailyLog{clean("2024-03-01"), clean("2024-03-02"), clean("2024-03-04")}, "2024-03-04", 1},
		{"contiguous", []model.DailyLog{clean("2024-03-01"), clean("2024-03-02"), clean("2024-03-03")}, "2024-03-03", 3},
		{"unordered input", []model.DailyLog{clean("2024-03-03"), clean("2024-03-01"), clean("2024-03-02")}, "2024-03-03", 3},
		{"use stops count", []model.DailyLog{clean("2024-03-01"), used("2024-03-02"), clean("2024-03-03"), clean("2024-03-04")}, "2024-03-04", 2},
		{"latest day used", []model.DailyLog{clean("2024-03-01"), used("2024-03-02")}, "2024-03-02", 0},
		{"future logs ignored", []model.DailyLog{clean("2024-03-01"), clean("2024-03-02"), used("2024-03-05")}, "2024-03-02", 2},
		{"stale last log still counts", []model.DailyLog{clean("2024-03-01"), clean("2024-03-02")}, "2024-03-20", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysAfreshFromLogs(tt.logs, date(tt.asOf)); got != tt.want {
				t.Errorf("DaysAfreshFromLogs = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLogStreakMonotonic(t *testing.T) {
	logs := []model.DailyLog{clean("2024-03-01"), clean("2024-03-02")}
	prev := DaysAfreshFromLogs(logs, date("2024-03-02"))

	for _, d := range []string{"2024-03-03", "2024-03-04", "2024-03-05"} {
		logs = append(logs, clean(d))
		got := DaysAfreshFromLogs(logs, date(d))
		if got < prev {
			t.Fatalf("streak on %s = %d, dropped below %d", d, got, prev)
		}
		prev = got
	}
	if prev != 5 {
		t.Errorf("final streak = %d, want 5", prev)
	}
}

func TestLongestLogStreak(t *testing.T) {
	logs := []model.DailyLog{
		clean("2024-03-01"), clean("2024-03-02"), clean("2024-03-03"), clean("2024-03-04"),
		used("2024-03-05"),
		clean("2024-03-06"), clean("2024-03-07"),
		clean("2024-03-09"),
	}
	if got := LongestLogStreak(logs, date("2024-03-09")); got != 4 {
		t.Errorf("LongestLogStreak = %d, want 4", got)
	}
	if got := DaysAfreshFromLogs(logs, date("2024-03-09")); got != 1 {
		t.Errorf("DaysAfreshFromLogs = %d, want 1", got)
	}
}

func TestDistinctLogDays(t *testing.T) {
	logs := []model.DailyLog{clean("2024-03-01"), clean("2024-03-01"), clean("2024-03-03")}
	if got := DistinctLogDays(logs); got != 2 {
		t.Errorf("DistinctLogDays = %d, want 2", got)
	}
}

func TestEvaluateHealthTimelineAtFiftyHours(t *testing.T) {
	got := EvaluateHealthTimeline(50 * time.Hour)
	if len(got) != len(HealthTimeline) {
		t.Fatalf("len = %d, want %d", len(got), len(HealthTimeline))
	}
	for i, m := range got {
		want := i < 4
		if m.Achieved != want {
			t.Errorf("%s achieved = %v, want %v", m.Label, m.Achieved, want)
		}
	}

	next := NextMilestone(got)
	if next == nil || next.Label != "14 days" {
		t.Errorf("next milestone = %+v, want 14 days", next)
	}
}

func TestHealthTimelineOrdered(t *testing.T) {
	for i := 1; i < len(HealthTimeline); i++ {
		if HealthTimeline[i].Threshold <= HealthTimeline[i-1].Threshold {
			t.Errorf("threshold %s not after %s", HealthTimeline[i].Label, HealthTimeline[i-1].Label)
		}
	}
	if NextMilestone(EvaluateHealthTimeline(20*365*day)) != nil {
		t.Error("expected no next milestone after 20 years")
	}
}

func TestEvaluateAchievements(t *testing.T) {
	var logs []model.DailyLog
	for d := date("2024-03-01"); d.Before(date("2024-03-08")); d = d.AddDate(0, 0, 1) {
		logs = append(logs, clean(model.FormatDate(d)))
	}

	got := EvaluateAchievements(7, logs)
	unlocked := map[string]bool{}
	for _, a := range got {
		unlocked[a.ID] = a.Unlocked
	}

	for _, id := range []string{"first_day", "three_days", "one_week", "first_log", "logged_week"} {
		if !unlocked[id] {
			t.Errorf("%s should be unlocked", id)
		}
	}
	for _, id := range []string{"two_weeks", "one_month", "one_year", "logged_month"} {
		if unlocked[id] {
			t.Errorf("%s should be locked", id)
		}
	}
}

func TestAchievementsMonotonic(t *testing.T) {
	logs := []model.DailyLog{clean("2024-03-01")}
	prev := EvaluateAchievements(0, logs)
	for days := 1; days <= 400; days++ {
		cur := EvaluateAchievements(days, logs)
		for i := range cur {
			if prev[i].Unlocked && !cur[i].Unlocked {
				t.Fatalf("%s re-locked at %d days", cur[i].ID, days)
			}
		}
		prev = cur
	}
}

func TestAggregateDensity(t *testing.T) {
	got, err := Aggregate(nil, 7, date("2024-03-10"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if !got[0].Date.Equal(date("2024-03-04")) || !got[6].Date.Equal(date("2024-03-10")) {
		t.Errorf("window = %s..%s, want 2024-03-04..2024-03-10", model.FormatDate(got[0].Date), model.FormatDate(got[6].Date))
	}
	for _, d := range got {
		if d.CravingCount != 0 || d.AvgMood != 0 || d.AvgCravingIntensity != 0 {
			t.Errorf("%s not zero-filled: %+v", model.FormatDate(d.Date), d)
		}
	}
}

func TestAggregateAverages(t *testing.T) {
	a := clean("2024-03-10")
	a.Mood, a.Energy, a.Focus, a.CravingIntensity = 2, 4, 5, 6
	b := clean("2024-03-10")
	b.Mood, b.Energy, b.Focus, b.CravingIntensity = 4, 2, 3, 0
	outside := clean("2024-03-01")
	outside.CravingIntensity = 9

	got, err := Aggregate([]model.DailyLog{a, b, outside}, 3, date("2024-03-10"))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	last := got[2]
	if last.CravingCount != 1 {
		t.Errorf("craving count = %d, want 1", last.CravingCount)
	}
	if last.AvgMood != 3 || last.AvgEnergy != 3 || last.AvgFocus != 4 || last.AvgCravingIntensity != 3 {
		t.Errorf("averages = %+v", last)
	}
	if got[0].CravingCount != 0 {
		t.Errorf("day outside logs should be empty, got %+v", got[0])
	}
}

func TestAggregateRejectsBadWindow(t *testing.T) {
	for _, n := range []int{0, -1, MaxWindowDays + 1} {
		if _, err := Aggregate(nil, n, date("2024-03-10")); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("window %d: err = %v, want ErrInvalidArgument", n, err)
		}
	}
}

func TestMoneySaved(t *testing.T) {
	g := &model.Goal{Active: true, DailyCostCents: 850}
	if got := MoneySaved(g, 10); got != 8500 {
		t.Errorf("MoneySaved = %d, want 8500", got)
	}
	if got := MoneySaved(nil, 10); got != 0 {
		t.Errorf("MoneySaved(nil) = %d, want 0", got)
	}
}
