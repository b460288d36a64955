// Package progress derives streaks, achievements, health milestones and
// windowed wellness aggregates from a user's log history. Nothing it
// computes is stored; every call recomputes from the logs and the goal.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/afresh/internal/model"
)

type LogSource interface {
	ListByUser(ctx context.Context, userID string) ([]model.DailyLog, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]model.DailyLog, error)
}

type GoalSource interface {
	Get(ctx context.Context, userID string) (*model.Goal, error)
}

// BalanceSource supplies the points figure for the dashboard summary.
type BalanceSource interface {
	Balance(ctx context.Context, userID string) (model.PointBalance, error)
}

type Service struct {
	logs     LogSource
	goals    GoalSource
	balances BalanceSource
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewService builds a progress service. loc is the zone "today" is computed
// in; nil means UTC.
func NewService(logs LogSource, goals GoalSource, balances BalanceSource, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		logs:     logs,
		goals:    goals,
		balances: balances,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Today returns the current calendar date in the service's zone.
func (s *Service) Today() time.Time {
	return model.CalendarDate(s.now().In(s.loc))
}

func (s *Service) activeGoal(ctx context.Context, userID string) (*model.Goal, error) {
	g, err := s.goals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if g == nil || !g.Active {
		return nil, nil
	}
	return g, nil
}

// DaysAfresh returns the streak under the requested definition.
func (s *Service) DaysAfresh(ctx context.Context, userID string, mode model.StreakMode) (int, error) {
	switch mode {
	case model.StreakGoal:
		g, err := s.activeGoal(ctx, userID)
		if err != nil {
			return 0, err
		}
		return DaysAfreshFromGoal(g, s.now()), nil
	case model.StreakLog:
		logs, err := s.logs.ListByUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		return DaysAfreshFromLogs(logs, s.Today()), nil
	}
	return 0, fmt.Errorf("%w: unknown streak mode %q", model.ErrInvalidArgument, mode)
}

// Streaks reports the goal streak, the current log streak and the longest
// log streak together.
func (s *Service) Streaks(ctx context.Context, userID string) (model.Streaks, error) {
	g, err := s.activeGoal(ctx, userID)
	if err != nil {
		return model.Streaks{}, err
	}
	logs, err := s.logs.ListByUser(ctx, userID)
	if err != nil {
		return model.Streaks{}, err
	}
	return streaks(g, logs, s.now(), s.Today()), nil
}

func streaks(g *model.Goal, logs []model.DailyLog, now, today time.Time) model.Streaks {
	return model.Streaks{
		Goal:       DaysAfreshFromGoal(g, now),
		Log:        DaysAfreshFromLogs(logs, today),
		LongestLog: LongestLogStreak(logs, today),
	}
}

// achievementDays picks the streak achievements are judged on: the goal
// streak when an active goal exists, otherwise the log streak.
func achievementDays(g *model.Goal, st model.Streaks) int {
	if g != nil {
		return st.Goal
	}
	return st.Log
}

// Achievements evaluates the full catalog for the user.
func (s *Service) Achievements(ctx context.Context, userID string) ([]model.AchievementStatus, error) {
	g, err := s.activeGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := streaks(g, logs, s.now(), s.Today())
	return EvaluateAchievements(achievementDays(g, st), logs), nil
}

// HealthTimeline evaluates the timeline against time since the quit date.
// Without an active goal nothing is achieved.
func (s *Service) HealthTimeline(ctx context.Context, userID string) ([]model.HealthMilestoneStatus, error) {
	g, err := s.activeGoal(ctx, userID)
	if err != nil {
		return nil, err
	}
	return EvaluateHealthTimeline(Elapsed(g, s.now())), nil
}

// Window aggregates the windowDays days ending at end. A zero end means
// today.
func (s *Service) Window(ctx context.Context, userID string, windowDays int, end time.Time) ([]model.DaySummary, error) {
	if end.IsZero() {
		end = s.Today()
	}
	if _, err := Aggregate(nil, windowDays, end); err != nil {
		return nil, err
	}

	logs, err := s.logs.ListRange(ctx, userID, WindowStart(end, windowDays), model.CalendarDate(end))
	if err != nil {
		return nil, err
	}
	return Aggregate(logs, windowDays, end)
}

// Summary gathers the dashboard view. The balance, goal and log reads run
// concurrently; the first failure cancels the rest.
func (s *Service) Summary(ctx context.Context, userID string) (*model.Summary, error) {
	var (
		bal  model.PointBalance
		g    *model.Goal
		logs []model.DailyLog
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		bal, err = s.balances.Balance(ctx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		g, err = s.activeGoal(ctx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		logs, err = s.logs.ListByUser(ctx, userID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	st := streaks(g, logs, now, s.Today())
	achievements := EvaluateAchievements(achievementDays(g, st), logs)
	unlocked := 0
	for _, a := range achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	sum := &model.Summary{
		UserID:             userID,
		Points:             bal,
		Streaks:            st,
		MoneySavedCents:    MoneySaved(g, st.Goal),
		AchievementsTotal:  len(achievements),
		AchievementsEarned: unlocked,
		LoggedDays:         DistinctLogDays(logs),
	}
	if g != nil {
		sum.Currency = g.Currency
		sum.NextMilestone = NextMilestone(EvaluateHealthTimeline(Elapsed(g, now)))
	}

	s.logger.Debug("summary computed", "user_id", userID, "goal_days", st.Goal, "log_days", st.Log, "unlocked", unlocked)
	return sum, nil
}
