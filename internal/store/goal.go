package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

const goalCols = `user_id, quit_date, active, daily_cost_cents, currency, updated_at`

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	var active int
	if err := scanner.Scan(&g.UserID, &g.QuitDate, &active, &g.DailyCostCents, &g.Currency, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Active = active != 0
	return &g, nil
}

// Set replaces the user's goal.
func (s *GoalStore) Set(ctx context.Context, g model.Goal) (*model.Goal, error) {
	if g.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrInvalidArgument)
	}
	if g.QuitDate.IsZero() {
		return nil, fmt.Errorf("%w: quit_date is required", model.ErrInvalidArgument)
	}
	if g.DailyCostCents < 0 {
		return nil, fmt.Errorf("%w: daily_cost_cents must be >= 0", model.ErrInvalidArgument)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, quit_date, active, daily_cost_cents, currency, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET quit_date = excluded.quit_date, active = excluded.active,
			daily_cost_cents = excluded.daily_cost_cents, currency = excluded.currency, updated_at = excluded.updated_at`,
		g.UserID, g.QuitDate.UTC(), boolInt(g.Active), g.DailyCostCents, g.Currency, time.Now().UTC(),
	)
	if err != nil {
		return nil, wrap("upsert goal", err)
	}
	return s.Get(ctx, g.UserID)
}

// Get returns the user's goal, or nil when none was ever set.
func (s *GoalStore) Get(ctx context.Context, userID string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalCols+` FROM goals WHERE user_id = ?`, userID)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get goal", err)
	}
	return g, nil
}
