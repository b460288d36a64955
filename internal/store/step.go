package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

type StepStore struct {
	db *sql.DB
}

func NewStepStore(db *sql.DB) *StepStore {
	return &StepStore{db: db}
}

func scanStepEntry(scanner interface{ Scan(...any) error }) (*model.StepEntry, error) {
	var e model.StepEntry
	var date string

	err := scanner.Scan(&e.ID, &e.UserID, &date, &e.Steps, &e.PointsEarned, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Date, err = model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("stored entry_date: %w", err)
	}
	return &e, nil
}

const stepCols = `id, user_id, entry_date, steps, points_earned, updated_at`

// Upsert writes the step count for (user, date), recomputing points from
// steps. Concurrent writers are last-write-wins.
func (s *StepStore) Upsert(ctx context.Context, userID string, date time.Time, steps int) (*model.StepEntry, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must be >= 0, got %d", model.ErrInvalidArgument, steps)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrInvalidArgument)
	}

	day := model.FormatDate(date)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO step_entries (user_id, entry_date, steps, points_earned, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, entry_date) DO UPDATE SET steps = excluded.steps, points_earned = excluded.points_earned, updated_at = excluded.updated_at`,
		userID, day, steps, model.PointsForSteps(steps), time.Now().UTC(),
	)
	if err != nil {
		return nil, wrap("upsert step entry", err)
	}
	return s.Get(ctx, userID, date)
}

func (s *StepStore) Get(ctx context.Context, userID string, date time.Time) (*model.StepEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+stepCols+` FROM step_entries WHERE user_id = ? AND entry_date = ?`,
		userID, model.FormatDate(date),
	)
	e, err := scanStepEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get step entry", err)
	}
	return e, nil
}

// ListByUser returns entries in [from, to], oldest first.
func (s *StepStore) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]model.StepEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stepCols+` FROM step_entries WHERE user_id = ? AND entry_date BETWEEN ? AND ? ORDER BY entry_date ASC`,
		userID, model.FormatDate(from), model.FormatDate(to),
	)
	if err != nil {
		return nil, wrap("list step entries", err)
	}
	defer rows.Close()

	var entries []model.StepEntry
	for rows.Next() {
		e, err := scanStepEntry(rows)
		if err != nil {
			return nil, wrap("scan step entry", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate step entries", err)
	}
	return entries, nil
}

// Count returns how many entries exist for (user, date); it is only ever
// 0 or 1.
func (s *StepStore) Count(ctx context.Context, userID string, date time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM step_entries WHERE user_id = ? AND entry_date = ?`,
		userID, model.FormatDate(date),
	).Scan(&n)
	if err != nil {
		return 0, wrap("count step entries", err)
	}
	return n, nil
}
