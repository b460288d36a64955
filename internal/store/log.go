package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

func scanDailyLog(scanner interface{ Scan(...any) error }) (*model.DailyLog, error) {
	var l model.DailyLog
	var date string
	var usedNicotine int
	var productType, cravingTrigger, journal sql.NullString
	var quantity sql.NullFloat64

	err := scanner.Scan(
		&l.ID, &l.UserID, &date, &usedNicotine, &productType, &quantity,
		&l.Mood, &l.Energy, &l.Focus, &l.SleepHours, &l.SleepQuality,
		&l.CravingIntensity, &cravingTrigger, &journal,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Date, err = model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("stored log_date: %w", err)
	}
	l.UsedNicotine = usedNicotine != 0
	if productType.Valid {
		l.ProductType = &productType.String
	}
	if quantity.Valid {
		l.Quantity = &quantity.Float64
	}
	if cravingTrigger.Valid {
		l.CravingTrigger = &cravingTrigger.String
	}
	if journal.Valid {
		l.Journal = &journal.String
	}
	return &l, nil
}

const logCols = `id, user_id, log_date, used_nicotine, product_type, quantity, mood, energy, focus,
	sleep_hours, sleep_quality, craving_intensity, craving_trigger, journal, created_at, updated_at`

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

// Upsert validates l and writes it as the single log for (user, date).
func (s *LogStore) Upsert(ctx context.Context, l model.DailyLog) (*model.DailyLog, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_logs (user_id, log_date, used_nicotine, product_type, quantity, mood, energy, focus,
			sleep_hours, sleep_quality, craving_intensity, craving_trigger, journal, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, log_date) DO UPDATE SET
			used_nicotine = excluded.used_nicotine,
			product_type = excluded.product_type,
			quantity = excluded.quantity,
			mood = excluded.mood,
			energy = excluded.energy,
			focus = excluded.focus,
			sleep_hours = excluded.sleep_hours,
			sleep_quality = excluded.sleep_quality,
			craving_intensity = excluded.craving_intensity,
			craving_trigger = excluded.craving_trigger,
			journal = excluded.journal,
			updated_at = excluded.updated_at`,
		l.UserID, model.FormatDate(l.Date), boolInt(l.UsedNicotine), nullString(l.ProductType), nullFloat(l.Quantity),
		l.Mood, l.Energy, l.Focus, l.SleepHours, l.SleepQuality,
		l.CravingIntensity, nullString(l.CravingTrigger), nullString(l.Journal), time.Now().UTC(),
	)
	if err != nil {
		return nil, wrap("upsert daily log", err)
	}
	return s.Get(ctx, l.UserID, l.Date)
}

func (s *LogStore) Get(ctx context.Context, userID string, date time.Time) (*model.DailyLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+logCols+` FROM daily_logs WHERE user_id = ? AND log_date = ?`,
		userID, model.FormatDate(date),
	)
	l, err := scanDailyLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get daily log", err)
	}
	return l, nil
}

// ListByUser returns every log for the user, most recent date first.
func (s *LogStore) ListByUser(ctx context.Context, userID string) ([]model.DailyLog, error) {
	return s.query(ctx, "list daily logs",
		`SELECT `+logCols+` FROM daily_logs WHERE user_id = ? ORDER BY log_date DESC`,
		userID,
	)
}

// ListRange returns logs dated within [from, to], oldest first.
func (s *LogStore) ListRange(ctx context.Context, userID string, from, to time.Time) ([]model.DailyLog, error) {
	return s.query(ctx, "list daily logs in range",
		`SELECT `+logCols+` FROM daily_logs WHERE user_id = ? AND log_date BETWEEN ? AND ? ORDER BY log_date ASC`,
		userID, model.FormatDate(from), model.FormatDate(to),
	)
}

func (s *LogStore) query(ctx context.Context, op, query string, args ...any) ([]model.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var logs []model.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, wrap("scan daily log", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return logs, nil
}
