package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/afresh/internal/model"
)

// RewardStore is the reward catalog. The ledger only reads it; rows are
// managed by operators through the CLI.
type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var active int

	err := scanner.Scan(&r.ID, &r.Title, &r.Description, &r.PointsRequired, &active, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.Active = active != 0
	return &r, nil
}

const rewardCols = `id, title, description, points_required, active, created_at`

func (s *RewardStore) Create(ctx context.Context, title, description string, pointsRequired int, active bool) (*model.Reward, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrInvalidArgument)
	}
	if pointsRequired <= 0 {
		return nil, fmt.Errorf("%w: points_required must be > 0", model.ErrInvalidArgument)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO rewards (title, description, points_required, active) VALUES (?, ?, ?, ?)`,
		title, description, pointsRequired, boolInt(active),
	)
	if err != nil {
		return nil, wrap("insert reward", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrap("last insert id", err)
	}
	return s.GetByID(ctx, id)
}

func (s *RewardStore) GetByID(ctx context.Context, id int64) (*model.Reward, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get reward", err)
	}
	return r, nil
}

// List returns all rewards, active first, then by cost.
func (s *RewardStore) List(ctx context.Context) ([]model.Reward, error) {
	return s.list(ctx, "list rewards",
		`SELECT `+rewardCols+` FROM rewards ORDER BY active DESC, points_required ASC, title ASC`)
}

// ListActive returns only claimable rewards, cheapest first.
func (s *RewardStore) ListActive(ctx context.Context) ([]model.Reward, error) {
	return s.list(ctx, "list active rewards",
		`SELECT `+rewardCols+` FROM rewards WHERE active = 1 ORDER BY points_required ASC, title ASC`)
}

func (s *RewardStore) SetActive(ctx context.Context, id int64, active bool) (*model.Reward, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE rewards SET active = ? WHERE id = ?`, boolInt(active), id)
	if err != nil {
		return nil, wrap("update reward", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("reward %d: %w", id, model.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}

func (s *RewardStore) list(ctx context.Context, op, query string) ([]model.Reward, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, wrap("scan reward", err)
		}
		rewards = append(rewards, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return rewards, nil
}
