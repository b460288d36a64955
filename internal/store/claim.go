package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/afresh/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ClaimStore is the append-only claim ledger. Together with step_entries it
// is the only state the points balance is derived from.
type ClaimStore struct {
	db *sql.DB
}

func NewClaimStore(db *sql.DB) *ClaimStore {
	return &ClaimStore{db: db}
}

func scanClaim(scanner interface{ Scan(...any) error }) (*model.ClaimedReward, error) {
	var c model.ClaimedReward
	var status string

	err := scanner.Scan(&c.ID, &c.UserID, &c.RewardID, &c.PointsRedeemed, &status, &c.ClaimedAt)
	if err != nil {
		return nil, err
	}
	c.Status = model.ClaimStatus(status)
	return &c, nil
}

const claimCols = `id, user_id, reward_id, points_redeemed, status, claimed_at`

// Totals returns the sums the user's balance is derived from.
func (s *ClaimStore) Totals(ctx context.Context, userID string) (model.LedgerTotals, error) {
	return totals(ctx, s.db, userID)
}

func totals(ctx context.Context, q querier, userID string) (model.LedgerTotals, error) {
	var t model.LedgerTotals
	err := q.QueryRowContext(ctx,
		`SELECT
			(SELECT COALESCE(SUM(points_earned), 0) FROM step_entries WHERE user_id = ?),
			(SELECT COALESCE(SUM(points_redeemed), 0) FROM claimed_rewards WHERE user_id = ? AND status = 'fulfilled'),
			(SELECT COALESCE(SUM(points_redeemed), 0) FROM claimed_rewards WHERE user_id = ? AND status = 'pending')`,
		userID, userID, userID,
	).Scan(&t.Earned, &t.Fulfilled, &t.Pending)
	if err != nil {
		return model.LedgerTotals{}, wrap("sum ledger totals", err)
	}
	return t, nil
}

// ClaimAtomic validates the reward, checks the spendable balance and
// inserts the claim inside one write transaction. The insert re-evaluates
// the balance in its own WHERE clause, so the row can only be written when
// the points are still there at commit time.
//
// Errors: model.ErrNotFound for an unknown or inactive reward,
// model.ErrInsufficientPoints when the balance is short, model.ErrConflict
// when the write lock could not be taken.
func (s *ClaimStore) ClaimAtomic(ctx context.Context, req model.ClaimRequest) (*model.ClaimedReward, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrInvalidArgument)
	}
	if !req.Status.Valid() || req.Status == model.ClaimRejected {
		return nil, fmt.Errorf("%w: claim status %q", model.ErrInvalidArgument, req.Status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin claim tx", err)
	}
	defer tx.Rollback()

	reward, err := scanReward(tx.QueryRowContext(ctx, `SELECT `+rewardCols+` FROM rewards WHERE id = ?`, req.RewardID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reward %d: %w", req.RewardID, model.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get reward", err)
	}
	if !reward.Active {
		return nil, fmt.Errorf("reward %d is inactive: %w", req.RewardID, model.ErrNotFound)
	}

	t, err := totals(ctx, tx, req.UserID)
	if err != nil {
		return nil, err
	}
	bal := model.NewPointBalance(req.UserID, t)
	if bal.Spendable < reward.PointsRequired {
		return nil, fmt.Errorf("have %d, need %d: %w", bal.Spendable, reward.PointsRequired, model.ErrInsufficientPoints)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO claimed_rewards (user_id, reward_id, points_redeemed, status, claimed_at)
		 SELECT ?, ?, ?, ?, ?
		 WHERE (SELECT COALESCE(SUM(points_earned), 0) FROM step_entries WHERE user_id = ?)
		     - (SELECT COALESCE(SUM(points_redeemed), 0) FROM claimed_rewards WHERE user_id = ? AND status IN ('pending', 'fulfilled'))
		     >= ?`,
		req.UserID, reward.ID, reward.PointsRequired, string(req.Status), req.ClaimedAt.UTC(),
		req.UserID, req.UserID, reward.PointsRequired,
	)
	if err != nil {
		return nil, wrap("insert claim", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, wrap("rows affected", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("balance changed before insert: %w", model.ErrInsufficientPoints)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, wrap("last insert id", err)
	}

	claim, err := scanClaim(tx.QueryRowContext(ctx, `SELECT `+claimCols+` FROM claimed_rewards WHERE id = ?`, id))
	if err != nil {
		return nil, wrap("get claim", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrap("commit claim tx", err)
	}
	return claim, nil
}

func (s *ClaimStore) GetByID(ctx context.Context, id int64) (*model.ClaimedReward, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+claimCols+` FROM claimed_rewards WHERE id = ?`, id)
	c, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get claim", err)
	}
	return c, nil
}

// ListByUser returns the user's claims, newest first.
func (s *ClaimStore) ListByUser(ctx context.Context, userID string) ([]model.ClaimedReward, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+claimCols+` FROM claimed_rewards WHERE user_id = ? ORDER BY claimed_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, wrap("list claims", err)
	}
	defer rows.Close()

	var claims []model.ClaimedReward
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, wrap("scan claim", err)
		}
		claims = append(claims, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list claims", err)
	}
	return claims, nil
}

// Resolve moves a pending claim to fulfilled or rejected. It is the hook the
// external fulfillment process uses; resolved claims never change again.
func (s *ClaimStore) Resolve(ctx context.Context, id int64, status model.ClaimStatus) (*model.ClaimedReward, error) {
	if status != model.ClaimFulfilled && status != model.ClaimRejected {
		return nil, fmt.Errorf("%w: cannot resolve claim to %q", model.ErrInvalidArgument, status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE claimed_rewards SET status = ? WHERE id = ? AND status = 'pending'`,
		string(status), id,
	)
	if err != nil {
		return nil, wrap("resolve claim", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("pending claim %d: %w", id, model.ErrNotFound)
	}
	return s.GetByID(ctx, id)
}
