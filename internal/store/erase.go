package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/afresh/internal/model"
)

// EraseUser deletes every row owned by userID in one transaction. It is the
// only path that removes daily logs.
func EraseUser(ctx context.Context, db *sql.DB, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", model.ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin erase tx", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"claimed_rewards", "step_entries", "daily_logs", "goals"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ?`, userID); err != nil {
			return wrap("erase "+table, err)
		}
	}
	return wrap("commit erase tx", tx.Commit())
}
