package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

func TestEraseUser(t *testing.T) {
	env := setupClaimTestDB(t)
	ctx := t.Context()
	logs := NewLogStore(env.db)
	goals := NewGoalStore(env.db)

	for _, user := range []string{"u1", "u2"} {
		if _, err := env.steps.Upsert(ctx, user, mustDate(t, "2024-03-01"), 5000); err != nil {
			t.Fatalf("upsert steps: %v", err)
		}
		if _, err := logs.Upsert(ctx, testLog(t, user, "2024-03-01")); err != nil {
			t.Fatalf("upsert log: %v", err)
		}
		if _, err := goals.Set(ctx, model.Goal{UserID: user, QuitDate: time.Now(), Active: true}); err != nil {
			t.Fatalf("set goal: %v", err)
		}
	}
	r := env.reward(t, 10, true)
	if _, err := env.claims.ClaimAtomic(ctx, claimReq("u1", r.ID, model.ClaimFulfilled)); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if err := EraseUser(ctx, env.db, "u1"); err != nil {
		t.Fatalf("erase: %v", err)
	}

	tot, err := env.claims.Totals(ctx, "u1")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if tot != (model.LedgerTotals{}) {
		t.Errorf("u1 totals = %+v, want zero", tot)
	}
	if l, _ := logs.ListByUser(ctx, "u1"); len(l) != 0 {
		t.Errorf("u1 logs = %d, want 0", len(l))
	}
	if g, _ := goals.Get(ctx, "u1"); g != nil {
		t.Errorf("u1 goal = %+v, want nil", g)
	}

	if l, _ := logs.ListByUser(ctx, "u2"); len(l) != 1 {
		t.Errorf("u2 logs = %d, want 1", len(l))
	}
	if got, _ := env.rewards.GetByID(ctx, r.ID); got == nil {
		t.Error("erase removed a shared reward")
	}

	if err := EraseUser(ctx, env.db, ""); !errors.Is(err, model.ErrInvalidArgument) {
		t.Errorf("empty user err = %v, want ErrInvalidArgument", err)
	}
}
