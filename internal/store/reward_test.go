package store

import (
	"testing"
)

func TestRewardCreateAndList(t *testing.T) {
	rs := NewRewardStore(setupTestDB(t))
	ctx := t.Context()

	coffee, err := rs.Create(ctx, "Coffee", "A nice flat white", 20, true)
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if coffee.Title != "Coffee" || coffee.PointsRequired != 20 || !coffee.Active {
		t.Errorf("reward = %+v", coffee)
	}
	if _, err := rs.Create(ctx, "Cinema", "", 150, false); err != nil {
		t.Fatalf("create inactive reward: %v", err)
	}

	all, err := rs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}

	active, err := rs.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != coffee.ID {
		t.Errorf("active = %+v, want only coffee", active)
	}
}

func TestRewardSetActive(t *testing.T) {
	rs := NewRewardStore(setupTestDB(t))
	ctx := t.Context()

	r, err := rs.Create(ctx, "Coffee", "", 20, true)
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	r, err = rs.SetActive(ctx, r.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if r.Active {
		t.Error("expected inactive")
	}

	got, err := rs.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Active {
		t.Error("stored reward still active")
	}
}

func TestRewardGetMissing(t *testing.T) {
	rs := NewRewardStore(setupTestDB(t))
	got, err := rs.GetByID(t.Context(), 999)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
