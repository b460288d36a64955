package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/afresh/internal/model"
)

func TestGoalSetAndGet(t *testing.T) {
	gs := NewGoalStore(setupTestDB(t))
	ctx := t.Context()

	got, err := gs.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil goal, got %+v", got)
	}

	quit := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	g, err := gs.Set(ctx, model.Goal{UserID: "u1", QuitDate: quit, Active: true, DailyCostCents: 900, Currency: "USD"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !g.QuitDate.Equal(quit) {
		t.Errorf("quit date = %v, want %v", g.QuitDate, quit)
	}
	if !g.Active || g.DailyCostCents != 900 || g.Currency != "USD" {
		t.Errorf("goal = %+v", g)
	}

	g, err = gs.Set(ctx, model.Goal{UserID: "u1", QuitDate: quit.AddDate(0, 0, 3), Active: false})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if g.Active {
		t.Error("expected replaced goal to be inactive")
	}
}

func TestGoalSetValidation(t *testing.T) {
	gs := NewGoalStore(setupTestDB(t))
	ctx := t.Context()

	tests := []struct {
		name string
		goal model.Goal
	}{
		{"no user", model.Goal{QuitDate: time.Now()}},
		{"no quit date", model.Goal{UserID: "u1"}},
		{"negative cost", model.Goal{UserID: "u1", QuitDate: time.Now(), DailyCostCents: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gs.Set(ctx, tt.goal); !errors.Is(err, model.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
