package server

import (
	"database/sql"
	"log/slog"

	"github.com/dukerupert/afresh/internal/config"
	"github.com/dukerupert/afresh/internal/ledger"
	"github.com/dukerupert/afresh/internal/progress"
	"github.com/dukerupert/afresh/internal/store"
)

// Services bundles the stores and engine services over one database. The
// HTTP server and the CLI build the same graph.
type Services struct {
	Steps    *store.StepStore
	Claims   *store.ClaimStore
	Rewards  *store.RewardStore
	Logs     *store.LogStore
	Goals    *store.GoalStore
	Ledger   *ledger.Service
	Progress *progress.Service
}

func NewServices(db *sql.DB, cfg config.Config, logger *slog.Logger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Services{
		Steps:   store.NewStepStore(db),
		Claims:  store.NewClaimStore(db),
		Rewards: store.NewRewardStore(db),
		Logs:    store.NewLogStore(db),
		Goals:   store.NewGoalStore(db),
	}

	s.Ledger = ledger.NewService(s.Steps, s.Claims, s.Rewards, ledger.Config{
		Fulfillment:     ledger.FulfillmentMode(cfg.Ledger.Fulfillment),
		ConflictBackoff: cfg.Ledger.ConflictBackoff,
	}, logger.With("component", "ledger"))

	s.Progress = progress.NewService(s.Logs, s.Goals, s.Ledger, loc, logger.With("component", "progress"))
	return s, nil
}
