// Package ledger implements the step-based points economy: recording daily
// steps, deriving a user's balance and claiming rewards against it.
//
// The balance is never stored. It is recomputed from step entries and
// fulfilled claims on every read, and the claim check-and-write happens in
// a single store transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dukerupert/afresh/internal/metrics"
	"github.com/dukerupert/afresh/internal/model"
)

// StepStore persists one step entry per user and date.
type StepStore interface {
	Upsert(ctx context.Context, userID string, date time.Time, steps int) (*model.StepEntry, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]model.StepEntry, error)
}

// ClaimStore owns the claim ledger and the transaction around claiming.
type ClaimStore interface {
	Totals(ctx context.Context, userID string) (model.LedgerTotals, error)
	ClaimAtomic(ctx context.Context, req model.ClaimRequest) (*model.ClaimedReward, error)
	ListByUser(ctx context.Context, userID string) ([]model.ClaimedReward, error)
	Resolve(ctx context.Context, id int64, status model.ClaimStatus) (*model.ClaimedReward, error)
}

// RewardCatalog lists claimable rewards.
type RewardCatalog interface {
	ListActive(ctx context.Context) ([]model.Reward, error)
}

// FulfillmentMode decides the status a successful claim is written with.
type FulfillmentMode string

const (
	// FulfillImmediate writes claims as fulfilled; the balance drops at once.
	FulfillImmediate FulfillmentMode = "immediate"
	// FulfillManual writes claims as pending for an external process to
	// resolve. Pending points are reserved but still count in the balance.
	FulfillManual FulfillmentMode = "manual"
)

type Config struct {
	Fulfillment FulfillmentMode
	// ConflictBackoff is the pause before the single conflict retry.
	ConflictBackoff time.Duration
}

func DefaultConfig() Config {
	return Config{
		Fulfillment:     FulfillImmediate,
		ConflictBackoff: 25 * time.Millisecond,
	}
}

type Service struct {
	steps   StepStore
	claims  ClaimStore
	rewards RewardCatalog
	cfg     Config
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(steps StepStore, claims ClaimStore, rewards RewardCatalog, cfg Config, logger *slog.Logger) *Service {
	if cfg.Fulfillment == "" {
		cfg.Fulfillment = FulfillImmediate
	}
	if cfg.ConflictBackoff <= 0 {
		cfg.ConflictBackoff = DefaultConfig().ConflictBackoff
	}
	return &Service{
		steps:   steps,
		claims:  claims,
		rewards: rewards,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock overrides the time source used for claim timestamps.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// RecordSteps stores the step count for a user's day. Replaying the same
// count leaves the same row behind.
func (s *Service) RecordSteps(ctx context.Context, userID string, date time.Time, steps int) (*model.StepEntry, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps must be >= 0, got %d", model.ErrInvalidArgument, steps)
	}

	entry, err := s.steps.Upsert(ctx, userID, model.CalendarDate(date), steps)
	if err != nil {
		return nil, err
	}

	metrics.StepsRecorded.Inc()
	s.logger.Debug("steps recorded", "user_id", userID, "date", model.FormatDate(entry.Date), "steps", entry.Steps, "points", entry.PointsEarned)
	return entry, nil
}

// StepHistory returns the user's step entries in [from, to].
func (s *Service) StepHistory(ctx context.Context, userID string, from, to time.Time) ([]model.StepEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end before start", model.ErrInvalidArgument)
	}
	return s.steps.ListByUser(ctx, userID, model.CalendarDate(from), model.CalendarDate(to))
}

// Balance derives the user's points balance. A negative raw balance is
// reported as zero and surfaced through logs and metrics.
func (s *Service) Balance(ctx context.Context, userID string) (model.PointBalance, error) {
	t, err := s.claims.Totals(ctx, userID)
	if err != nil {
		return model.PointBalance{}, err
	}

	b := model.NewPointBalance(userID, t)
	if b.Clamped {
		metrics.NegativeBalance.Inc()
		s.logger.Error("negative points balance clamped to zero",
			"user_id", userID, "earned", t.Earned, "fulfilled", t.Fulfilled)
	}
	return b, nil
}

// Claim redeems a reward. The store validates the reward, re-reads the
// balance and writes the claim in one transaction; a lost write lock is
// retried once before ErrConflict is returned. ErrNotFound and
// ErrInsufficientPoints are returned as-is and never retried.
func (s *Service) Claim(ctx context.Context, userID string, rewardID int64) (*model.ClaimedReward, error) {
	status := model.ClaimFulfilled
	if s.cfg.Fulfillment == FulfillManual {
		status = model.ClaimPending
	}

	logger := s.logger.With("user_id", userID, "reward_id", rewardID)
	logger.Debug("claim requested")

	var claim *model.ClaimedReward
	attempt := 0
	backoff := retry.WithMaxRetries(1, retry.NewConstant(s.cfg.ConflictBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			metrics.ClaimRetries.Inc()
			logger.Warn("retrying claim after conflict", "attempt", attempt)
		}

		c, err := s.claims.ClaimAtomic(ctx, model.ClaimRequest{
			UserID:    userID,
			RewardID:  rewardID,
			Status:    status,
			ClaimedAt: s.now(),
		})
		if errors.Is(err, model.ErrConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		claim = c
		return nil
	})

	outcome := claimOutcome(err)
	metrics.ClaimOutcomes.WithLabelValues(outcome).Inc()

	if err != nil {
		if outcome == "error" {
			logger.Error("claim failed", "error", err)
		} else {
			logger.Info("claim rejected", "reason", outcome, "error", err)
		}
		return nil, err
	}

	logger.Info("claim committed", "claim_id", claim.ID, "points", claim.PointsRedeemed, "status", claim.Status)
	return claim, nil
}

// Rewards lists the claimable catalog.
func (s *Service) Rewards(ctx context.Context) ([]model.Reward, error) {
	return s.rewards.ListActive(ctx)
}

// Claims lists the user's claim history, newest first.
func (s *Service) Claims(ctx context.Context, userID string) ([]model.ClaimedReward, error) {
	return s.claims.ListByUser(ctx, userID)
}

// ResolveClaim settles a pending claim as fulfilled or rejected.
func (s *Service) ResolveClaim(ctx context.Context, claimID int64, status model.ClaimStatus) (*model.ClaimedReward, error) {
	c, err := s.claims.Resolve(ctx, claimID, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("claim resolved", "claim_id", c.ID, "user_id", c.UserID, "status", c.Status)
	return c, nil
}

func claimOutcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.Is(err, model.ErrInvalidArgument):
		return "invalid_argument"
	}
	return "error"
}
