package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/afresh/internal/database"
	"github.com/dukerupert/afresh/internal/model"
	"github.com/dukerupert/afresh/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	svc     *Service
	rewards *store.RewardStore
	claims  *store.ClaimStore
	steps   *store.StepStore
}

func setupLedger(t *testing.T, cfg Config) testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { db.Close() })

	env := testEnv{
		rewards: store.NewRewardStore(db),
		claims:  store.NewClaimStore(db),
		steps:   store.NewStepStore(db),
	}
	env.svc = NewService(env.steps, env.claims, env.rewards, cfg, discardLogger())
	return env
}

func day(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestClaimScenario(t *testing.T) {
	env := setupLedger(t, DefaultConfig())
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 2500)
	require.NoError(t, err)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 25, bal.Balance)

	reward, err := env.rewards.Create(ctx, "Coffee", "A nice coffee", 20, true)
	require.NoError(t, err)

	claim, err := env.svc.Claim(ctx, "u1", reward.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, claim.PointsRedeemed)
	assert.Equal(t, model.ClaimFulfilled, claim.Status)

	bal, err = env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, bal.Balance)
	assert.Equal(t, 20, bal.TotalSpent)

	_, err = env.svc.Claim(ctx, "u1", reward.ID)
	assert.ErrorIs(t, err, model.ErrInsufficientPoints)

	bal, err = env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, bal.Balance, "failed claim must not change the balance")
}

func TestRecordStepsIdempotent(t *testing.T) {
	env := setupLedger(t, DefaultConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		e, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 4200)
		require.NoError(t, err)
		assert.Equal(t, 42, e.PointsEarned)
	}

	n, err := env.steps.Count(ctx, "u1", day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, bal.Balance)
}

func TestRecordStepsOverwriteLowersEarned(t *testing.T) {
	env := setupLedger(t, DefaultConfig())
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 9999)
	require.NoError(t, err)
	_, err = env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 150)
	require.NoError(t, err)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, bal.TotalEarned)
}

func TestRecordStepsRejectsNegative(t *testing.T) {
	env := setupLedger(t, DefaultConfig())

	_, err := env.svc.RecordSteps(context.Background(), "u1", day("2024-03-01"), -1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestBalanceZeroForNewUser(t *testing.T) {
	env := setupLedger(t, DefaultConfig())

	bal, err := env.svc.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Balance)
	assert.Equal(t, 0, bal.Spendable)
	assert.False(t, bal.Clamped)
}

func TestClaimUnknownAndInactiveReward(t *testing.T) {
	env := setupLedger(t, DefaultConfig())
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 10000)
	require.NoError(t, err)

	_, err = env.svc.Claim(ctx, "u1", 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)

	reward, err := env.rewards.Create(ctx, "Retired", "", 10, false)
	require.NoError(t, err)
	_, err = env.svc.Claim(ctx, "u1", reward.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100, bal.Balance)
}

func TestConcurrentClaimsNeverOverspend(t *testing.T) {
	env := setupLedger(t, DefaultConfig())
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 10000)
	require.NoError(t, err)
	reward, err := env.rewards.Create(ctx, "Headphones", "", 80, true)
	require.NoError(t, err)

	var committed, short atomic.Int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := env.svc.Claim(ctx, "u1", reward.ID)
			switch {
			case err == nil:
				committed.Add(1)
			case errors.Is(err, model.ErrInsufficientPoints):
				short.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), committed.Load())
	assert.Equal(t, int32(1), short.Load())

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, bal.Balance)
}

func TestManualFulfillmentReservesPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fulfillment = FulfillManual
	env := setupLedger(t, cfg)
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 3000)
	require.NoError(t, err)
	reward, err := env.rewards.Create(ctx, "Book", "", 20, true)
	require.NoError(t, err)

	claim, err := env.svc.Claim(ctx, "u1", reward.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimPending, claim.Status)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 30, bal.Balance, "pending claims do not reduce the balance")
	assert.Equal(t, 10, bal.Spendable)
	assert.Equal(t, 20, bal.Reserved)

	_, err = env.svc.Claim(ctx, "u1", reward.ID)
	assert.ErrorIs(t, err, model.ErrInsufficientPoints)

	resolved, err := env.svc.ResolveClaim(ctx, claim.ID, model.ClaimFulfilled)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimFulfilled, resolved.Status)

	bal, err = env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, bal.Balance)
	assert.Equal(t, 0, bal.Reserved)

	_, err = env.svc.ResolveClaim(ctx, claim.ID, model.ClaimRejected)
	assert.ErrorIs(t, err, model.ErrNotFound, "resolved claims are final")
}

func TestRejectedClaimReleasesPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fulfillment = FulfillManual
	env := setupLedger(t, cfg)
	ctx := context.Background()

	_, err := env.svc.RecordSteps(ctx, "u1", day("2024-03-01"), 2000)
	require.NoError(t, err)
	reward, err := env.rewards.Create(ctx, "Book", "", 20, true)
	require.NoError(t, err)

	claim, err := env.svc.Claim(ctx, "u1", reward.ID)
	require.NoError(t, err)
	_, err = env.svc.ResolveClaim(ctx, claim.ID, model.ClaimRejected)
	require.NoError(t, err)

	bal, err := env.svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, bal.Spendable)
}

// conflictClaims fails ClaimAtomic with ErrConflict a fixed number of times.
type conflictClaims struct {
	failures int
	calls    int
	totals   model.LedgerTotals
}

func (c *conflictClaims) Totals(context.Context, string) (model.LedgerTotals, error) {
	return c.totals, nil
}

func (c *conflictClaims) ClaimAtomic(_ context.Context, req model.ClaimRequest) (*model.ClaimedReward, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, model.ErrConflict
	}
	return &model.ClaimedReward{ID: 1, UserID: req.UserID, RewardID: req.RewardID, PointsRedeemed: 10, Status: req.Status, ClaimedAt: req.ClaimedAt}, nil
}

func (c *conflictClaims) ListByUser(context.Context, string) ([]model.ClaimedReward, error) {
	return nil, nil
}

func (c *conflictClaims) Resolve(context.Context, int64, model.ClaimStatus) (*model.ClaimedReward, error) {
	return nil, model.ErrNotFound
}

func TestClaimRetriesConflictOnce(t *testing.T) {
	claims := &conflictClaims{failures: 1}
	svc := NewService(nil, claims, nil, Config{ConflictBackoff: time.Millisecond}, discardLogger())

	claim, err := svc.Claim(context.Background(), "u1", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claim.RewardID)
	assert.Equal(t, 2, claims.calls)
}

func TestClaimSurfacesConflictAfterRetry(t *testing.T) {
	claims := &conflictClaims{failures: 5}
	svc := NewService(nil, claims, nil, Config{ConflictBackoff: time.Millisecond}, discardLogger())

	_, err := svc.Claim(context.Background(), "u1", 7)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 2, claims.calls)
}

func TestBalanceClampsCorruptTotals(t *testing.T) {
	claims := &conflictClaims{totals: model.LedgerTotals{Earned: 10, Fulfilled: 30}}
	svc := NewService(nil, claims, nil, DefaultConfig(), discardLogger())

	bal, err := svc.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Balance)
	assert.True(t, bal.Clamped)
}
