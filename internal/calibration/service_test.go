package calibration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/repository"
	"github.com/safequest/engine/internal/storage"
)

func newTestService(t *testing.T, rng RandFunc) (Service, *repository.KV) {
	t.Helper()
	repo := repository.NewKV(storage.NewMemoryStore())
	svc := NewService(repo, catalog.Default(), concurrency.NewLockManager(), nil, rng)
	return svc, repo
}

// seedInstance writes an inventory holding one instance of the given
// item at the given calibration level, with correctly derived stats.
func seedInstance(t *testing.T, repo *repository.KV, userID, itemID string, level int) string {
	t.Helper()
	cat := catalog.Default()
	def, ok := cat.ItemByID(itemID)
	require.True(t, ok)
	cfg, ok := cat.CalibrationConfigFor(def.Rarity)
	require.True(t, ok)

	inst := domain.ItemInstance{
		InstanceID:  "inst-" + itemID,
		ItemID:      itemID,
		Level:       level,
		SetID:       def.SetID,
		ActiveStats: ActiveStatsFor(def.BaseStats, level, cfg),
	}
	err := repo.SaveInventory(context.Background(), userID, domain.Inventory{Instances: []domain.ItemInstance{inst}})
	require.NoError(t, err)
	return inst.InstanceID
}

func TestAttemptCost(t *testing.T) {
	cfg := domain.CalibrationConfig{CostPerLevel: 200}

	assert.Equal(t, 200, AttemptCost(cfg, 0))
	assert.Equal(t, 600, AttemptCost(cfg, 2))
	assert.Equal(t, 1600, AttemptCost(cfg, 7))

	// Strictly increasing in level.
	for level := 0; level < 10; level++ {
		assert.Greater(t, AttemptCost(cfg, level+1), AttemptCost(cfg, level))
	}
}

func TestSuccessRate(t *testing.T) {
	cfg := domain.CalibrationConfig{SuccessRateBase: 0.90, SuccessRateDecay: 0.05}

	assert.InDelta(t, 0.90, SuccessRate(cfg, 0), 1e-9)
	assert.InDelta(t, 0.80, SuccessRate(cfg, 2), 1e-9)

	// Decay clamps at the floor, never below.
	assert.InDelta(t, domain.SuccessRateFloor, SuccessRate(cfg, 17), 1e-9)
	assert.InDelta(t, domain.SuccessRateFloor, SuccessRate(cfg, 100), 1e-9)
}

func TestActiveStatsFor(t *testing.T) {
	cfg := domain.CalibrationConfig{StatIncrement: 1.5}
	base := domain.Stats{PointBoost: 4.0, XPAccelerator: 2.0}

	assert.Equal(t, base, ActiveStatsFor(base, 0, cfg))

	lvl3 := ActiveStatsFor(base, 3, cfg)
	assert.Equal(t, domain.Stats{PointBoost: 4.18, XPAccelerator: 2.09}, lvl3)

	// Recomputing from scratch is deterministic: same inputs, same
	// output, no accumulation drift.
	assert.Equal(t, lvl3, ActiveStatsFor(base, 3, cfg))
}

func TestAttempt_SuccessDeductsCostAndLevels(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, func() float64 { return 0.0 }) // forced success

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	result, err := svc.Attempt(ctx, "user1", instID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 600, result.Cost)
	assert.InDelta(t, 0.80, result.SuccessRate, 1e-9)
	assert.Equal(t, 2, result.LevelBefore)
	assert.Equal(t, 3, result.LevelAfter)
	assert.Equal(t, domain.Stats{PointBoost: 4.18, XPAccelerator: 2.09}, result.StatsAfter)
	assert.Equal(t, 9400, result.Balance)

	balance, err := repo.GetPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 9400, balance)

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	inst := inv.Instances[0]
	assert.Equal(t, 3, inst.Level)
	assert.Equal(t, 1, inst.TotalAttempts)
	assert.Equal(t, 1, inst.Successes)
}

func TestAttempt_FailureStillDeductsCost(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, func() float64 { return 0.99 }) // forced failure

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	result, err := svc.Attempt(ctx, "user1", instID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailure, result.Outcome)
	assert.Equal(t, 2, result.LevelAfter)
	assert.Equal(t, result.StatsBefore, result.StatsAfter)
	assert.Equal(t, 9400, result.Balance)

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	inst := inv.Instances[0]
	assert.Equal(t, 2, inst.Level)
	assert.Equal(t, 1, inst.TotalAttempts)
	assert.Equal(t, 0, inst.Successes)
}

func TestAttempt_InsufficientPoints(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, func() float64 { return 0.0 })

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 100)) // cost is 600

	_, err := svc.Attempt(ctx, "user1", instID)
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	// No side effects on a rejected attempt.
	balance, err := repo.GetPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Instances[0].Level)
	assert.Equal(t, 0, inv.Instances[0].TotalAttempts)
}

func TestAttempt_MaxLevel(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, func() float64 { return 0.0 })

	// Rare cap is level 8.
	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 8)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	_, err := svc.Attempt(ctx, "user1", instID)
	assert.ErrorIs(t, err, domain.ErrMaxCalibration)

	balance, err := repo.GetPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 10000, balance)
}

func TestAttempt_UnknownInstance(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, func() float64 { return 0.0 })
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	_, err := svc.Attempt(ctx, "user1", "no-such-instance")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
}

func TestAttempt_BoundaryRoll(t *testing.T) {
	ctx := context.Background()

	// roll == rate is a failure: success requires roll < rate.
	svc, repo := newTestService(t, func() float64 { return 0.80 })
	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	result, err := svc.Attempt(ctx, "user1", instID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, result.Outcome)
}

func TestVerifyActiveStats(t *testing.T) {
	cfg := domain.CalibrationConfig{StatIncrement: 1.5}
	base := domain.Stats{PointBoost: 4.0, XPAccelerator: 2.0}

	good := domain.ItemInstance{Level: 3, ActiveStats: ActiveStatsFor(base, 3, cfg)}
	assert.True(t, VerifyActiveStats(good, base, cfg))

	drifted := domain.ItemInstance{Level: 3, ActiveStats: domain.Stats{PointBoost: 4.2, XPAccelerator: 2.09}}
	assert.False(t, VerifyActiveStats(drifted, base, cfg))
}

func TestPreview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil)

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	p, err := svc.Preview(ctx, "user1", instID)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 8, p.MaxLevel)
	assert.Equal(t, 600, p.Cost)
	assert.InDelta(t, 0.80, p.SuccessRate, 1e-9)
	assert.True(t, p.CanCalibrate)
	assert.Equal(t, p.NextStats.Sub(p.CurrentStats), p.StatDiff)

	// Preview must not mutate anything.
	balance, err := repo.GetPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 10000, balance)
}

func TestPreview_AtMaxLevel(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil)

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 8)
	require.NoError(t, repo.SavePoints(ctx, "user1", 10000))

	p, err := svc.Preview(ctx, "user1", instID)
	require.NoError(t, err)

	assert.Equal(t, 0, p.Cost)
	assert.False(t, p.CanCalibrate)
	assert.Equal(t, p.CurrentStats, p.NextStats)
}

func TestPreview_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, nil)

	instID := seedInstance(t, repo, "user1", "sentinel-helmet", 2)
	require.NoError(t, repo.SavePoints(ctx, "user1", 599))

	p, err := svc.Preview(ctx, "user1", instID)
	require.NoError(t, err)
	assert.False(t, p.CanCalibrate)
}
