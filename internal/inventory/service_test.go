package inventory

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

func newTestService(t *testing.T) (Service, *repository.KV) {
	t.Helper()
	repo := repository.NewKV(storage.NewMemoryStore())
	svc := NewService(repo, catalog.Default(), concurrency.NewLockManager(), nil)
	return svc, repo
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 1000))

	result, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)

	assert.Equal(t, 600, result.Price)
	assert.Equal(t, 400, result.Balance)

	inst := result.Instance
	assert.NotEmpty(t, inst.InstanceID)
	assert.Equal(t, "sentinel-helmet", inst.ItemID)
	assert.Equal(t, 0, inst.Level)
	require.NotNil(t, inst.SetID)
	assert.Equal(t, "steel-sentinel", *inst.SetID)
	// A fresh instance starts at its base stats.
	assert.Equal(t, domain.Stats{PointBoost: 4.0, XPAccelerator: 2.0}, inst.ActiveStats)
	assert.False(t, inst.AcquiredAt.IsZero())

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, inv.Instances, 1)
	assert.Equal(t, inst.InstanceID, inv.Instances[0].InstanceID)
}

func TestAcquire_DuplicatesAllowed(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 500))

	first, err := svc.Acquire(ctx, "user1", "work-gloves")
	require.NoError(t, err)
	second, err := svc.Acquire(ctx, "user1", "work-gloves")
	require.NoError(t, err)

	// Same item, distinct instances.
	assert.NotEqual(t, first.Instance.InstanceID, second.Instance.InstanceID)

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, inv.Instances, 2)
}

func TestAcquire_InsufficientPoints(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 100))

	_, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	balance, err := repo.GetPoints(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, inv.Instances)
}

func TestAcquire_UnknownItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Acquire(ctx, "user1", "jetpack")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestEquip(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 2000))

	acquired, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)

	result, err := svc.Equip(ctx, "user1", acquired.Instance.InstanceID)
	require.NoError(t, err)

	// The slot comes from the catalog definition, not the caller.
	assert.Equal(t, domain.CategoryHelmet, result.Category)
	assert.Equal(t, acquired.Instance.InstanceID, result.Equipped)
	assert.Empty(t, result.Replaced)

	eq, err := repo.GetEquipped(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, acquired.Instance.InstanceID, eq.Slots[domain.CategoryHelmet])
}

func TestEquip_ReplacesOccupiedSlot(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 2000))

	first, err := svc.Acquire(ctx, "user1", "hard-hat")
	require.NoError(t, err)
	second, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)

	_, err = svc.Equip(ctx, "user1", first.Instance.InstanceID)
	require.NoError(t, err)

	result, err := svc.Equip(ctx, "user1", second.Instance.InstanceID)
	require.NoError(t, err)
	assert.Equal(t, first.Instance.InstanceID, result.Replaced)

	eq, err := repo.GetEquipped(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, second.Instance.InstanceID, eq.Slots[domain.CategoryHelmet])
	// The replaced instance stays in the inventory.
	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, inv.Instances, 2)
}

func TestEquip_UnknownInstance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Equip(ctx, "user1", "ghost")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
}

func TestUnequip(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 2000))

	acquired, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)
	_, err = svc.Equip(ctx, "user1", acquired.Instance.InstanceID)
	require.NoError(t, err)

	require.NoError(t, svc.Unequip(ctx, "user1", domain.CategoryHelmet))

	eq, err := repo.GetEquipped(ctx, "user1")
	require.NoError(t, err)
	_, ok := eq.Slots[domain.CategoryHelmet]
	assert.False(t, ok)
}

func TestUnequip_EmptySlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Unequip(ctx, "user1", domain.CategoryVest)
	assert.ErrorIs(t, err, domain.ErrNotEquipped)
}

func TestUnequip_InvalidCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Unequip(ctx, "user1", domain.Category("backpack"))
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 2000))

	acquired, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)
	_, err = svc.Equip(ctx, "user1", acquired.Instance.InstanceID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "user1", acquired.Instance.InstanceID))

	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, inv.Instances)

	// Removing an equipped instance clears its slot too.
	eq, err := repo.GetEquipped(ctx, "user1")
	require.NoError(t, err)
	_, ok := eq.Slots[domain.CategoryHelmet]
	assert.False(t, ok)
}

func TestRemove_UnknownInstance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Remove(ctx, "user1", "ghost")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound)
}

func TestGetLoadout(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 5000))

	for _, id := range []string{"sentinel-helmet", "sentinel-vest"} {
		acquired, err := svc.Acquire(ctx, "user1", id)
		require.NoError(t, err)
		_, err = svc.Equip(ctx, "user1", acquired.Instance.InstanceID)
		require.NoError(t, err)
	}

	loadout, err := svc.GetLoadout(ctx, "user1")
	require.NoError(t, err)

	assert.Len(t, loadout.Equipped, 2)
	require.Len(t, loadout.Bonuses, 1)
	assert.Equal(t, "steel-sentinel", loadout.Bonuses[0].SetID)
	assert.Equal(t, domain.Stats{PointBoost: 10, XPAccelerator: 5}, loadout.Totals)
	require.NotNil(t, loadout.Aura)
	assert.Equal(t, "steel_shimmer", *loadout.Aura)
}

func TestVerifyStats(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.SavePoints(ctx, "user1", 1000))

	acquired, err := svc.Acquire(ctx, "user1", "sentinel-helmet")
	require.NoError(t, err)

	diverged, err := svc.VerifyStats(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, diverged)

	// Corrupt the cached stats and the audit flags the instance.
	inv, err := repo.GetInventory(ctx, "user1")
	require.NoError(t, err)
	inv.Instances[0].ActiveStats.PointBoost = 99
	require.NoError(t, repo.SaveInventory(ctx, "user1", *inv))

	diverged, err = svc.VerifyStats(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{acquired.Instance.InstanceID}, diverged)
}
