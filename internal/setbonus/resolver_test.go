package setbonus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/domain"
)

// equipSet builds an inventory and loadout holding the given items,
// one instance per item, each equipped in its catalog slot.
func equipSet(t *testing.T, itemIDs ...string) (domain.EquippedItems, *domain.Inventory) {
	t.Helper()
	cat := catalog.Default()

	eq := domain.NewEquippedItems()
	inv := &domain.Inventory{}
	for _, id := range itemIDs {
		def, ok := cat.ItemByID(id)
		require.True(t, ok, "unknown item %s", id)

		inst := domain.ItemInstance{
			InstanceID:  "inst-" + id,
			ItemID:      id,
			SetID:       def.SetID,
			ActiveStats: def.BaseStats,
		}
		inv.Instances = append(inv.Instances, inst)
		eq.Slots[def.Category] = inst.InstanceID
	}
	return eq, inv
}

func TestActiveBonuses_HighestMetTierOnly(t *testing.T) {
	r := NewResolver(catalog.Default())

	// Four Lumen Guard pieces against tier thresholds 2/4/7: exactly
	// one bonus, the 4-piece tier, not the 2-piece one as well.
	eq, inv := equipSet(t, "lumen-helmet", "lumen-vest", "lumen-gloves", "lumen-shoes")

	bonuses := r.ActiveBonuses(eq, inv)
	require.Len(t, bonuses, 1)
	assert.Equal(t, "lumen-guard", bonuses[0].SetID)
	assert.Equal(t, 4, bonuses[0].Pieces)
	assert.Equal(t, 4, bonuses[0].Tier.Pieces)
}

func TestActiveBonuses_BelowThreshold(t *testing.T) {
	r := NewResolver(catalog.Default())

	eq, inv := equipSet(t, "lumen-helmet")
	assert.Empty(t, r.ActiveBonuses(eq, inv))
}

func TestActiveBonuses_MultipleSets(t *testing.T) {
	r := NewResolver(catalog.Default())

	eq, inv := equipSet(t,
		"sentinel-helmet", "sentinel-vest", // 2 Steel Sentinel pieces
		"lumen-glasses", "lumen-belt", "lumen-mask", // 3 Lumen Guard pieces
	)

	bonuses := r.ActiveBonuses(eq, inv)
	require.Len(t, bonuses, 2)

	bySet := make(map[string]ActiveBonus)
	for _, b := range bonuses {
		bySet[b.SetID] = b
	}
	assert.Equal(t, 2, bySet["steel-sentinel"].Tier.Pieces)
	// Three lumen pieces only reach the 2-piece tier.
	assert.Equal(t, 2, bySet["lumen-guard"].Tier.Pieces)
}

func TestActiveAura_HighestRarityWins(t *testing.T) {
	r := NewResolver(catalog.Default())

	eq, inv := equipSet(t,
		"sentinel-helmet", "sentinel-vest", // rare, steel_shimmer
		"lumen-glasses", "lumen-belt", // epic, lumen_glow
	)

	loadout := r.Resolve(eq, inv)
	require.NotNil(t, loadout.Aura)
	assert.Equal(t, "lumen_glow", *loadout.Aura)
}

func TestActiveAura_NoAuraSet(t *testing.T) {
	r := NewResolver(catalog.Default())

	// Site Basics carries no aura even with its bonus active.
	eq, inv := equipSet(t, "basics-helmet", "basics-vest")

	loadout := r.Resolve(eq, inv)
	require.Len(t, loadout.Bonuses, 1)
	assert.Nil(t, loadout.Aura)
}

func TestResolve_DanglingInstanceSkipped(t *testing.T) {
	r := NewResolver(catalog.Default())

	eq, inv := equipSet(t, "sentinel-helmet", "sentinel-vest")
	// Simulate a sold item still referenced by the loadout.
	eq.Slots[domain.CategoryGloves] = "inst-gone"

	loadout := r.Resolve(eq, inv)
	assert.Len(t, loadout.Equipped, 2)
	_, ok := loadout.Equipped[domain.CategoryGloves]
	assert.False(t, ok)
}

func TestResolve_Totals(t *testing.T) {
	r := NewResolver(catalog.Default())

	// Two sentinel pieces at base stats {4, 2, 0} each, plus the
	// 2-piece bonus {2, 1, 0}.
	eq, inv := equipSet(t, "sentinel-helmet", "sentinel-vest")

	loadout := r.Resolve(eq, inv)
	assert.Equal(t, domain.Stats{PointBoost: 8, XPAccelerator: 4}, loadout.GearStats)
	assert.Equal(t, domain.Stats{PointBoost: 2, XPAccelerator: 1}, loadout.BonusStats)
	assert.Equal(t, domain.Stats{PointBoost: 10, XPAccelerator: 5}, loadout.Totals)
}

func TestResolve_EmptyLoadout(t *testing.T) {
	r := NewResolver(catalog.Default())

	loadout := r.Resolve(domain.NewEquippedItems(), &domain.Inventory{})
	assert.Empty(t, loadout.Equipped)
	assert.Empty(t, loadout.Bonuses)
	assert.Equal(t, domain.Stats{}, loadout.Totals)
	assert.Nil(t, loadout.Aura)
}

func TestCountSetPieces(t *testing.T) {
	r := NewResolver(catalog.Default())

	eq, inv := equipSet(t, "sentinel-helmet", "sentinel-vest", "lumen-glasses")
	assert.Equal(t, 2, r.CountSetPieces(eq, inv, "steel-sentinel"))
	assert.Equal(t, 1, r.CountSetPieces(eq, inv, "lumen-guard"))
	assert.Equal(t, 0, r.CountSetPieces(eq, inv, "aegis-prime"))
}
