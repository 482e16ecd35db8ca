// Package setbonus resolves which gear-set bonuses are active for an
// equipped loadout and aggregates the HUD stat totals.
package setbonus

import (
	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/domain"
)

// ActiveBonus is the single best-achieved bonus tier for one set.
// Exactly one ActiveBonus is emitted per set, never multiple tiers.
type ActiveBonus struct {
	SetID   string              `json:"set_id"`
	SetName string              `json:"set_name"`
	Rarity  domain.Rarity       `json:"rarity"`
	Pieces  int                 `json:"pieces"`
	Tier    domain.SetBonusTier `json:"tier"`
	Aura    *string             `json:"aura,omitempty"`
}

// Loadout is the aggregated view of an equipped loadout: per-instance
// calibrated stats plus active set bonuses.
type Loadout struct {
	Equipped   map[domain.Category]domain.ItemInstance `json:"equipped"`
	Bonuses    []ActiveBonus                            `json:"bonuses"`
	GearStats  domain.Stats                             `json:"gear_stats"`
	BonusStats domain.Stats                             `json:"bonus_stats"`
	Totals     domain.Stats                             `json:"totals"`
	Aura       *string                                  `json:"aura,omitempty"`
}

// Resolver computes active set bonuses against the catalog.
type Resolver struct {
	cat *catalog.Catalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// equippedInstances maps each occupied slot to its resolved instance.
// Dangling instance IDs (sold but still referenced) are skipped.
func (r *Resolver) equippedInstances(eq domain.EquippedItems, inv *domain.Inventory) map[domain.Category]domain.ItemInstance {
	out := make(map[domain.Category]domain.ItemInstance, len(eq.Slots))
	for cat, instanceID := range eq.Slots {
		idx := inv.Find(instanceID)
		if idx < 0 {
			continue
		}
		out[cat] = inv.Instances[idx]
	}
	return out
}

// CountSetPieces counts equipped instances belonging to the given set.
func (r *Resolver) CountSetPieces(eq domain.EquippedItems, inv *domain.Inventory, setID string) int {
	count := 0
	for _, inst := range r.equippedInstances(eq, inv) {
		if inst.SetID != nil && *inst.SetID == setID {
			count++
		}
	}
	return count
}

// ActiveBonuses returns, for each set with equipped pieces, the highest
// bonus tier whose threshold is met. Results follow catalog set order,
// which is also the documented tie-break order for aura selection.
func (r *Resolver) ActiveBonuses(eq domain.EquippedItems, inv *domain.Inventory) []ActiveBonus {
	counts := make(map[string]int)
	for _, inst := range r.equippedInstances(eq, inv) {
		if inst.SetID != nil {
			counts[*inst.SetID]++
		}
	}

	var out []ActiveBonus
	for _, set := range r.cat.Sets() {
		pieces, ok := counts[set.ID]
		if !ok {
			continue
		}

		// Highest tier whose threshold is met; tiers are ascending.
		best := -1
		for i, tier := range set.Tiers {
			if pieces >= tier.Pieces {
				best = i
			}
		}
		if best < 0 {
			continue
		}

		out = append(out, ActiveBonus{
			SetID:   set.ID,
			SetName: set.Name,
			Rarity:  set.Rarity,
			Pieces:  pieces,
			Tier:    set.Tiers[best],
			Aura:    set.Aura,
		})
	}
	return out
}

// SumBonusStats adds up the stat contribution of all active bonuses.
// Plain addition, no diminishing returns.
func SumBonusStats(bonuses []ActiveBonus) domain.Stats {
	total := domain.Stats{}
	for _, b := range bonuses {
		total = total.Add(b.Tier.Bonus)
	}
	return total
}

// ActiveAura picks the visual aura: highest rarity first, and within a
// rarity the first active set in catalog order wins. First match, not
// highest value.
func ActiveAura(bonuses []ActiveBonus) *string {
	for _, rarity := range domain.RaritiesDescending() {
		for _, b := range bonuses {
			if b.Rarity == rarity && b.Aura != nil {
				return b.Aura
			}
		}
	}
	return nil
}

// Resolve builds the full loadout aggregation: per-slot calibrated
// stats, active bonuses, and HUD totals.
func (r *Resolver) Resolve(eq domain.EquippedItems, inv *domain.Inventory) Loadout {
	equipped := r.equippedInstances(eq, inv)

	gear := domain.Stats{}
	for _, inst := range equipped {
		gear = gear.Add(inst.ActiveStats)
	}

	bonuses := r.ActiveBonuses(eq, inv)
	bonusStats := SumBonusStats(bonuses)

	return Loadout{
		Equipped:   equipped,
		Bonuses:    bonuses,
		GearStats:  gear,
		BonusStats: bonusStats,
		Totals:     gear.Add(bonusStats),
		Aura:       ActiveAura(bonuses),
	}
}
