// Package catalog holds the static reference tables of the engine:
// item definitions, gear sets, per-rarity calibration configs, quest
// definitions and the monthly attendance ladder. Lookups are pure and
// report absence via a boolean rather than an error.
package catalog

import (
	"github.com/safequest/engine/internal/domain"
)

// Catalog is an immutable snapshot of the reference tables. Slices keep
// catalog order; aura tie-breaking within a rarity depends on it.
type Catalog struct {
	items      []domain.ItemDefinition
	itemsByID  map[string]int
	sets       []domain.SetDefinition
	setsByID   map[string]int
	configs    map[domain.Rarity]domain.CalibrationConfig
	quests     []domain.QuestDefinition
	questsByID map[string]int
	ladder     []domain.AttendanceReward
}

func build(items []domain.ItemDefinition, sets []domain.SetDefinition,
	configs map[domain.Rarity]domain.CalibrationConfig,
	quests []domain.QuestDefinition, ladder []domain.AttendanceReward) *Catalog {

	c := &Catalog{
		items:      items,
		itemsByID:  make(map[string]int, len(items)),
		sets:       sets,
		setsByID:   make(map[string]int, len(sets)),
		configs:    configs,
		quests:     quests,
		questsByID: make(map[string]int, len(quests)),
		ladder:     ladder,
	}
	for i := range items {
		c.itemsByID[items[i].ID] = i
	}
	for i := range sets {
		c.setsByID[sets[i].ID] = i
	}
	for i := range quests {
		c.questsByID[quests[i].ID] = i
	}
	return c
}

// ItemByID looks up an item definition.
func (c *Catalog) ItemByID(id string) (domain.ItemDefinition, bool) {
	i, ok := c.itemsByID[id]
	if !ok {
		return domain.ItemDefinition{}, false
	}
	return c.items[i], true
}

// Items returns all item definitions in catalog order.
func (c *Catalog) Items() []domain.ItemDefinition {
	return c.items
}

// BaseStats returns the base stats for an item.
func (c *Catalog) BaseStats(itemID string) (domain.Stats, bool) {
	item, ok := c.ItemByID(itemID)
	if !ok {
		return domain.Stats{}, false
	}
	return item.BaseStats, true
}

// SetByID looks up a set definition.
func (c *Catalog) SetByID(id string) (domain.SetDefinition, bool) {
	i, ok := c.setsByID[id]
	if !ok {
		return domain.SetDefinition{}, false
	}
	return c.sets[i], true
}

// Sets returns all set definitions in catalog order.
func (c *Catalog) Sets() []domain.SetDefinition {
	return c.sets
}

// CalibrationConfigFor returns the calibration tuning for a rarity.
func (c *Catalog) CalibrationConfigFor(rarity domain.Rarity) (domain.CalibrationConfig, bool) {
	cfg, ok := c.configs[rarity]
	return cfg, ok
}

// QuestByID looks up a quest definition.
func (c *Catalog) QuestByID(id string) (domain.QuestDefinition, bool) {
	i, ok := c.questsByID[id]
	if !ok {
		return domain.QuestDefinition{}, false
	}
	return c.quests[i], true
}

// Quests returns all quest definitions in catalog order.
func (c *Catalog) Quests() []domain.QuestDefinition {
	return c.quests
}

// QuestsForPeriod returns the quests belonging to a reset period.
func (c *Catalog) QuestsForPeriod(period domain.QuestPeriod) []domain.QuestDefinition {
	var out []domain.QuestDefinition
	for _, q := range c.quests {
		if q.Period == period {
			out = append(out, q)
		}
	}
	return out
}

// AttendanceLadder returns the monthly attendance reward table in
// ascending day-threshold order.
func (c *Catalog) AttendanceLadder() []domain.AttendanceReward {
	return c.ladder
}

// AttendanceRewardForDay returns the ladder entry at the given day
// threshold.
func (c *Catalog) AttendanceRewardForDay(day int) (domain.AttendanceReward, bool) {
	for _, r := range c.ladder {
		if r.Day == day {
			return r, true
		}
	}
	return domain.AttendanceReward{}, false
}
