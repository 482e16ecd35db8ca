package domain

import "time"

// Category is one of the seven fixed equipment slots.
type Category string

const (
	CategoryHelmet  Category = "helmet"
	CategoryVest    Category = "vest"
	CategoryGloves  Category = "gloves"
	CategoryShoes   Category = "shoes"
	CategoryGlasses Category = "glasses"
	CategoryBelt    Category = "belt"
	CategoryMask    Category = "mask"
)

// Categories returns all equipment categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHelmet,
		CategoryVest,
		CategoryGloves,
		CategoryShoes,
		CategoryGlasses,
		CategoryBelt,
		CategoryMask,
	}
}

// Valid reports whether c is a known equipment category.
func (c Category) Valid() bool {
	switch c {
	case CategoryHelmet, CategoryVest, CategoryGloves, CategoryShoes,
		CategoryGlasses, CategoryBelt, CategoryMask:
		return true
	}
	return false
}

// Rarity represents the quality tier of an item.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RaritiesDescending returns rarities from highest to lowest. Aura
// selection walks this order.
func RaritiesDescending() []Rarity {
	return []Rarity{RarityLegendary, RarityEpic, RarityRare, RarityCommon}
}

// ItemDefinition is immutable catalog data for a piece of safety gear.
type ItemDefinition struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  Category `json:"category"`
	Rarity    Rarity  `json:"rarity"`
	Price     int     `json:"price"`
	BaseStats Stats   `json:"base_stats"`
	SetID     *string `json:"set_id,omitempty"`
}

// CalibrationConfig is the per-rarity enhancement tuning table.
type CalibrationConfig struct {
	MaxLevel         int     `json:"max_level"`
	CostPerLevel     int     `json:"cost_per_level"`
	SuccessRateBase  float64 `json:"success_rate_base"`
	SuccessRateDecay float64 `json:"success_rate_decay"`
	StatIncrement    float64 `json:"stat_increment"`
}

// SuccessRateFloor is the minimum calibration success rate. The decay
// curve is clamped here regardless of level.
const SuccessRateFloor = 0.10

// SetBonusTier is one threshold step of a gear set's bonus ladder.
type SetBonusTier struct {
	Pieces int   `json:"pieces"`
	Bonus  Stats `json:"bonus"`
}

// SetDefinition is immutable catalog data for a gear set.
type SetDefinition struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Rarity Rarity         `json:"rarity"`
	Aura   *string        `json:"aura,omitempty"`
	Tiers  []SetBonusTier `json:"tiers"`
}

// ItemInstance is one acquired copy of an item owned by a user.
// ActiveStats is cached for fast reads but is always derivable from
// (BaseStats, Level, CalibrationConfig); the calibration engine is the
// only writer.
type ItemInstance struct {
	InstanceID  string    `json:"instance_id"`
	ItemID      string    `json:"item_id"`
	Level       int       `json:"level"`
	SetID       *string   `json:"set_id,omitempty"`
	ActiveStats Stats     `json:"active_stats"`
	AcquiredAt  time.Time `json:"acquired_at"`

	TotalAttempts int `json:"total_attempts"`
	Successes     int `json:"successes"`
}

// Inventory is the per-user collection of item instances, stored as a
// single document in the state store.
type Inventory struct {
	Instances  []ItemInstance `json:"instances"`
	LastUpdate int64          `json:"last_update,omitempty"`
}

// Find returns the index of the instance with the given ID, or -1.
func (inv *Inventory) Find(instanceID string) int {
	for i := range inv.Instances {
		if inv.Instances[i].InstanceID == instanceID {
			return i
		}
	}
	return -1
}

// EquippedItems maps equipment slots to equipped instance IDs.
// At most one instance per slot.
type EquippedItems struct {
	Slots map[Category]string `json:"slots"`
}

// NewEquippedItems returns an empty loadout.
func NewEquippedItems() EquippedItems {
	return EquippedItems{Slots: make(map[Category]string)}
}
