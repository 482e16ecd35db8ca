package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/safequest/engine/internal/domain"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrUnknownSet    = errors.New("unknown set reference")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON catalog file shape.
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items   []domain.ItemDefinition                       `json:"items"`
	Sets    []domain.SetDefinition                        `json:"sets"`
	Configs map[domain.Rarity]domain.CalibrationConfig    `json:"calibration"`
	Quests  []domain.QuestDefinition                      `json:"quests"`
	Ladder  []domain.AttendanceReward                     `json:"attendance_ladder"`
}

// Load reads and parses a catalog JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the catalog configuration for internal consistency.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	setIDs := make(map[string]bool, len(cfg.Sets))
	for _, s := range cfg.Sets {
		if setIDs[s.ID] {
			return fmt.Errorf("%w: set %s", ErrDuplicateID, s.ID)
		}
		setIDs[s.ID] = true

		lastPieces := 0
		for _, t := range s.Tiers {
			if t.Pieces <= lastPieces {
				return fmt.Errorf("%w: set %s tiers must be strictly ascending", ErrInvalidConfig, s.ID)
			}
			lastPieces = t.Pieces
		}
	}

	itemIDs := make(map[string]bool, len(cfg.Items))
	for _, item := range cfg.Items {
		if itemIDs[item.ID] {
			return fmt.Errorf("%w: item %s", ErrDuplicateID, item.ID)
		}
		itemIDs[item.ID] = true

		if !item.Category.Valid() {
			return fmt.Errorf("%w: item %s category %q", ErrInvalidConfig, item.ID, item.Category)
		}
		if _, ok := cfg.Configs[item.Rarity]; !ok {
			return fmt.Errorf("%w: item %s rarity %q has no calibration config", ErrInvalidConfig, item.ID, item.Rarity)
		}
		if item.SetID != nil && !setIDs[*item.SetID] {
			return fmt.Errorf("%w: item %s references %s", ErrUnknownSet, item.ID, *item.SetID)
		}
	}

	for rarity, cc := range cfg.Configs {
		if cc.MaxLevel <= 0 || cc.CostPerLevel <= 0 {
			return fmt.Errorf("%w: calibration config for %s", ErrInvalidConfig, rarity)
		}
		if cc.SuccessRateBase <= 0 || cc.SuccessRateBase > 1 {
			return fmt.Errorf("%w: success rate base for %s", ErrInvalidConfig, rarity)
		}
	}

	questIDs := make(map[string]bool, len(cfg.Quests))
	for _, q := range cfg.Quests {
		if questIDs[q.ID] {
			return fmt.Errorf("%w: quest %s", ErrDuplicateID, q.ID)
		}
		questIDs[q.ID] = true
		if q.Target <= 0 {
			return fmt.Errorf("%w: quest %s target must be positive", ErrInvalidConfig, q.ID)
		}
	}

	lastDay := 0
	for _, r := range cfg.Ladder {
		if r.Day <= lastDay {
			return fmt.Errorf("%w: attendance ladder days must be strictly ascending", ErrInvalidConfig)
		}
		lastDay = r.Day
	}

	return nil
}

// FromConfig builds a Catalog from a validated config.
func FromConfig(cfg *Config) (*Catalog, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return build(cfg.Items, cfg.Sets, cfg.Configs, cfg.Quests, cfg.Ladder), nil
}
