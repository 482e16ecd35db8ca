package calibration

import (
	"context"
	"fmt"

	"github.com/safequest/engine/internal/domain"
)

// PreviewResult shows what a successful calibration attempt from the
// current level would produce. Computed with the same pure functions as
// Attempt, so the numbers match an actual success exactly.
type PreviewResult struct {
	InstanceID   string       `json:"instance_id"`
	ItemID       string       `json:"item_id"`
	Level        int          `json:"level"`
	MaxLevel     int          `json:"max_level"`
	CurrentStats domain.Stats `json:"current_stats"`
	NextStats    domain.Stats `json:"next_stats"`
	StatDiff     domain.Stats `json:"stat_diff"`
	Cost         int          `json:"cost"`
	SuccessRate  float64      `json:"success_rate"`
	Balance      int          `json:"balance"`
	CanCalibrate bool         `json:"can_calibrate"`
}

// Preview computes the what-if view for the UI. Non-mutating.
func (s *service) Preview(ctx context.Context, userID, instanceID string) (*PreviewResult, error) {
	inv, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	idx := inv.Find(instanceID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, instanceID)
	}
	inst := inv.Instances[idx]

	def, ok := s.cat.ItemByID(inst.ItemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, inst.ItemID)
	}
	cfg, ok := s.cat.CalibrationConfigFor(def.Rarity)
	if !ok {
		return nil, fmt.Errorf("%w: rarity %s", domain.ErrConfigNotFound, def.Rarity)
	}

	balance, err := s.repo.GetPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get points: %w", err)
	}

	current := ActiveStatsFor(def.BaseStats, inst.Level, cfg)

	preview := &PreviewResult{
		InstanceID:   instanceID,
		ItemID:       inst.ItemID,
		Level:        inst.Level,
		MaxLevel:     cfg.MaxLevel,
		CurrentStats: current,
		Balance:      balance,
	}

	if inst.Level >= cfg.MaxLevel {
		preview.NextStats = current
		return preview, nil
	}

	preview.Cost = AttemptCost(cfg, inst.Level)
	preview.SuccessRate = SuccessRate(cfg, inst.Level)
	preview.NextStats = ActiveStatsFor(def.BaseStats, inst.Level+1, cfg)
	preview.StatDiff = preview.NextStats.Sub(current)
	preview.CanCalibrate = balance >= preview.Cost

	return preview, nil
}
