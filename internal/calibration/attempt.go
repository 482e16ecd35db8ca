package calibration

import (
	"context"
	"fmt"

	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
)

// AttemptResult describes the terminal state of a valid calibration
// attempt. Cost has been deducted whether or not the roll succeeded.
type AttemptResult struct {
	Outcome     Outcome      `json:"outcome"`
	Message     string       `json:"message"`
	InstanceID  string       `json:"instance_id"`
	ItemID      string       `json:"item_id"`
	LevelBefore int          `json:"level_before"`
	LevelAfter  int          `json:"level_after"`
	StatsBefore domain.Stats `json:"stats_before"`
	StatsAfter  domain.Stats `json:"stats_after"`
	Cost        int          `json:"cost"`
	SuccessRate float64      `json:"success_rate"`
	Balance     int          `json:"balance"`
}

// Attempt runs one calibration attempt as a single read-modify-write
// transaction for the user.
//
// Precondition failures (unknown instance, max level, insufficient
// points) are rejected with no side effects. Once the affordability
// check passes the cost is deducted unconditionally, before the roll,
// and is not refunded on a failed roll: failed attempts still cost
// currency.
func (s *service) Attempt(ctx context.Context, userID, instanceID string) (*AttemptResult, error) {
	log := logger.FromContext(ctx)

	var result *AttemptResult
	err := s.locks.WithLock(userID, func() error {
		inv, err := s.repo.GetInventory(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get inventory: %w", err)
		}

		idx := inv.Find(instanceID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, instanceID)
		}
		inst := inv.Instances[idx]

		def, ok := s.cat.ItemByID(inst.ItemID)
		if !ok {
			// Content bug: an owned instance references a missing
			// catalog entry. Recoverable, but worth flagging upstream.
			log.Error("Owned instance references unknown item", "user_id", userID, "item_id", inst.ItemID)
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, inst.ItemID)
		}
		cfg, ok := s.cat.CalibrationConfigFor(def.Rarity)
		if !ok {
			return fmt.Errorf("%w: rarity %s", domain.ErrConfigNotFound, def.Rarity)
		}

		if inst.Level >= cfg.MaxLevel {
			return fmt.Errorf("%w: level %d", domain.ErrMaxCalibration, inst.Level)
		}

		cost := AttemptCost(cfg, inst.Level)
		balance, err := s.repo.GetPoints(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get points: %w", err)
		}
		if balance < cost {
			return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientPoints, cost, balance)
		}

		// Point of no return: the cost is consumed by the attempt
		// itself, not by its success.
		balance -= cost
		if err := s.repo.SavePoints(ctx, userID, balance); err != nil {
			return fmt.Errorf("failed to save points: %w", err)
		}

		rate := SuccessRate(cfg, inst.Level)
		roll := s.rng()
		success := roll < rate

		statsBefore := inst.ActiveStats
		levelBefore := inst.Level

		inst.TotalAttempts++
		if success {
			inst.Successes++
			inst.Level++
			inst.ActiveStats = ActiveStatsFor(def.BaseStats, inst.Level, cfg)
		}
		inv.Instances[idx] = inst

		if err := s.repo.SaveInventory(ctx, userID, *inv); err != nil {
			return fmt.Errorf("failed to save inventory: %w", err)
		}

		outcome := OutcomeFailure
		message := "Calibration failed. The gear held its level."
		if success {
			outcome = OutcomeSuccess
			message = fmt.Sprintf("Calibration succeeded! %s reached level %d.", def.Name, inst.Level)
		}

		result = &AttemptResult{
			Outcome:     outcome,
			Message:     message,
			InstanceID:  instanceID,
			ItemID:      inst.ItemID,
			LevelBefore: levelBefore,
			LevelAfter:  inst.Level,
			StatsBefore: statsBefore,
			StatsAfter:  inst.ActiveStats,
			Cost:        cost,
			SuccessRate: rate,
			Balance:     balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Calibration attempt resolved",
		"user_id", userID,
		"instance_id", instanceID,
		"outcome", result.Outcome,
		"cost", result.Cost,
		"level", result.LevelAfter)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewCalibrationAttemptEvent(event.CalibrationAttemptPayloadV1{
			UserID:      userID,
			InstanceID:  result.InstanceID,
			ItemID:      result.ItemID,
			Success:     result.Outcome == OutcomeSuccess,
			Cost:        result.Cost,
			SuccessRate: result.SuccessRate,
			LevelBefore: result.LevelBefore,
			LevelAfter:  result.LevelAfter,
		}))
	}

	return result, nil
}
