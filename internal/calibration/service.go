// Package calibration implements the gear-enhancement mechanic: cost
// and success-rate curves, the single-attempt transaction, and the
// derived-stat formula.
package calibration

import (
	"context"
	"math/rand"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
)

// Outcome discriminates the two terminal results of a valid attempt.
// Precondition failures (not found, max level, insufficient points) are
// returned as errors instead and never consume currency.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// RandFunc draws a uniform value in [0, 1). Injected so calibration
// outcomes are reproducible in tests.
type RandFunc func() float64

// Repository is the persistence surface the engine needs.
type Repository interface {
	GetInventory(ctx context.Context, userID string) (*domain.Inventory, error)
	SaveInventory(ctx context.Context, userID string, inv domain.Inventory) error
	GetPoints(ctx context.Context, userID string) (int, error)
	SavePoints(ctx context.Context, userID string, balance int) error
}

// Service defines the interface for calibration operations
type Service interface {
	Attempt(ctx context.Context, userID, instanceID string) (*AttemptResult, error)
	Preview(ctx context.Context, userID, instanceID string) (*PreviewResult, error)
}

type service struct {
	repo      Repository
	cat       *catalog.Catalog
	locks     *concurrency.LockManager
	publisher *event.ResilientPublisher
	rng       RandFunc
}

// NewService creates a new calibration service. A nil rng falls back to
// math/rand.
func NewService(repo Repository, cat *catalog.Catalog, locks *concurrency.LockManager, publisher *event.ResilientPublisher, rng RandFunc) Service {
	if rng == nil {
		rng = rand.Float64 //nolint:gosec // game-logic randomness, not security critical
	}
	return &service{
		repo:      repo,
		cat:       cat,
		locks:     locks,
		publisher: publisher,
		rng:       rng,
	}
}

// AttemptCost is the currency cost of attempting to calibrate from the
// given level. Strictly increasing in level.
func AttemptCost(cfg domain.CalibrationConfig, level int) int {
	return cfg.CostPerLevel * (level + 1)
}

// SuccessRate is the probability of a calibration attempt succeeding
// from the given level, clamped to the 10% floor.
func SuccessRate(cfg domain.CalibrationConfig, level int) float64 {
	rate := cfg.SuccessRateBase - cfg.SuccessRateDecay*float64(level)
	if rate < domain.SuccessRateFloor {
		rate = domain.SuccessRateFloor
	}
	return rate
}

// ActiveStatsFor computes the calibrated stats for an item at a level:
// base × (1 + level × statIncrement/100), each channel rounded to two
// decimals. Always recomputed from scratch, never accumulated, so the
// cached ItemInstance.ActiveStats cannot drift.
func ActiveStatsFor(base domain.Stats, level int, cfg domain.CalibrationConfig) domain.Stats {
	return base.Scale(1 + float64(level)*cfg.StatIncrement/100)
}

// VerifyActiveStats reports whether an instance's cached stats match
// the pure formula. Used by tests to assert the no-drift invariant.
func VerifyActiveStats(inst domain.ItemInstance, base domain.Stats, cfg domain.CalibrationConfig) bool {
	return inst.ActiveStats == ActiveStatsFor(base, inst.Level, cfg)
}
