// Package progression owns the points ledger, the fixed tier bands and
// the experience/level-up model.
package progression

import (
	"context"
	"fmt"
	"math"

	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
)

// ExpGrowthFactor is the per-level multiplier applied to the exp
// requirement on every level-up, floored.
const ExpGrowthFactor = 1.5

// Repository is the persistence surface the progression model needs.
type Repository interface {
	GetPoints(ctx context.Context, userID string) (int, error)
	SavePoints(ctx context.Context, userID string, balance int) error
	GetLevel(ctx context.Context, userID string) (*domain.LevelProgress, error)
	SaveLevel(ctx context.Context, userID string, lp domain.LevelProgress) error
}

// Service defines the interface for progression operations.
// The model only ever adds points; the calibration engine is the sole
// subtractor in the system.
type Service interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	AddPoints(ctx context.Context, userID string, amount int, source string) (int, error)
	GetTier(ctx context.Context, userID string) (*domain.TierInfo, error)
	AddExp(ctx context.Context, userID string, amount int) (*domain.LevelProgress, error)
	GetLevel(ctx context.Context, userID string) (*domain.LevelProgress, error)
}

type service struct {
	repo      Repository
	locks     *concurrency.LockManager
	publisher *event.ResilientPublisher
}

// NewService creates a new progression service
func NewService(repo Repository, locks *concurrency.LockManager, publisher *event.ResilientPublisher) Service {
	return &service{repo: repo, locks: locks, publisher: publisher}
}

// GetBalance returns the user's current point balance.
func (s *service) GetBalance(ctx context.Context, userID string) (int, error) {
	return s.repo.GetPoints(ctx, userID)
}

// AddPoints credits the ledger. Negative amounts are rejected.
func (s *service) AddPoints(ctx context.Context, userID string, amount int, source string) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative point grant", domain.ErrInvalidInput)
	}

	var balance int
	err := s.locks.WithLock(userID, func() error {
		current, err := s.repo.GetPoints(ctx, userID)
		if err != nil {
			return err
		}
		balance = current + amount
		return s.repo.SavePoints(ctx, userID, balance)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add points: %w", err)
	}

	logger.FromContext(ctx).Info("Points granted",
		"user_id", userID, "amount", amount, "source", source, "balance", balance)
	return balance, nil
}

// GetTier returns the tier band for the user's current balance.
func (s *service) GetTier(ctx context.Context, userID string) (*domain.TierInfo, error) {
	balance, err := s.repo.GetPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := CalculateTier(balance)
	return &info, nil
}

// NextExpToNext returns the requirement after one level-up.
func NextExpToNext(current int) int {
	return int(math.Floor(float64(current) * ExpGrowthFactor))
}

// AddExp accumulates experience and applies level-ups. The loop (not a
// single branch) matters: one large grant can cross several thresholds,
// and leftover exp carries over rather than resetting.
func (s *service) AddExp(ctx context.Context, userID string, amount int) (*domain.LevelProgress, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: negative exp grant", domain.ErrInvalidInput)
	}

	var lp *domain.LevelProgress
	var oldLevel int
	err := s.locks.WithLock(userID, func() error {
		var err error
		lp, err = s.repo.GetLevel(ctx, userID)
		if err != nil {
			return err
		}
		oldLevel = lp.Level

		lp.Exp += amount
		for lp.Exp >= lp.ExpToNext {
			lp.Exp -= lp.ExpToNext
			lp.Level++
			lp.ExpToNext = NextExpToNext(lp.ExpToNext)
		}

		return s.repo.SaveLevel(ctx, userID, *lp)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add exp: %w", err)
	}

	if lp.Level > oldLevel {
		logger.FromContext(ctx).Info("Level up",
			"user_id", userID, "old_level", oldLevel, "new_level", lp.Level)
		if s.publisher != nil {
			for lvl := oldLevel + 1; lvl <= lp.Level; lvl++ {
				s.publisher.PublishWithRetry(ctx, event.NewLevelUpEvent(userID, lvl-1, lvl))
			}
		}
	}

	return lp, nil
}

// GetLevel returns the user's level progress.
func (s *service) GetLevel(ctx context.Context, userID string) (*domain.LevelProgress, error) {
	return s.repo.GetLevel(ctx, userID)
}
