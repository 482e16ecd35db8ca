// Package quest tracks per-quest progress, grants completion rewards
// exactly once, and clears progress at daily, weekly and monthly
// boundaries.
package quest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/progression"
	"github.com/safequest/engine/internal/repository"
)

// Clock returns the current wall-clock time. Injected so boundary
// logic is testable.
type Clock func() time.Time

// ProgressEntry pairs a quest definition with the user's progress.
type ProgressEntry struct {
	Quest    domain.QuestDefinition `json:"quest"`
	Current  int                    `json:"current"`
	Complete bool                   `json:"completed"`
}

// UpdateResult describes the outcome of a progress update.
type UpdateResult struct {
	QuestID       string `json:"quest_id"`
	Current       int    `json:"current"`
	Target        int    `json:"target"`
	Completed     bool   `json:"completed"`
	RewardGranted bool   `json:"reward_granted"`
	RewardPoints  int    `json:"reward_points"`
	RewardExp     int    `json:"reward_exp"`
}

// Service defines the interface for quest operations
type Service interface {
	GetProgress(ctx context.Context, userID string) ([]ProgressEntry, error)
	UpdateProgress(ctx context.Context, userID, questID string, increment int) (*UpdateResult, error)
	TriggerAction(ctx context.Context, userID, action, role string) ([]UpdateResult, error)
	CheckResets(ctx context.Context, userID string) ([]domain.QuestPeriod, error)
}

type service struct {
	repo        repository.Quest
	cat         *catalog.Catalog
	progression progression.Service
	locks       *concurrency.LockManager
	publisher   *event.ResilientPublisher
	now         Clock
}

// NewService creates a new quest service. A nil clock falls back to
// time.Now.
func NewService(repo repository.Quest, cat *catalog.Catalog, prog progression.Service, locks *concurrency.LockManager, publisher *event.ResilientPublisher, now Clock) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        repo,
		cat:         cat,
		progression: prog,
		locks:       locks,
		publisher:   publisher,
		now:         now,
	}
}

// GetProgress returns every catalog quest with the user's progress,
// after applying any pending boundary resets.
func (s *service) GetProgress(ctx context.Context, userID string) ([]ProgressEntry, error) {
	if _, err := s.CheckResets(ctx, userID); err != nil {
		return nil, err
	}

	qs, err := s.repo.GetQuestState(ctx, userID)
	if err != nil {
		return nil, err
	}

	quests := s.cat.Quests()
	out := make([]ProgressEntry, 0, len(quests))
	for _, q := range quests {
		p := qs.Progress[q.ID]
		out = append(out, ProgressEntry{Quest: q, Current: p.Current, Complete: p.Completed})
	}
	return out, nil
}

// UpdateProgress advances one quest. Progress clamps at the target; the
// completion transition grants the reward exactly once. Updating an
// already-completed quest is a no-op with respect to rewards.
func (s *service) UpdateProgress(ctx context.Context, userID, questID string, increment int) (*UpdateResult, error) {
	def, ok := s.cat.QuestByID(questID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}
	if increment <= 0 {
		return nil, fmt.Errorf("%w: increment must be positive", domain.ErrInvalidInput)
	}

	var result *UpdateResult
	err := s.locks.WithLock(userID, func() error {
		qs, err := s.repo.GetQuestState(ctx, userID)
		if err != nil {
			return err
		}

		p := qs.Progress[questID]
		result = s.applyIncrement(&p, def, increment)
		qs.Progress[questID] = p

		return s.repo.SaveQuestState(ctx, userID, *qs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quest progress: %w", err)
	}

	// Reward grant happens outside the user lock: the progression
	// service takes the same lock.
	if result.RewardGranted {
		s.grantReward(ctx, userID, def)
	}

	return result, nil
}

// applyIncrement advances progress in memory and decides whether the
// completion reward fires. The Completed latch is one-way.
func (s *service) applyIncrement(p *domain.QuestProgress, def domain.QuestDefinition, increment int) *UpdateResult {
	result := &UpdateResult{
		QuestID: def.ID,
		Target:  def.Target,
	}

	newCurrent := p.Current + increment
	if newCurrent > def.Target {
		newCurrent = def.Target
	}
	p.Current = newCurrent
	result.Current = newCurrent

	if newCurrent >= def.Target && !p.Completed {
		p.Completed = true
		result.RewardGranted = true
		result.RewardPoints = def.RewardPoints
		result.RewardExp = def.RewardExp
	}
	result.Completed = p.Completed

	return result
}

func (s *service) grantReward(ctx context.Context, userID string, def domain.QuestDefinition) {
	log := logger.FromContext(ctx)

	if _, err := s.progression.AddPoints(ctx, userID, def.RewardPoints, "quest:"+def.ID); err != nil {
		log.Error("Failed to grant quest points", "user_id", userID, "quest_id", def.ID, "error", err)
	}
	if _, err := s.progression.AddExp(ctx, userID, def.RewardExp); err != nil {
		log.Error("Failed to grant quest exp", "user_id", userID, "quest_id", def.ID, "error", err)
	}

	log.Info("Quest completed", "user_id", userID, "quest_id", def.ID,
		"points", def.RewardPoints, "exp", def.RewardExp)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewQuestCompletedEvent(userID, def.ID, def.RewardPoints, def.RewardExp))
	}
}

// TriggerAction fans one action event out to every quest whose action
// matches and whose role filter matches the caller's role (or is
// "all"). Each quest updates independently; pending resets are applied
// first.
func (s *service) TriggerAction(ctx context.Context, userID, action, role string) ([]UpdateResult, error) {
	if _, err := s.CheckResets(ctx, userID); err != nil {
		return nil, err
	}

	var results []UpdateResult
	for _, q := range s.cat.Quests() {
		if !strings.EqualFold(q.Action, action) {
			continue
		}
		if q.Role != domain.RoleAll && !strings.EqualFold(q.Role, role) {
			continue
		}

		r, err := s.UpdateProgress(ctx, userID, q.ID, 1)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}
