package quest

import (
	"context"
	"fmt"
	"time"

	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
)

// sameDate reports whether two instants fall on the same calendar day
// in the local zone.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dailyDue fires whenever the calendar date has changed since the last
// daily reset. A zero last-reset time counts as due.
func dailyDue(now, last time.Time) bool {
	return !sameDate(now, last)
}

// weeklyDue fires on Mondays, but only once per Monday: at least a full
// day must have passed since the last weekly reset, so repeated sweeps
// on the same Monday are no-ops.
func weeklyDue(now, last time.Time) bool {
	return now.Weekday() == time.Monday && now.Sub(last) > 24*time.Hour
}

// monthlyDue fires on the first of the month when the month has rolled
// over since the last monthly reset.
func monthlyDue(now, last time.Time) bool {
	if now.Day() != 1 {
		return false
	}
	ly, lm, _ := last.Date()
	ny, nm, _ := now.Date()
	return ly != ny || lm != nm
}

// CheckResets applies any due daily/weekly/monthly resets to the user's
// quest state and returns the periods that fired. Re-invoking within
// the same boundary window is idempotent.
func (s *service) CheckResets(ctx context.Context, userID string) ([]domain.QuestPeriod, error) {
	now := s.now()

	var fired []domain.QuestPeriod
	err := s.locks.WithLock(userID, func() error {
		rs, err := s.repo.GetResetState(ctx, userID)
		if err != nil {
			return err
		}

		var due []domain.QuestPeriod
		if dailyDue(now, rs.LastDaily) {
			due = append(due, domain.QuestPeriodDaily)
			rs.LastDaily = now
		}
		if weeklyDue(now, rs.LastWeekly) {
			due = append(due, domain.QuestPeriodWeekly)
			rs.LastWeekly = now
		}
		if monthlyDue(now, rs.LastMonthly) {
			due = append(due, domain.QuestPeriodMonthly)
			rs.LastMonthly = now
		}
		if len(due) == 0 {
			return nil
		}

		qs, err := s.repo.GetQuestState(ctx, userID)
		if err != nil {
			return err
		}
		for _, period := range due {
			for _, q := range s.cat.QuestsForPeriod(period) {
				qs.Progress[q.ID] = domain.QuestProgress{}
			}
		}
		if err := s.repo.SaveQuestState(ctx, userID, *qs); err != nil {
			return err
		}
		if err := s.repo.SaveResetState(ctx, userID, *rs); err != nil {
			return err
		}

		fired = due
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check quest resets: %w", err)
	}

	if len(fired) > 0 {
		log := logger.FromContext(ctx)
		for _, period := range fired {
			quests := s.cat.QuestsForPeriod(period)
			ids := make([]string, 0, len(quests))
			for _, q := range quests {
				ids = append(ids, q.ID)
			}
			log.Info("Quest progress reset", "user_id", userID, "period", period, "quests", len(ids))
			if s.publisher != nil {
				s.publisher.PublishWithRetry(ctx, event.NewQuestResetEvent(userID, period, ids, now))
			}
		}
	}

	return fired, nil
}
