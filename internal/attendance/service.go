// Package attendance owns the daily check-in streak and the monthly
// attendance reward ladder.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/progression"
	"github.com/safequest/engine/internal/repository"
)

// CheckInRewardPoints is the flat grant for every successful check-in,
// independent of streak length.
const CheckInRewardPoints = 25

// Clock returns the current wall-clock time.
type Clock func() time.Time

// CheckInResult describes a successful check-in.
type CheckInResult struct {
	Current         int  `json:"current"`
	Longest         int  `json:"longest"`
	StreakExtended  bool `json:"streak_extended"`
	RewardPoints    int  `json:"reward_points"`
	Balance         int  `json:"balance"`
	TotalAttendance int  `json:"total_attendance"`
}

// ClaimResult describes a successful ladder reward claim.
type ClaimResult struct {
	Day     int  `json:"day"`
	Points  int  `json:"points"`
	Grand   bool `json:"grand"`
	Balance int  `json:"balance"`
}

// Status is the read-only attendance view.
type Status struct {
	Streak   domain.StreakState `json:"streak"`
	Month    string             `json:"month"`
	Attended []int              `json:"attended_days"`
	Total    int                `json:"total_attendance"`
	Ladder   []LadderEntry      `json:"ladder"`
}

// LadderEntry is one ladder rung annotated with the user's claim state.
type LadderEntry struct {
	Day       int  `json:"day"`
	Points    int  `json:"points"`
	Grand     bool `json:"grand"`
	Claimable bool `json:"claimable"`
	Claimed   bool `json:"claimed"`
}

// Service defines the interface for attendance operations
type Service interface {
	CheckIn(ctx context.Context, userID string) (*CheckInResult, error)
	ClaimReward(ctx context.Context, userID string, day int) (*ClaimResult, error)
	GetStatus(ctx context.Context, userID string) (*Status, error)
}

type service struct {
	repo        repository.Attendance
	cat         *catalog.Catalog
	progression progression.Service
	locks       *concurrency.LockManager
	publisher   *event.ResilientPublisher
	now         Clock
}

// NewService creates a new attendance service. A nil clock falls back
// to time.Now.
func NewService(repo repository.Attendance, cat *catalog.Catalog, prog progression.Service, locks *concurrency.LockManager, publisher *event.ResilientPublisher, now Clock) Service {
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

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isYesterday(now, last time.Time) bool {
	return sameDay(now.AddDate(0, 0, -1), last)
}

// rollover returns the sheet for the current month, discarding any
// stale sheet from an earlier month.
func rollover(ma domain.MonthlyAttendance, month string) domain.MonthlyAttendance {
	if ma.Month == month {
		return ma
	}
	return domain.NewMonthlyAttendance(month)
}

// CheckIn records today's attendance. A second check-in on the same
// calendar day is rejected with no state change. A check-in the day
// after the last one extends the streak; any longer gap restarts it
// at 1 (never 0).
func (s *service) CheckIn(ctx context.Context, userID string) (*CheckInResult, error) {
	now := s.now()

	var result *CheckInResult
	err := s.locks.WithLock(userID, func() error {
		st, err := s.repo.GetStreak(ctx, userID)
		if err != nil {
			return err
		}

		if !st.LastCheckIn.IsZero() && sameDay(now, st.LastCheckIn) {
			return domain.ErrAlreadyCheckedIn
		}

		extended := !st.LastCheckIn.IsZero() && isYesterday(now, st.LastCheckIn)
		if extended {
			st.Current++
		} else {
			st.Current = 1
		}
		if st.Current > st.Longest {
			st.Longest = st.Current
		}
		st.LastCheckIn = now

		ma, err := s.repo.GetAttendance(ctx, userID)
		if err != nil {
			return err
		}
		sheet := rollover(*ma, now.Format(domain.MonthFormat))
		if !sheet.AttendedDays[now.Day()] {
			sheet.AttendedDays[now.Day()] = true
			sheet.TotalAttendance++
		}

		if err := s.repo.SaveStreak(ctx, userID, *st); err != nil {
			return err
		}
		if err := s.repo.SaveAttendance(ctx, userID, sheet); err != nil {
			return err
		}

		result = &CheckInResult{
			Current:         st.Current,
			Longest:         st.Longest,
			StreakExtended:  extended,
			RewardPoints:    CheckInRewardPoints,
			TotalAttendance: sheet.TotalAttendance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The flat reward lands outside the user lock: the progression
	// service takes the same lock.
	balance, err := s.progression.AddPoints(ctx, userID, CheckInRewardPoints, "attendance:check_in")
	if err != nil {
		return nil, fmt.Errorf("failed to grant check-in reward: %w", err)
	}
	result.Balance = balance

	logger.FromContext(ctx).Info("Check-in recorded",
		"user_id", userID, "streak", result.Current, "longest", result.Longest)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewCheckInEvent(userID, result.Current, result.Longest, CheckInRewardPoints))
	}

	return result, nil
}

// ClaimReward claims one rung of the monthly ladder. The rung must
// exist, must not already be claimed this month, and the user's
// attendance total must have reached its day threshold.
func (s *service) ClaimReward(ctx context.Context, userID string, day int) (*ClaimResult, error) {
	reward, ok := s.cat.AttendanceRewardForDay(day)
	if !ok {
		return nil, fmt.Errorf("%w: day %d", domain.ErrRewardDayUnknown, day)
	}

	now := s.now()
	var result *ClaimResult
	err := s.locks.WithLock(userID, func() error {
		ma, err := s.repo.GetAttendance(ctx, userID)
		if err != nil {
			return err
		}
		sheet := rollover(*ma, now.Format(domain.MonthFormat))

		if sheet.ClaimedRewards[day] {
			return fmt.Errorf("%w: day %d", domain.ErrRewardAlreadyClaimed, day)
		}
		if sheet.TotalAttendance < day {
			return fmt.Errorf("%w: need %d attended days, have %d", domain.ErrRewardLocked, day, sheet.TotalAttendance)
		}

		sheet.ClaimedRewards[day] = true
		if err := s.repo.SaveAttendance(ctx, userID, sheet); err != nil {
			return err
		}

		result = &ClaimResult{Day: day, Points: reward.Points, Grand: reward.Grand}
		return nil
	})
	if err != nil {
		return nil, err
	}

	balance, err := s.progression.AddPoints(ctx, userID, reward.Points, fmt.Sprintf("attendance:ladder:%d", day))
	if err != nil {
		return nil, fmt.Errorf("failed to grant ladder reward: %w", err)
	}
	result.Balance = balance

	logger.FromContext(ctx).Info("Attendance reward claimed",
		"user_id", userID, "day", day, "points", reward.Points, "grand", reward.Grand)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewAttendanceClaimEvent(userID, day, reward.Points, reward.Grand))
	}

	return result, nil
}

// GetStatus returns the streak and the current month's sheet with the
// ladder annotated per rung.
func (s *service) GetStatus(ctx context.Context, userID string) (*Status, error) {
	st, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	ma, err := s.repo.GetAttendance(ctx, userID)
	if err != nil {
		return nil, err
	}
	sheet := rollover(*ma, s.now().Format(domain.MonthFormat))

	attended := make([]int, 0, len(sheet.AttendedDays))
	for d := 1; d <= 31; d++ {
		if sheet.AttendedDays[d] {
			attended = append(attended, d)
		}
	}

	ladder := make([]LadderEntry, 0, len(s.cat.AttendanceLadder()))
	for _, r := range s.cat.AttendanceLadder() {
		ladder = append(ladder, LadderEntry{
			Day:       r.Day,
			Points:    r.Points,
			Grand:     r.Grand,
			Claimable: sheet.TotalAttendance >= r.Day && !sheet.ClaimedRewards[r.Day],
			Claimed:   sheet.ClaimedRewards[r.Day],
		})
	}

	return &Status{
		Streak:   *st,
		Month:    sheet.Month,
		Attended: attended,
		Total:    sheet.TotalAttendance,
		Ladder:   ladder,
	}, nil
}
