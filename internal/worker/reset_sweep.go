package worker

import (
	"context"

	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/quest"
)

// UserLister enumerates users with persisted engine state.
type UserLister interface {
	ListUsers(ctx context.Context) ([]string, error)
}

// ResetSweepJob walks every known user and applies any due quest
// resets. Boundary checks are idempotent, so sweeping more often than
// the boundaries fire is harmless. Users are also checked lazily on
// their own reads; the sweep exists so resets land close to the
// boundary even for idle users.
type ResetSweepJob struct {
	users  UserLister
	quests quest.Service
}

// NewResetSweepJob creates a new ResetSweepJob
func NewResetSweepJob(users UserLister, quests quest.Service) *ResetSweepJob {
	return &ResetSweepJob{users: users, quests: quests}
}

// Process implements Job.
func (j *ResetSweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	userIDs, err := j.users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	log.Debug(LogMsgResetSweepStarting, "users", len(userIDs))

	swept := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		periods, err := j.quests.CheckResets(ctx, userID)
		if err != nil {
			// One bad user document should not halt the sweep.
			log.Error(LogMsgResetSweepUserFail, "user_id", userID, "error", err)
			continue
		}
		if len(periods) > 0 {
			swept++
		}
	}

	log.Debug(LogMsgResetSweepComplete, "users", len(userIDs), "reset", swept)
	return nil
}
