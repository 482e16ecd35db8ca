package quest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/progression"
	"github.com/safequest/engine/internal/repository"
	"github.com/safequest/engine/internal/storage"
)

// fixedClock returns a Clock pinned to the given instant.
func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func newTestService(t *testing.T, now Clock) (Service, progression.Service, *repository.KV) {
	t.Helper()
	repo := repository.NewKV(storage.NewMemoryStore())
	locks := concurrency.NewLockManager()
	prog := progression.NewService(repo, locks, nil)
	svc := NewService(repo, catalog.Default(), prog, locks, nil, now)
	return svc, prog, repo
}

// aWednesday is a mid-week, mid-month reference instant so daily is the
// only boundary in play unless a test moves the clock.
var aWednesday = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestUpdateProgress_CompletesAndRewards(t *testing.T) {
	ctx := context.Background()
	svc, prog, _ := newTestService(t, fixedClock(aWednesday))

	result, err := svc.UpdateProgress(ctx, "user1", "daily-checkin", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Current)
	assert.True(t, result.Completed)
	assert.True(t, result.RewardGranted)
	assert.Equal(t, 50, result.RewardPoints)
	assert.Equal(t, 20, result.RewardExp)

	balance, err := prog.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	lp, err := prog.GetLevel(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 20, lp.Exp)
}

func TestUpdateProgress_CompletionLatchIsOneWay(t *testing.T) {
	ctx := context.Background()
	svc, prog, _ := newTestService(t, fixedClock(aWednesday))

	_, err := svc.UpdateProgress(ctx, "user1", "daily-checkin", 1)
	require.NoError(t, err)

	// A second update on the completed quest never re-grants.
	result, err := svc.UpdateProgress(ctx, "user1", "daily-checkin", 1)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.False(t, result.RewardGranted)
	assert.Equal(t, 1, result.Current)

	balance, err := prog.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 50, balance)
}

func TestUpdateProgress_ClampsAtTarget(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	// Target for the PPE scan quest is 3; a huge increment both clamps
	// and completes in one step.
	result, err := svc.UpdateProgress(ctx, "user1", "daily-ppe-scan", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Current)
	assert.True(t, result.Completed)
	assert.True(t, result.RewardGranted)
}

func TestUpdateProgress_PartialProgress(t *testing.T) {
	ctx := context.Background()
	svc, prog, _ := newTestService(t, fixedClock(aWednesday))

	result, err := svc.UpdateProgress(ctx, "user1", "daily-ppe-scan", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Current)
	assert.False(t, result.Completed)
	assert.False(t, result.RewardGranted)

	balance, err := prog.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestUpdateProgress_UnknownQuest(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	_, err := svc.UpdateProgress(ctx, "user1", "no-such-quest", 1)
	assert.ErrorIs(t, err, domain.ErrQuestNotFound)
}

func TestUpdateProgress_InvalidIncrement(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	_, err := svc.UpdateProgress(ctx, "user1", "daily-checkin", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateProgress(ctx, "user1", "daily-checkin", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTriggerAction_FansOutToMatchingQuests(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	// report_hazard feeds both the daily quest and the monthly
	// champion quest.
	results, err := svc.TriggerAction(ctx, "user1", "report_hazard", "worker")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := make(map[string]UpdateResult)
	for _, r := range results {
		byID[r.QuestID] = r
	}
	assert.True(t, byID["daily-hazard-report"].Completed)
	assert.Equal(t, 1, byID["monthly-safety-champion"].Current)
	assert.False(t, byID["monthly-safety-champion"].Completed)
}

func TestTriggerAction_RoleFilter(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	// The inspection quest is supervisor-only.
	results, err := svc.TriggerAction(ctx, "user1", "site_inspection", "worker")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.TriggerAction(ctx, "user1", "site_inspection", "supervisor")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "weekly-inspection", results[0].QuestID)
	assert.Equal(t, 1, results[0].Current)
}

func TestTriggerAction_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	results, err := svc.TriggerAction(ctx, "user1", "REPORT_HAZARD", "worker")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTriggerAction_UnknownAction(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	results, err := svc.TriggerAction(ctx, "user1", "no_such_action", "worker")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetProgress_ListsEveryQuest(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, fixedClock(aWednesday))

	_, err := svc.UpdateProgress(ctx, "user1", "daily-ppe-scan", 2)
	require.NoError(t, err)

	entries, err := svc.GetProgress(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, entries, len(catalog.Default().Quests()))

	for _, e := range entries {
		if e.Quest.ID == "daily-ppe-scan" {
			assert.Equal(t, 2, e.Current)
			assert.False(t, e.Complete)
		} else {
			assert.Equal(t, 0, e.Current)
		}
	}
}
