// Package repository defines the typed per-entity persistence
// interfaces the engine services depend on. Implementations sit on top
// of the storage.Store key-value contract; services never touch raw
// keys themselves.
package repository

import (
	"context"

	"github.com/safequest/engine/internal/domain"
)

// Inventory persists item instances and the equipped loadout.
type Inventory interface {
	GetInventory(ctx context.Context, userID string) (*domain.Inventory, error)
	SaveInventory(ctx context.Context, userID string, inv domain.Inventory) error
	GetEquipped(ctx context.Context, userID string) (*domain.EquippedItems, error)
	SaveEquipped(ctx context.Context, userID string, eq domain.EquippedItems) error
}

// Points persists the points ledger and level progress.
type Points interface {
	GetPoints(ctx context.Context, userID string) (int, error)
	SavePoints(ctx context.Context, userID string, balance int) error
	GetLevel(ctx context.Context, userID string) (*domain.LevelProgress, error)
	SaveLevel(ctx context.Context, userID string, lp domain.LevelProgress) error
}

// Quest persists quest progress and the reset timestamps.
type Quest interface {
	GetQuestState(ctx context.Context, userID string) (*domain.QuestState, error)
	SaveQuestState(ctx context.Context, userID string, qs domain.QuestState) error
	GetResetState(ctx context.Context, userID string) (*domain.ResetState, error)
	SaveResetState(ctx context.Context, userID string, rs domain.ResetState) error
}

// Attendance persists the check-in streak and the monthly sheet.
type Attendance interface {
	GetStreak(ctx context.Context, userID string) (*domain.StreakState, error)
	SaveStreak(ctx context.Context, userID string, st domain.StreakState) error
	GetAttendance(ctx context.Context, userID string) (*domain.MonthlyAttendance, error)
	SaveAttendance(ctx context.Context, userID string, ma domain.MonthlyAttendance) error
}

// State bundles every per-user entity repository.
type State interface {
	Inventory
	Points
	Quest
	Attendance
}
