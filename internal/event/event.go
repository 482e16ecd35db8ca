package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/safequest/engine/internal/domain"
)

// EventSchemaVersion is stamped on every published event.
const EventSchemaVersion = "1.0"

// Type represents the type of an event
type Type string

// Event types published by the engine.
const (
	CalibrationAttempted Type = "calibration.attempted"
	CalibrationSucceeded Type = "calibration.succeeded"
	QuestCompleted       Type = "quest.completed"
	QuestReset           Type = "quest.reset"
	PointsLevelUp        Type = "points.levelup"
	AttendanceCheckIn    Type = "attendance.checkin"
	AttendanceClaimed    Type = "attendance.reward_claimed"
	ItemAcquired         Type = "item.acquired"
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads

// CalibrationAttemptPayloadV1 describes one calibration attempt,
// successful or not. Cost is always the amount actually deducted.
type CalibrationAttemptPayloadV1 struct {
	UserID      string  `json:"user_id"`
	InstanceID  string  `json:"instance_id"`
	ItemID      string  `json:"item_id"`
	Success     bool    `json:"success"`
	Cost        int     `json:"cost"`
	SuccessRate float64 `json:"success_rate"`
	LevelBefore int     `json:"level_before"`
	LevelAfter  int     `json:"level_after"`
	Timestamp   int64   `json:"timestamp"`
}

// QuestCompletedPayloadV1 is published exactly once per quest completion.
type QuestCompletedPayloadV1 struct {
	UserID       string `json:"user_id"`
	QuestID      string `json:"quest_id"`
	RewardPoints int    `json:"reward_points"`
	RewardExp    int    `json:"reward_exp"`
}

// QuestResetPayloadV1 is published when a periodic boundary clears quests.
type QuestResetPayloadV1 struct {
	UserID    string             `json:"user_id"`
	Period    domain.QuestPeriod `json:"period"`
	QuestIDs  []string           `json:"quest_ids"`
	ResetTime time.Time          `json:"reset_time"`
}

// LevelUpPayloadV1 is published once per level gained.
type LevelUpPayloadV1 struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// CheckInPayloadV1 is published on every successful daily check-in.
type CheckInPayloadV1 struct {
	UserID       string `json:"user_id"`
	Streak       int    `json:"streak"`
	Longest      int    `json:"longest"`
	RewardPoints int    `json:"reward_points"`
}

// AttendanceClaimPayloadV1 is published when a ladder reward is claimed.
type AttendanceClaimPayloadV1 struct {
	UserID string `json:"user_id"`
	Day    int    `json:"day"`
	Points int    `json:"points"`
	Grand  bool   `json:"grand"`
}

// ItemAcquiredPayloadV1 is published when a user buys an item.
type ItemAcquiredPayloadV1 struct {
	UserID     string `json:"user_id"`
	ItemID     string `json:"item_id"`
	InstanceID string `json:"instance_id"`
	Price      int    `json:"price"`
}

// Type-safe event constructors

// NewCalibrationAttemptEvent creates a calibration attempt event.
// Successful attempts additionally publish CalibrationSucceeded.
func NewCalibrationAttemptEvent(p CalibrationAttemptPayloadV1) Event {
	p.Timestamp = time.Now().Unix()
	t := CalibrationAttempted
	if p.Success {
		t = CalibrationSucceeded
	}
	return Event{Version: EventSchemaVersion, Type: t, Payload: p}
}

// NewQuestCompletedEvent creates a quest completion event.
func NewQuestCompletedEvent(userID, questID string, rewardPoints, rewardExp int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QuestCompleted,
		Payload: QuestCompletedPayloadV1{
			UserID:       userID,
			QuestID:      questID,
			RewardPoints: rewardPoints,
			RewardExp:    rewardExp,
		},
	}
}

// NewQuestResetEvent creates a quest reset event.
func NewQuestResetEvent(userID string, period domain.QuestPeriod, questIDs []string, resetTime time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QuestReset,
		Payload: QuestResetPayloadV1{
			UserID:    userID,
			Period:    period,
			QuestIDs:  questIDs,
			ResetTime: resetTime,
		},
	}
}

// NewLevelUpEvent creates a level-up event.
func NewLevelUpEvent(userID string, oldLevel, newLevel int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PointsLevelUp,
		Payload: LevelUpPayloadV1{UserID: userID, OldLevel: oldLevel, NewLevel: newLevel},
	}
}

// NewCheckInEvent creates a check-in event.
func NewCheckInEvent(userID string, streak, longest, rewardPoints int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AttendanceCheckIn,
		Payload: CheckInPayloadV1{UserID: userID, Streak: streak, Longest: longest, RewardPoints: rewardPoints},
	}
}

// NewAttendanceClaimEvent creates an attendance reward claim event.
func NewAttendanceClaimEvent(userID string, day, points int, grand bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AttendanceClaimed,
		Payload: AttendanceClaimPayloadV1{UserID: userID, Day: day, Points: points, Grand: grand},
	}
}

// NewItemAcquiredEvent creates an item acquisition event.
func NewItemAcquiredEvent(userID, itemID, instanceID string, price int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ItemAcquired,
		Payload: ItemAcquiredPayloadV1{UserID: userID, ItemID: itemID, InstanceID: instanceID, Price: price},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run
// synchronously; handler errors are aggregated, not short-circuited.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler error(s) for %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
