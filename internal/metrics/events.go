package metrics

import (
	"context"

	"github.com/safequest/engine/internal/event"
)

// EventCollector subscribes to engine events and records business
// metrics. Keeping the counters event-driven means services don't need
// a metrics dependency of their own.
type EventCollector struct{}

// NewEventCollector creates a new EventCollector
func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Register subscribes the collector to the relevant event types.
func (c *EventCollector) Register(bus event.Bus) {
	bus.Subscribe(event.CalibrationAttempted, c.onCalibration)
	bus.Subscribe(event.CalibrationSucceeded, c.onCalibration)
	bus.Subscribe(event.QuestCompleted, c.onQuestCompleted)
	bus.Subscribe(event.QuestReset, c.onQuestReset)
	bus.Subscribe(event.AttendanceCheckIn, c.onCheckIn)
	bus.Subscribe(event.AttendanceClaimed, c.onClaim)
	bus.Subscribe(event.ItemAcquired, c.onItemAcquired)
}

func (c *EventCollector) onCalibration(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.CalibrationAttemptPayloadV1)
	if !ok {
		return nil
	}
	outcome := "failure"
	if p.Success {
		outcome = "success"
	}
	// Rarity is not on the payload; counting per-outcome only keeps the
	// label space bounded.
	CalibrationAttempts.WithLabelValues("all", outcome).Inc()
	PointsSpent.Add(float64(p.Cost))
	return nil
}

func (c *EventCollector) onQuestCompleted(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.QuestCompletedPayloadV1)
	if !ok {
		return nil
	}
	QuestsCompleted.WithLabelValues(p.QuestID).Inc()
	PointsEarned.Add(float64(p.RewardPoints))
	return nil
}

func (c *EventCollector) onQuestReset(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.QuestResetPayloadV1)
	if !ok {
		return nil
	}
	QuestResets.WithLabelValues(string(p.Period)).Inc()
	return nil
}

func (c *EventCollector) onCheckIn(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.CheckInPayloadV1)
	if !ok {
		return nil
	}
	CheckIns.Inc()
	PointsEarned.Add(float64(p.RewardPoints))
	return nil
}

func (c *EventCollector) onClaim(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.AttendanceClaimPayloadV1)
	if !ok {
		return nil
	}
	PointsEarned.Add(float64(p.Points))
	return nil
}

func (c *EventCollector) onItemAcquired(_ context.Context, e event.Event) error {
	p, ok := e.Payload.(event.ItemAcquiredPayloadV1)
	if !ok {
		return nil
	}
	ItemsAcquired.Inc()
	PointsSpent.Add(float64(p.Price))
	return nil
}
