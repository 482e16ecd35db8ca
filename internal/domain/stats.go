package domain

import "math"

// Stats holds the three gear stat channels tracked by the engine.
// PointBoost and XPAccelerator are percentage boosts; StreakSaver is a
// flat charge count but shares the same arithmetic for simplicity.
type Stats struct {
	PointBoost    float64 `json:"point_boost"`
	XPAccelerator float64 `json:"xp_accelerator"`
	StreakSaver   float64 `json:"streak_saver"`
}

// Add returns the element-wise sum of two stat blocks.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		PointBoost:    s.PointBoost + other.PointBoost,
		XPAccelerator: s.XPAccelerator + other.XPAccelerator,
		StreakSaver:   s.StreakSaver + other.StreakSaver,
	}
}

// Sub returns the element-wise difference of two stat blocks.
func (s Stats) Sub(other Stats) Stats {
	return Stats{
		PointBoost:    s.PointBoost - other.PointBoost,
		XPAccelerator: s.XPAccelerator - other.XPAccelerator,
		StreakSaver:   s.StreakSaver - other.StreakSaver,
	}
}

// Scale returns the stats multiplied by factor, each channel rounded to
// two decimal places. All derived-stat math in the engine goes through
// this rounding so cached and recomputed values can never diverge.
func (s Stats) Scale(factor float64) Stats {
	return Stats{
		PointBoost:    Round2(s.PointBoost * factor),
		XPAccelerator: Round2(s.XPAccelerator * factor),
		StreakSaver:   Round2(s.StreakSaver * factor),
	}
}

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
