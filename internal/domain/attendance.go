package domain

import "time"

// StreakState tracks consecutive daily check-ins.
type StreakState struct {
	Current     int       `json:"current"`
	Longest     int       `json:"longest"`
	LastCheckIn time.Time `json:"last_check_in"`
}

// MonthFormat is the layout for MonthlyAttendance.Month.
const MonthFormat = "2006-01"

// MonthlyAttendance tracks which days of the current month a user has
// checked in, and which day-threshold rewards were claimed. The whole
// document resets when the wall-clock month changes.
type MonthlyAttendance struct {
	Month           string       `json:"month"`
	AttendedDays    map[int]bool `json:"attended_days"`
	ClaimedRewards  map[int]bool `json:"claimed_rewards"`
	TotalAttendance int          `json:"total_attendance"`
}

// NewMonthlyAttendance returns an empty sheet for the given month.
func NewMonthlyAttendance(month string) MonthlyAttendance {
	return MonthlyAttendance{
		Month:          month,
		AttendedDays:   make(map[int]bool),
		ClaimedRewards: make(map[int]bool),
	}
}

// AttendanceReward is one rung of the monthly attendance ladder.
// Grand marks the distinguished final entry.
type AttendanceReward struct {
	Day    int  `json:"day"`
	Points int  `json:"points"`
	Grand  bool `json:"grand,omitempty"`
}
