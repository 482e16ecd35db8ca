package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	// Catalog errors
	ErrMsgItemNotFound   = "item not found"
	ErrMsgSetNotFound    = "set not found"
	ErrMsgQuestNotFound  = "quest not found"
	ErrMsgConfigNotFound = "calibration config not found"

	// Inventory errors
	ErrMsgInstanceNotFound = "item instance not found"
	ErrMsgNotEquipped      = "no item equipped in slot"
	ErrMsgInvalidCategory  = "invalid equipment category"

	// Calibration errors
	ErrMsgMaxCalibration     = "item is already at max calibration level"
	ErrMsgInsufficientPoints = "insufficient points"

	// Attendance errors
	ErrMsgAlreadyCheckedIn     = "already checked in today"
	ErrMsgRewardAlreadyClaimed = "attendance reward already claimed"
	ErrMsgRewardLocked         = "attendance reward not yet reached"
	ErrMsgRewardDayUnknown     = "no attendance reward at that day"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors.
// These errors are used consistently across all layers of the application.
// Wrap them with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	// Catalog errors
	ErrItemNotFound   = errors.New(ErrMsgItemNotFound)
	ErrSetNotFound    = errors.New(ErrMsgSetNotFound)
	ErrQuestNotFound  = errors.New(ErrMsgQuestNotFound)
	ErrConfigNotFound = errors.New(ErrMsgConfigNotFound)

	// Inventory errors
	ErrInstanceNotFound = errors.New(ErrMsgInstanceNotFound)
	ErrNotEquipped      = errors.New(ErrMsgNotEquipped)
	ErrInvalidCategory  = errors.New(ErrMsgInvalidCategory)

	// Calibration errors
	ErrMaxCalibration     = errors.New(ErrMsgMaxCalibration)
	ErrInsufficientPoints = errors.New(ErrMsgInsufficientPoints)

	// Attendance errors
	ErrAlreadyCheckedIn     = errors.New(ErrMsgAlreadyCheckedIn)
	ErrRewardAlreadyClaimed = errors.New(ErrMsgRewardAlreadyClaimed)
	ErrRewardLocked         = errors.New(ErrMsgRewardLocked)
	ErrRewardDayUnknown     = errors.New(ErrMsgRewardDayUnknown)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
