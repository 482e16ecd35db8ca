package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/safequest/engine/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent; nothing left to do but log.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors. These intentionally
// avoid exposing internal error details.
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgItemNotFoundError       = "Item not found"
	ErrMsgSetNotFoundError        = "Gear set not found"
	ErrMsgInstanceNotFoundError   = "You don't own that item"
	ErrMsgQuestNotFoundError      = "Quest not found"
	ErrMsgConfigNotFoundError     = "No calibration tuning for that item"
	ErrMsgNotEquippedError        = "Nothing is equipped in that slot"
	ErrMsgInvalidCategoryError    = "Invalid equipment slot"
	ErrMsgMaxCalibrationError     = "That item is already fully calibrated"
	ErrMsgInsufficientPointsError = "Not enough points"
	ErrMsgAlreadyCheckedInError   = "Already checked in today"
	ErrMsgRewardClaimedError      = "Reward already claimed this month"
	ErrMsgRewardLockedError       = "Not enough attendance days for that reward"
	ErrMsgRewardUnknownError      = "No reward at that day"
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes
// and user-facing messages.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, ErrMsgItemNotFoundError
	case errors.Is(err, domain.ErrSetNotFound):
		return http.StatusNotFound, ErrMsgSetNotFoundError
	case errors.Is(err, domain.ErrInstanceNotFound):
		return http.StatusNotFound, ErrMsgInstanceNotFoundError
	case errors.Is(err, domain.ErrQuestNotFound):
		return http.StatusNotFound, ErrMsgQuestNotFoundError
	case errors.Is(err, domain.ErrConfigNotFound):
		return http.StatusInternalServerError, ErrMsgConfigNotFoundError
	case errors.Is(err, domain.ErrNotEquipped):
		return http.StatusBadRequest, ErrMsgNotEquippedError
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, ErrMsgInvalidCategoryError
	case errors.Is(err, domain.ErrMaxCalibration):
		return http.StatusConflict, ErrMsgMaxCalibrationError
	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusBadRequest, ErrMsgInsufficientPointsError
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return http.StatusConflict, ErrMsgAlreadyCheckedInError
	case errors.Is(err, domain.ErrRewardAlreadyClaimed):
		return http.StatusConflict, ErrMsgRewardClaimedError
	case errors.Is(err, domain.ErrRewardLocked):
		return http.StatusForbidden, ErrMsgRewardLockedError
	case errors.Is(err, domain.ErrRewardDayUnknown):
		return http.StatusNotFound, ErrMsgRewardUnknownError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError maps a service error and writes the response.
func respondServiceError(w http.ResponseWriter, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	respondError(w, status, msg)
}
