package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/attendance"
)

// AttendanceHandler groups the check-in and reward ladder endpoints.
type AttendanceHandler struct {
	svc attendance.Service
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(svc attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// CheckInRequest records today's attendance.
type CheckInRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// ClaimRewardRequest claims one rung of the monthly ladder.
type ClaimRewardRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Day    int    `json:"day" validate:"required,gt=0"`
}

// HandleCheckIn records the daily check-in.
func (h *AttendanceHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Check in"); err != nil {
		return
	}

	result, err := h.svc.CheckIn(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleClaimReward claims a monthly attendance reward.
func (h *AttendanceHandler) HandleClaimReward(w http.ResponseWriter, r *http.Request) {
	var req ClaimRewardRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim attendance reward"); err != nil {
		return
	}

	result, err := h.svc.ClaimReward(r.Context(), req.UserID, req.Day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleGetStatus returns the streak and current month's sheet.
func (h *AttendanceHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	status, err := h.svc.GetStatus(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}
