package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/calibration"
	"github.com/safequest/engine/internal/logger"
)

// CalibrationAttemptRequest is the body for a calibration attempt.
type CalibrationAttemptRequest struct {
	UserID     string `json:"user_id" validate:"required,max=64"`
	InstanceID string `json:"instance_id" validate:"required,max=64"`
}

// HandleCalibrationAttempt runs one paid calibration roll on an owned
// item instance.
func HandleCalibrationAttempt(svc calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CalibrationAttemptRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Calibration attempt"); err != nil {
			return
		}

		result, err := svc.Attempt(r.Context(), req.UserID, req.InstanceID)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Calibration attempt rejected",
				"user_id", req.UserID, "instance_id", req.InstanceID, "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}

// HandleCalibrationPreview returns the what-if view for one instance:
// next-level stats, cost, success rate and affordability.
func HandleCalibrationPreview(svc calibration.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, "user_id")
		if !ok {
			return
		}
		instanceID, ok := GetQueryParam(r, w, "instance_id")
		if !ok {
			return
		}

		result, err := svc.Preview(r.Context(), userID, instanceID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}
