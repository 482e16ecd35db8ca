package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/progression"
)

// ProgressionHandler groups the points, tier and level endpoints.
type ProgressionHandler struct {
	svc progression.Service
}

// NewProgressionHandler creates a new ProgressionHandler
func NewProgressionHandler(svc progression.Service) *ProgressionHandler {
	return &ProgressionHandler{svc: svc}
}

// GrantPointsRequest credits the ledger from an external source.
type GrantPointsRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Amount int    `json:"amount" validate:"required,gt=0"`
	Source string `json:"source" validate:"required,max=64"`
}

// GrantExpRequest credits experience from an external source.
type GrantExpRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

// BalanceResponse reports the current ledger balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int    `json:"balance"`
}

// HandleGetBalance returns the user's point balance.
func (h *ProgressionHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// HandleGetTier returns the tier band for the user's balance.
func (h *ProgressionHandler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	tier, err := h.svc.GetTier(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tier)
}

// HandleGetLevel returns the user's level progress.
func (h *ProgressionHandler) HandleGetLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	lp, err := h.svc.GetLevel(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lp)
}

// HandleGrantPoints credits the ledger. Intended for trusted upstream
// callers (safety-event ingestion), not end users.
func (h *ProgressionHandler) HandleGrantPoints(w http.ResponseWriter, r *http.Request) {
	var req GrantPointsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant points"); err != nil {
		return
	}

	balance, err := h.svc.AddPoints(r.Context(), req.UserID, req.Amount, req.Source)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{UserID: req.UserID, Balance: balance})
}

// HandleGrantExp credits experience, applying any level-ups.
func (h *ProgressionHandler) HandleGrantExp(w http.ResponseWriter, r *http.Request) {
	var req GrantExpRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Grant exp"); err != nil {
		return
	}

	lp, err := h.svc.AddExp(r.Context(), req.UserID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lp)
}
