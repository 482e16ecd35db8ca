package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/quest"
)

// QuestHandler groups the quest endpoints.
type QuestHandler struct {
	svc quest.Service
}

// NewQuestHandler creates a new QuestHandler
func NewQuestHandler(svc quest.Service) *QuestHandler {
	return &QuestHandler{svc: svc}
}

// QuestProgressRequest advances one quest directly.
type QuestProgressRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	QuestID   string `json:"quest_id" validate:"required,max=64"`
	Increment int    `json:"increment" validate:"required,gt=0"`
}

// QuestActionRequest reports one domain action for quest fan-out.
type QuestActionRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Action string `json:"action" validate:"required,max=64"`
	Role   string `json:"role" validate:"max=64"`
}

// HandleGetProgress returns all quests with the user's progress.
func (h *QuestHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	entries, err := h.svc.GetProgress(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: entries})
}

// HandleUpdateProgress advances a single quest by an increment.
func (h *QuestHandler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req QuestProgressRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update quest progress"); err != nil {
		return
	}

	result, err := h.svc.UpdateProgress(r.Context(), req.UserID, req.QuestID, req.Increment)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleTriggerAction fans a domain action out to all matching quests.
func (h *QuestHandler) HandleTriggerAction(w http.ResponseWriter, r *http.Request) {
	var req QuestActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Trigger quest action"); err != nil {
		return
	}

	results, err := h.svc.TriggerAction(r.Context(), req.UserID, req.Action, req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: results})
}
