package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/inventory"
)

// InventoryHandler groups the inventory and loadout endpoints.
type InventoryHandler struct {
	svc inventory.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(svc inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AcquireRequest is the body for purchasing a catalog item.
type AcquireRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	ItemID string `json:"item_id" validate:"required,max=64"`
}

// InstanceRequest addresses one owned instance.
type InstanceRequest struct {
	UserID     string `json:"user_id" validate:"required,max=64"`
	InstanceID string `json:"instance_id" validate:"required,max=64"`
}

// UnequipRequest clears one equipment slot.
type UnequipRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Category string `json:"category" validate:"required,category"`
}

// HandleGetInventory returns the user's owned instances.
func (h *InventoryHandler) HandleGetInventory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	inv, err := h.svc.GetInventory(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}

// HandleAcquire purchases one catalog item for points.
func (h *InventoryHandler) HandleAcquire(w http.ResponseWriter, r *http.Request) {
	var req AcquireRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Acquire item"); err != nil {
		return
	}

	result, err := h.svc.Acquire(r.Context(), req.UserID, req.ItemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleRemove deletes an owned instance, unequipping it if needed.
func (h *InventoryHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req InstanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Remove item"); err != nil {
		return
	}

	if err := h.svc.Remove(r.Context(), req.UserID, req.InstanceID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Item removed"})
}

// HandleEquip places an owned instance into its category slot.
func (h *InventoryHandler) HandleEquip(w http.ResponseWriter, r *http.Request) {
	var req InstanceRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Equip item"); err != nil {
		return
	}

	result, err := h.svc.Equip(r.Context(), req.UserID, req.InstanceID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleUnequip clears one equipment slot.
func (h *InventoryHandler) HandleUnequip(w http.ResponseWriter, r *http.Request) {
	var req UnequipRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unequip item"); err != nil {
		return
	}

	if err := h.svc.Unequip(r.Context(), req.UserID, domain.Category(req.Category)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: "Slot cleared"})
}

// HandleGetLoadout returns the resolved equipped view: slots, set
// bonuses, stat totals and the display aura.
func (h *InventoryHandler) HandleGetLoadout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetQueryParam(r, w, "user_id")
	if !ok {
		return
	}

	loadout, err := h.svc.GetLoadout(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loadout)
}
