package handler

import (
	"net/http"

	"github.com/safequest/engine/internal/catalog"
)

// CatalogHandler serves the read-only content catalog.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// HandleGetItems returns all item definitions.
func (h *CatalogHandler) HandleGetItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.cat.Items()})
}

// HandleGetSets returns all gear set definitions.
func (h *CatalogHandler) HandleGetSets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.cat.Sets()})
}

// HandleGetQuests returns all quest definitions.
func (h *CatalogHandler) HandleGetQuests(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.cat.Quests()})
}

// HandleGetLadder returns the monthly attendance reward table.
func (h *CatalogHandler) HandleGetLadder(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.cat.AttendanceLadder()})
}
