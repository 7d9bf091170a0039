package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/models"
)

type listRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        models.StringList `json:"tags"`
}

// ListIndex handles GET /api/v1/lists
func (h *Handlers) ListIndex(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListByTenant(h.identity(r).TenantID)
	if err != nil {
		h.logger.Error("failed to list lists", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to list lists")
		return
	}
	if lists == nil {
		lists = []*models.List{}
	}
	h.sendJSON(w, http.StatusOK, lists)
}

// ListCreate handles POST /api/v1/lists
func (h *Handlers) ListCreate(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.sendError(w, http.StatusBadRequest, "name is required")
		return
	}

	list := &models.List{
		TenantID:    h.identity(r).TenantID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if err := h.lists.Create(list); err != nil {
		h.logger.Error("failed to create list", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	h.sendJSON(w, http.StatusCreated, list)
}

// ListGet handles GET /api/v1/lists/{id}
func (h *Handlers) ListGet(w http.ResponseWriter, r *http.Request) {
	list, ok := h.loadList(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, list)
}

// ListUpdate handles PUT /api/v1/lists/{id}
func (h *Handlers) ListUpdate(w http.ResponseWriter, r *http.Request) {
	list, ok := h.loadList(w, r)
	if !ok {
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != "" {
		list.Name = req.Name
	}
	list.Description = req.Description
	if req.Tags != nil {
		list.Tags = req.Tags
	}

	if err := h.lists.Update(list); err != nil {
		h.logger.Error("failed to update list", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to update list")
		return
	}
	h.sendJSON(w, http.StatusOK, list)
}

// ListDelete handles DELETE /api/v1/lists/{id}
func (h *Handlers) ListDelete(w http.ResponseWriter, r *http.Request) {
	list, ok := h.loadList(w, r)
	if !ok {
		return
	}
	if err := h.lists.Delete(list.ID); err != nil {
		h.logger.Error("failed to delete list", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]string{"message": "list deleted"})
}

// loadList resolves {id} and enforces the not-found-then-forbidden
// check order.
func (h *Handlers) loadList(w http.ResponseWriter, r *http.Request) (*models.List, bool) {
	list, err := h.lists.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to get list", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to get list")
		return nil, false
	}
	if list == nil {
		h.sendError(w, http.StatusNotFound, "list not found")
		return nil, false
	}
	if list.TenantID != h.identity(r).TenantID {
		h.sendError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return list, true
}
