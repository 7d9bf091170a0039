package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/importer"
	"github.com/mnfst/outreach/internal/models"
	"github.com/mnfst/outreach/internal/normalize"
)

// ContactIndex handles GET /api/v1/contacts (?list_id=, ?email=)
func (h *Handlers) ContactIndex(w http.ResponseWriter, r *http.Request) {
	filter := models.ContactFilter{
		TenantID: h.identity(r).TenantID,
		ListID:   r.URL.Query().Get("list_id"),
		Email:    r.URL.Query().Get("email"),
	}
	contacts, err := h.contacts.List(filter)
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	h.sendJSON(w, http.StatusOK, contacts)
}

// ContactCreate handles POST /api/v1/contacts. The record goes through
// the same normalization as batch imports, so availableChannels is
// derived here too.
func (h *Handlers) ContactCreate(w http.ResponseWriter, r *http.Request) {
	var record normalize.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact := normalize.Contact(record, normalize.Defaults{})
	contact.TenantID = h.identity(r).TenantID
	if listID, ok := record["listId"].(string); ok {
		contact.ListID = listID
	}

	if err := h.contacts.Create(&contact); err != nil {
		h.logger.Error("failed to create contact", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create contact")
		return
	}
	h.sendJSON(w, http.StatusCreated, contact)
}

// ContactGet handles GET /api/v1/contacts/{id}
func (h *Handlers) ContactGet(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.loadContact(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, contact)
}

// ContactUpdate handles PUT /api/v1/contacts/{id}. The tenant id is
// never writable.
func (h *Handlers) ContactUpdate(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.loadContact(w, r)
	if !ok {
		return
	}

	var updated models.Contact
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated.ID = contact.ID
	updated.TenantID = contact.TenantID
	updated.CreatedAt = contact.CreatedAt

	if err := h.contacts.Update(&updated); err != nil {
		h.logger.Error("failed to update contact", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to update contact")
		return
	}
	h.sendJSON(w, http.StatusOK, updated)
}

// ContactDelete handles DELETE /api/v1/contacts/{id}
func (h *Handlers) ContactDelete(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.loadContact(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(contact.ID); err != nil {
		h.logger.Error("failed to delete contact", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to delete contact")
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}

type batchRequest struct {
	ListName        string             `json:"listName"`
	ListTags        models.StringList  `json:"listTags"`
	DefaultJobTitle string             `json:"defaultJobTitle"`
	DefaultLocation string             `json:"defaultLocation"`
	Contacts        []normalize.Record `json:"contacts"`
}

type batchResponse struct {
	Processed  int               `json:"processed"`
	Total      int               `json:"total"`
	Added      int               `json:"addedCount"`
	Duplicates int               `json:"duplicateCount"`
	Contacts   []*models.Contact `json:"contacts"`
}

// ContactBatch handles POST /api/v1/contacts/batch: the HTTP-triggered
// variant of the import pipeline, without live progress.
func (h *Handlers) ContactBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Contacts == nil {
		h.sendError(w, http.StatusBadRequest, "contacts is required")
		return
	}

	tenantID := h.identity(r).TenantID

	batch := importer.Batch{
		TenantID: tenantID,
		ListName: req.ListName,
		Defaults: normalize.Defaults{
			JobTitle: req.DefaultJobTitle,
			Location: req.DefaultLocation,
		},
		Records: req.Contacts,
	}

	if req.ListName != "" {
		list := &models.List{TenantID: tenantID, Name: req.ListName, Tags: req.ListTags}
		if err := h.lists.Create(list); err != nil {
			h.logger.Error("failed to create list", "error", err)
			h.sendError(w, http.StatusInternalServerError, "failed to create list")
			return
		}
		batch.ListID = list.ID
	}

	result, err := h.engine.Run(r.Context(), batch, nil)
	if err != nil {
		h.logger.Error("batch import aborted", "error", err)
		h.sendError(w, http.StatusInternalServerError, "batch import aborted")
		return
	}

	contacts := result.Contacts
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	h.sendJSON(w, http.StatusCreated, batchResponse{
		Processed:  result.Processed,
		Total:      result.Total,
		Added:      result.Added,
		Duplicates: result.Duplicates,
		Contacts:   contacts,
	})
}

func (h *Handlers) loadContact(w http.ResponseWriter, r *http.Request) (*models.Contact, bool) {
	contact, err := h.contacts.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to get contact", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to get contact")
		return nil, false
	}
	if contact == nil {
		h.sendError(w, http.StatusNotFound, "contact not found")
		return nil, false
	}
	if contact.TenantID != h.identity(r).TenantID {
		h.sendError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return contact, true
}
