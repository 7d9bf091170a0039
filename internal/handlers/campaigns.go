package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/models"
)

type campaignRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Channels    models.StringList `json:"channels"`
	ListID      string            `json:"listId"`
}

// CampaignIndex handles GET /api/v1/campaigns
func (h *Handlers) CampaignIndex(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListByTenant(h.identity(r).TenantID)
	if err != nil {
		h.logger.Error("failed to list campaigns", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to list campaigns")
		return
	}
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	h.sendJSON(w, http.StatusOK, campaigns)
}

// CampaignCreate handles POST /api/v1/campaigns
func (h *Handlers) CampaignCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.sendError(w, http.StatusBadRequest, "name is required")
		return
	}

	campaign := &models.Campaign{
		TenantID:    h.identity(r).TenantID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Channels:    req.Channels,
		ListID:      req.ListID,
	}
	if err := h.campaigns.Create(campaign); err != nil {
		h.logger.Error("failed to create campaign", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create campaign")
		return
	}

	h.sendJSON(w, http.StatusCreated, campaign)
}

// CampaignGet handles GET /api/v1/campaigns/{id}
func (h *Handlers) CampaignGet(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.loadCampaign(w, r)
	if !ok {
		return
	}
	h.sendJSON(w, http.StatusOK, campaign)
}

// CampaignUpdate handles PUT /api/v1/campaigns/{id}
func (h *Handlers) CampaignUpdate(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.loadCampaign(w, r)
	if !ok {
		return
	}

	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != "" {
		campaign.Name = req.Name
	}
	campaign.Description = req.Description
	if req.Status != "" {
		campaign.Status = req.Status
	}
	if req.Channels != nil {
		campaign.Channels = req.Channels
	}
	if req.ListID != "" {
		campaign.ListID = req.ListID
	}

	if err := h.campaigns.Update(campaign); err != nil {
		h.logger.Error("failed to update campaign", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to update campaign")
		return
	}
	h.sendJSON(w, http.StatusOK, campaign)
}

// CampaignDelete handles DELETE /api/v1/campaigns/{id}
func (h *Handlers) CampaignDelete(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.loadCampaign(w, r)
	if !ok {
		return
	}
	if err := h.campaigns.Delete(campaign.ID); err != nil {
		h.logger.Error("failed to delete campaign", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to delete campaign")
		return
	}
	h.sendJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

func (h *Handlers) loadCampaign(w http.ResponseWriter, r *http.Request) (*models.Campaign, bool) {
	campaign, err := h.campaigns.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to get campaign", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to get campaign")
		return nil, false
	}
	if campaign == nil {
		h.sendError(w, http.StatusNotFound, "campaign not found")
		return nil, false
	}
	if campaign.TenantID != h.identity(r).TenantID {
		h.sendError(w, http.StatusForbidden, "access denied")
		return nil, false
	}
	return campaign, true
}
