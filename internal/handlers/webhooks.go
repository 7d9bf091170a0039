package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/metrics"
	"github.com/mnfst/outreach/internal/models"
	"github.com/mnfst/outreach/internal/repository"
)

type callbackRequest struct {
	Status string         `json:"status"`
	Data   models.JSONMap `json:"data"`
	Error  string         `json:"error"`
}

// WebhookSearch handles POST /webhooks/search/{jobID}
func (h *Handlers) WebhookSearch(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.WorkflowTypeSearch)
}

// WebhookList handles POST /webhooks/lists/{jobID}
func (h *Handlers) WebhookList(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.WorkflowTypeList)
}

// handleCallback records the engine's verdict for a dispatched
// workflow. The response is always 200: it acknowledges receipt of the
// callback, not a successful update, so the engine never retries. A
// callback for an already-finished workflow is logged and dropped.
func (h *Handlers) handleCallback(w http.ResponseWriter, r *http.Request, workflowType string) {
	jobID := chi.URLParam(r, "jobID")

	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("malformed workflow callback", "job_id", jobID, "error", err)
		h.sendJSON(w, http.StatusOK, map[string]string{"message": "callback received"})
		return
	}

	status := models.WorkflowStatusFailed
	if req.Status == "success" {
		status = models.WorkflowStatusCompleted
	}
	metrics.IncWorkflowCallbacks(workflowType, status)

	err := h.workflows.UpdateStatus(jobID, status, req.Data, req.Error)
	switch {
	case errors.Is(err, repository.ErrWorkflowFinished):
		h.logger.Warn("callback for finished workflow dropped", "job_id", jobID, "status", req.Status)
	case err != nil:
		h.logger.Error("failed to record workflow callback", "job_id", jobID, "error", err)
	default:
		h.logger.Info("workflow callback recorded", "job_id", jobID, "type", workflowType, "status", status)
	}

	h.sendJSON(w, http.StatusOK, map[string]string{"message": "callback received"})
}
