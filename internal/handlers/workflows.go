package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/automation"
	"github.com/mnfst/outreach/internal/metrics"
	"github.com/mnfst/outreach/internal/models"
)

type searchRequest struct {
	JobTitle string `json:"jobTitle"`
	Location string `json:"location"`
	Channel  string `json:"channel"`
}

type dispatchResponse struct {
	Message    string `json:"message"`
	WorkflowID string `json:"workflowId"`
	EngineID   string `json:"n8nWorkflowId,omitempty"`
}

// OutreachSearch handles POST /api/v1/outreach/search: records a
// pending workflow and hands the search off to the automation engine.
// The workflow id doubles as the callback correlation token. If the
// engine rejects the dispatch the record stays pending; there is no
// retry or timeout-driven failure.
func (h *Handlers) OutreachSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.JobTitle == "" || req.Location == "" {
		h.sendError(w, http.StatusBadRequest, "jobTitle and location are required")
		return
	}

	identity := h.identity(r)
	workflow := &models.Workflow{
		TenantID: identity.TenantID,
		Type:     models.WorkflowTypeSearch,
		Name:     fmt.Sprintf("Search: %s in %s", req.JobTitle, req.Location),
		Params: models.JSONMap{
			"jobTitle": req.JobTitle,
			"location": req.Location,
			"channel":  req.Channel,
		},
	}
	if err := h.workflows.Create(workflow); err != nil {
		h.logger.Error("failed to create workflow", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create workflow")
		return
	}

	resp, err := h.automation.DispatchSearch(r.Context(), &automation.SearchDispatch{
		JobID:    workflow.ID,
		TenantID: identity.TenantID,
		JobTitle: req.JobTitle,
		Location: req.Location,
		Channel:  req.Channel,
	})
	if err != nil {
		h.logger.Error("search dispatch failed", "workflow_id", workflow.ID, "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to dispatch search")
		return
	}
	metrics.IncWorkflowsDispatched(models.WorkflowTypeSearch)

	if resp.WorkflowID != "" {
		if err := h.workflows.UpdateEngineID(workflow.ID, resp.WorkflowID); err != nil {
			h.logger.Error("failed to store engine id", "workflow_id", workflow.ID, "error", err)
		}
	}

	h.sendJSON(w, http.StatusOK, dispatchResponse{
		Message:    "search workflow started",
		WorkflowID: workflow.ID,
		EngineID:   resp.WorkflowID,
	})
}

// OutreachListAdd handles POST /api/v1/outreach/lists/add: multipart
// upload forwarded to the engine's list import workflow.
func (h *Handlers) OutreachListAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		h.sendError(w, http.StatusBadRequest, "name is required")
		return
	}

	identity := h.identity(r)
	workflow := &models.Workflow{
		TenantID: identity.TenantID,
		Type:     models.WorkflowTypeList,
		Name:     fmt.Sprintf("List: %s", name),
		Params: models.JSONMap{
			"name":            name,
			"tags":            r.FormValue("tags"),
			"defaultJobTitle": r.FormValue("defaultJobTitle"),
			"defaultLocation": r.FormValue("defaultLocation"),
			"fileName":        header.Filename,
		},
	}
	if err := h.workflows.Create(workflow); err != nil {
		h.logger.Error("failed to create workflow", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create workflow")
		return
	}

	resp, err := h.automation.DispatchList(r.Context(), &automation.ListDispatch{
		JobID:           workflow.ID,
		TenantID:        identity.TenantID,
		Name:            name,
		Tags:            r.FormValue("tags"),
		DefaultJobTitle: r.FormValue("defaultJobTitle"),
		DefaultLocation: r.FormValue("defaultLocation"),
		FileName:        header.Filename,
		File:            file,
	})
	if err != nil {
		h.logger.Error("list dispatch failed", "workflow_id", workflow.ID, "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to dispatch list import")
		return
	}
	metrics.IncWorkflowsDispatched(models.WorkflowTypeList)

	if resp.WorkflowID != "" {
		if err := h.workflows.UpdateEngineID(workflow.ID, resp.WorkflowID); err != nil {
			h.logger.Error("failed to store engine id", "workflow_id", workflow.ID, "error", err)
		}
	}

	h.sendJSON(w, http.StatusOK, dispatchResponse{
		Message:    "list workflow started",
		WorkflowID: workflow.ID,
		EngineID:   resp.WorkflowID,
	})
}

// WorkflowIndex handles GET /api/v1/workflows (?type=search|list)
func (h *Handlers) WorkflowIndex(w http.ResponseWriter, r *http.Request) {
	tenantID := h.identity(r).TenantID

	var workflows []*models.Workflow
	var err error
	if workflowType := r.URL.Query().Get("type"); workflowType != "" {
		if workflowType != models.WorkflowTypeSearch && workflowType != models.WorkflowTypeList {
			h.sendError(w, http.StatusBadRequest, "type must be search or list")
			return
		}
		workflows, err = h.workflows.ListByTenantType(tenantID, workflowType)
	} else {
		workflows, err = h.workflows.ListByTenant(tenantID)
	}
	if err != nil {
		h.logger.Error("failed to list workflows", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to list workflows")
		return
	}
	if workflows == nil {
		workflows = []*models.Workflow{}
	}
	h.sendJSON(w, http.StatusOK, workflows)
}

// WorkflowGet handles GET /api/v1/workflows/{id}
func (h *Handlers) WorkflowGet(w http.ResponseWriter, r *http.Request) {
	workflow, err := h.workflows.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to get workflow", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to get workflow")
		return
	}
	if workflow == nil {
		h.sendError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if workflow.TenantID != h.identity(r).TenantID {
		h.sendError(w, http.StatusForbidden, "access denied")
		return
	}
	h.sendJSON(w, http.StatusOK, workflow)
}

// ExecutionGet handles GET /api/v1/executions/{id}: a proxy for the
// engine's execution data.
func (h *Handlers) ExecutionGet(w http.ResponseWriter, r *http.Request) {
	execution, err := h.automation.GetExecution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("failed to fetch execution", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to fetch execution")
		return
	}
	h.sendJSON(w, http.StatusOK, execution)
}
