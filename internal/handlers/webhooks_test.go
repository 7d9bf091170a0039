package handlers

import (
	"net/http"
	"testing"

	"github.com/mnfst/outreach/internal/models"
)

func TestWebhookCompletesWorkflow(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "CTO", "location": "Berlin"})
	resp := decode[struct {
		WorkflowID string `json:"workflowId"`
	}](t, rec)

	cb := app.do(t, "POST", "/webhooks/search/"+resp.WorkflowID, "", map[string]any{
		"status": "success",
		"data":   map[string]any{"found": 3},
	})
	if cb.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", cb.Code)
	}

	workflow := decode[models.Workflow](t, app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, token, nil))
	if workflow.Status != models.WorkflowStatusCompleted {
		t.Errorf("expected completed, got '%s'", workflow.Status)
	}
	if workflow.Result["found"] != float64(3) {
		t.Errorf("expected result data, got %v", workflow.Result)
	}
}

func TestWebhookFailureStatus(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "CTO", "location": "Berlin"})
	resp := decode[struct {
		WorkflowID string `json:"workflowId"`
	}](t, rec)

	// Anything but "success" is a failure.
	cb := app.do(t, "POST", "/webhooks/search/"+resp.WorkflowID, "", map[string]any{
		"status": "error",
		"error":  "scraper crashed",
	})
	if cb.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", cb.Code)
	}

	workflow := decode[models.Workflow](t, app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, token, nil))
	if workflow.Status != models.WorkflowStatusFailed {
		t.Errorf("expected failed, got '%s'", workflow.Status)
	}
	if workflow.Error != "scraper crashed" {
		t.Errorf("expected error message recorded, got '%s'", workflow.Error)
	}
}

func TestWebhookIdempotence(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "CTO", "location": "Berlin"})
	resp := decode[struct {
		WorkflowID string `json:"workflowId"`
	}](t, rec)

	first := app.do(t, "POST", "/webhooks/search/"+resp.WorkflowID, "", map[string]any{
		"status": "success",
		"data":   map[string]any{"found": 3},
	})
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	// A conflicting second callback is acknowledged but changes nothing.
	second := app.do(t, "POST", "/webhooks/search/"+resp.WorkflowID, "", map[string]any{
		"status": "error",
		"error":  "late duplicate",
	})
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 for replayed callback, got %d", second.Code)
	}

	workflow := decode[models.Workflow](t, app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, token, nil))
	if workflow.Status != models.WorkflowStatusCompleted {
		t.Errorf("expected status to stay completed, got '%s'", workflow.Status)
	}
	if workflow.Result["found"] != float64(3) {
		t.Errorf("expected original result to survive, got %v", workflow.Result)
	}
	if workflow.Error != "" {
		t.Errorf("expected no error after replay, got '%s'", workflow.Error)
	}
}

func TestWebhookUnknownJobStillAcknowledged(t *testing.T) {
	app := newTestApp(t, "")

	rec := app.do(t, "POST", "/webhooks/lists/no-such-job", "", map[string]any{"status": "success"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for unknown job, got %d", rec.Code)
	}
}

func TestWebhookMalformedBodyStillAcknowledged(t *testing.T) {
	app := newTestApp(t, "")

	rec := app.do(t, "POST", "/webhooks/search/some-job", "", "not an object")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for malformed callback, got %d", rec.Code)
	}
}
