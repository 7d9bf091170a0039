package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mnfst/outreach/internal/models"
)

// stubEngine fakes the automation engine's webhook endpoints.
func stubEngine(t *testing.T) (*httptest.Server, *[]map[string]any) {
	t.Helper()

	var dispatches []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := map[string]any{"path": r.URL.Path}
		switch r.URL.Path {
		case "/outreach/search":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			entry["body"] = body
		case "/outreach/lists/add":
			r.ParseMultipartForm(1 << 20)
			entry["jobId"] = r.FormValue("jobId")
			entry["name"] = r.FormValue("name")
		}
		dispatches = append(dispatches, entry)
		json.NewEncoder(w).Encode(map[string]string{"workflowId": "engine-1"})
	}))
	t.Cleanup(srv.Close)
	return srv, &dispatches
}

func TestOutreachSearchDispatch(t *testing.T) {
	engine, dispatches := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{
		"jobTitle": "CTO",
		"location": "Berlin",
		"channel":  "email",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode[struct {
		Message    string `json:"message"`
		WorkflowID string `json:"workflowId"`
		EngineID   string `json:"n8nWorkflowId"`
	}](t, rec)
	if resp.WorkflowID == "" {
		t.Fatal("expected a workflow id")
	}
	if resp.EngineID != "engine-1" {
		t.Errorf("expected engine id from ack, got '%s'", resp.EngineID)
	}

	if len(*dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(*dispatches))
	}
	body := (*dispatches)[0]["body"].(map[string]any)
	if body["jobId"] != resp.WorkflowID {
		t.Errorf("expected workflow id as jobId, got %v", body["jobId"])
	}

	// The record is pending with the derived name and stored engine id.
	wfRec := app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, token, nil)
	workflow := decode[models.Workflow](t, wfRec)
	if workflow.Status != models.WorkflowStatusPending {
		t.Errorf("expected pending workflow, got '%s'", workflow.Status)
	}
	if workflow.Name != "Search: CTO in Berlin" {
		t.Errorf("unexpected workflow name '%s'", workflow.Name)
	}
	if workflow.EngineID != "engine-1" {
		t.Errorf("expected stored engine id, got '%s'", workflow.EngineID)
	}
}

func TestOutreachSearchValidation(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "CTO"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without location, got %d", rec.Code)
	}
}

func TestOutreachSearchEngineDownLeavesPending(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer engine.Close()

	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{
		"jobTitle": "CTO",
		"location": "Berlin",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on dispatch failure, got %d", rec.Code)
	}

	// The orphaned record survives in pending.
	workflows := decode[[]models.Workflow](t, app.do(t, "GET", "/api/v1/workflows", token, nil))
	if len(workflows) != 1 {
		t.Fatalf("expected 1 workflow, got %d", len(workflows))
	}
	if workflows[0].Status != models.WorkflowStatusPending {
		t.Errorf("expected orphaned pending workflow, got '%s'", workflows[0].Status)
	}
}

func TestOutreachListAdd(t *testing.T) {
	engine, dispatches := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("name", "conference leads")
	writer.WriteField("tags", "berlin,q3")
	part, _ := writer.CreateFormFile("file", "leads.csv")
	part.Write([]byte("email\na@example.com\n"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/outreach/lists/add", &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode[struct {
		WorkflowID string `json:"workflowId"`
	}](t, rec)

	if len(*dispatches) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(*dispatches))
	}
	if (*dispatches)[0]["jobId"] != resp.WorkflowID {
		t.Errorf("expected workflow id forwarded as jobId, got %v", (*dispatches)[0]["jobId"])
	}

	workflow := decode[models.Workflow](t, app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, token, nil))
	if workflow.Type != models.WorkflowTypeList {
		t.Errorf("expected list workflow, got '%s'", workflow.Type)
	}
	if workflow.Name != "List: conference leads" {
		t.Errorf("unexpected workflow name '%s'", workflow.Name)
	}
}

func TestOutreachListAddRequiresFile(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("name", "no file")
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/outreach/lists/add", &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without file, got %d", rec.Code)
	}
}

func TestWorkflowIndexFiltersByType(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "CTO", "location": "Berlin"})
	app.do(t, "POST", "/api/v1/outreach/search", token, map[string]string{"jobTitle": "VP", "location": "Paris"})

	all := decode[[]models.Workflow](t, app.do(t, "GET", "/api/v1/workflows", token, nil))
	if len(all) != 2 {
		t.Errorf("expected 2 workflows, got %d", len(all))
	}

	searches := decode[[]models.Workflow](t, app.do(t, "GET", "/api/v1/workflows?type=search", token, nil))
	if len(searches) != 2 {
		t.Errorf("expected 2 search workflows, got %d", len(searches))
	}

	lists := decode[[]models.Workflow](t, app.do(t, "GET", "/api/v1/workflows?type=list", token, nil))
	if len(lists) != 0 {
		t.Errorf("expected 0 list workflows, got %d", len(lists))
	}

	rec := app.do(t, "GET", "/api/v1/workflows?type=bogus", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestWorkflowGetTenantChecks(t *testing.T) {
	engine, _ := stubEngine(t)
	app := newTestApp(t, engine.URL)
	tokenA := app.signup(t, "a@example.com")
	tokenB := app.signup(t, "b@example.com")

	rec := app.do(t, "POST", "/api/v1/outreach/search", tokenA, map[string]string{"jobTitle": "CTO", "location": "Berlin"})
	resp := decode[struct {
		WorkflowID string `json:"workflowId"`
	}](t, rec)

	if rec := app.do(t, "GET", "/api/v1/workflows/unknown", tokenB, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown workflow, got %d", rec.Code)
	}
	if rec := app.do(t, "GET", "/api/v1/workflows/"+resp.WorkflowID, tokenB, nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign workflow, got %d", rec.Code)
	}
}

func TestExecutionProxy(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/executions/exec-1" {
			t.Errorf("unexpected engine path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "exec-1", "finished": true})
	}))
	defer engine.Close()

	app := newTestApp(t, engine.URL)
	token := app.signup(t, "owner@example.com")

	rec := app.do(t, "GET", "/api/v1/executions/exec-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[map[string]any](t, rec)
	if resp["finished"] != true {
		t.Errorf("expected execution data, got %v", resp)
	}
}
