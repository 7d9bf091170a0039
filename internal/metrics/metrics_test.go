package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	m := New()

	// Touch a few metrics so they appear in the gather output
	m.ContactsImportedTotal.Inc()
	m.WorkflowsDispatchedTotal.WithLabelValues("search").Inc()
	m.WSConnectionsActive.Set(3)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"outreach_contacts_imported_total",
		"outreach_workflows_dispatched_total",
		"outreach_ws_connections_active",
	} {
		if !names[want] {
			t.Errorf("expected metric %s to be registered", want)
		}
	}
}

func TestGlobalHelpers(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	IncContactsImported()
	IncContactsImported()
	IncContactsDuplicate()
	IncWorkflowCallbacks("search", "completed")
	IncWSConnections()
	DecWSConnections()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "outreach_contacts_imported_total 2") {
		t.Errorf("expected imported counter at 2, body:\n%s", body)
	}
	if !strings.Contains(body, "outreach_contacts_duplicate_total 1") {
		t.Errorf("expected duplicate counter at 1")
	}
	if !strings.Contains(body, `outreach_workflow_callbacks_total{status="completed",type="search"} 1`) {
		t.Errorf("expected callback counter with labels")
	}
}

func TestGlobalHelpersNilSafe(t *testing.T) {
	SetGlobal(nil)

	// None of these may panic without a global instance.
	IncContactsImported()
	IncContactsDuplicate()
	IncImportFailures()
	IncImportBatches()
	IncWorkflowsDispatched("list")
	IncWorkflowCallbacks("list", "failed")
	IncWSConnections()
	DecWSConnections()
}

func TestHTTPMiddleware(t *testing.T) {
	m := New()
	SetGlobal(m)
	defer SetGlobal(nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wrapped := HTTPMiddleware(handler)

	req := httptest.NewRequest("GET", "/api/v1/contacts/0d1f9a34-0000-4000-8000-000000000000", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	recM := httptest.NewRecorder()
	m.Handler().ServeHTTP(recM, httptest.NewRequest("GET", "/metrics", nil))
	body := recM.Body.String()
	if !strings.Contains(body, `path="/api/v1/contacts/{id}"`) {
		t.Errorf("expected normalized path label, body:\n%s", body)
	}
	if !strings.Contains(body, `outreach_api_errors_total{error_type="not_found"} 1`) {
		t.Errorf("expected not_found error counter")
	}
}
