package models

import "time"

// Workflow types.
const (
	WorkflowTypeSearch = "search"
	WorkflowTypeList   = "list"
)

// Workflow statuses. Transitions are monotonic: pending moves to exactly
// one of completed or failed and then never changes again.
const (
	WorkflowStatusPending   = "pending"
	WorkflowStatusCompleted = "completed"
	WorkflowStatusFailed    = "failed"
)

// Workflow tracks one asynchronous job handed off to the remote automation
// engine. The workflow id doubles as the correlation token the engine sends
// back on its completion webhook. Result and Error are only meaningful once
// Status is terminal.
type Workflow struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Type      string    `json:"type"` // search, list
	Name      string    `json:"name"`
	Params    JSONMap   `json:"params"`
	Status    string    `json:"status"`
	Result    JSONMap   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	EngineID  string    `json:"n8nWorkflowId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal reports whether the workflow has reached a final state.
func (w *Workflow) Terminal() bool {
	return w.Status == WorkflowStatusCompleted || w.Status == WorkflowStatusFailed
}
