package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnfst/outreach/internal/models"
)

// ErrWorkflowFinished is returned when a status update targets a
// workflow that already reached completed or failed. Terminal states are
// final; late or replayed callbacks must not overwrite them.
var ErrWorkflowFinished = errors.New("workflow already in a terminal state")

type WorkflowRepository struct {
	db *sql.DB
}

func NewWorkflowRepository(db *sql.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

// Create inserts a new workflow record in pending status. The caller's
// status value, if any, is ignored.
func (r *WorkflowRepository) Create(workflow *models.Workflow) error {
	workflow.ID = uuid.New().String()
	workflow.Status = models.WorkflowStatusPending
	workflow.CreatedAt = time.Now()
	workflow.UpdatedAt = workflow.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO workflows (id, tenant_id, type, name, params, status, result, error, n8n_workflow_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		workflow.ID, workflow.TenantID, workflow.Type, workflow.Name, workflow.Params,
		workflow.Status, workflow.Result, workflow.Error, workflow.EngineID,
		workflow.CreatedAt, workflow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) GetByID(id string) (*models.Workflow, error) {
	row := r.db.QueryRow(`
		SELECT id, tenant_id, type, name, params, status, result, error, n8n_workflow_id, created_at, updated_at
		FROM workflows WHERE id = ?`, id)
	workflow, err := scanWorkflow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return workflow, nil
}

// UpdateStatus moves a workflow to the given status, recording the
// result payload and error message. If the workflow is already
// completed or failed the row is left untouched and ErrWorkflowFinished
// is returned; the guard runs inside the UPDATE so concurrent callbacks
// cannot both win.
func (r *WorkflowRepository) UpdateStatus(id, status string, result models.JSONMap, errMsg string) error {
	res, err := r.db.Exec(`
		UPDATE workflows SET status = ?, result = ?, error = ?, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?)`,
		status, result, errMsg, time.Now(),
		id, models.WorkflowStatusCompleted, models.WorkflowStatusFailed,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return sql.ErrNoRows
		}
		return ErrWorkflowFinished
	}
	return nil
}

// UpdateEngineID records the id the automation engine assigned to this
// workflow's execution.
func (r *WorkflowRepository) UpdateEngineID(id, engineID string) error {
	_, err := r.db.Exec(`
		UPDATE workflows SET n8n_workflow_id = ?, updated_at = ? WHERE id = ?`,
		engineID, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow engine id: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) ListByTenant(tenantID string) ([]*models.Workflow, error) {
	return r.list(`
		SELECT id, tenant_id, type, name, params, status, result, error, n8n_workflow_id, created_at, updated_at
		FROM workflows WHERE tenant_id = ? ORDER BY created_at ASC`, tenantID)
}

func (r *WorkflowRepository) ListByTenantType(tenantID, workflowType string) ([]*models.Workflow, error) {
	return r.list(`
		SELECT id, tenant_id, type, name, params, status, result, error, n8n_workflow_id, created_at, updated_at
		FROM workflows WHERE tenant_id = ? AND type = ? ORDER BY created_at ASC`, tenantID, workflowType)
}

func (r *WorkflowRepository) list(query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []*models.Workflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, workflow)
	}
	return workflows, rows.Err()
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	workflow := &models.Workflow{}
	var errMsg, engineID sql.NullString

	err := row.Scan(
		&workflow.ID, &workflow.TenantID, &workflow.Type, &workflow.Name, &workflow.Params,
		&workflow.Status, &workflow.Result, &errMsg, &engineID,
		&workflow.CreatedAt, &workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	workflow.Error = errMsg.String
	workflow.EngineID = engineID.String
	return workflow, nil
}
