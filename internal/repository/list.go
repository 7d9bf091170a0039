package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnfst/outreach/internal/models"
)

type ListRepository struct {
	db *sql.DB
}

func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) Create(list *models.List) error {
	list.ID = uuid.New().String()
	list.CreatedAt = time.Now()
	list.UpdatedAt = list.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO lists (id, tenant_id, name, description, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.TenantID, list.Name, list.Description, list.Tags, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// GetByID returns a list by id regardless of tenant; the caller decides
// whether the requesting tenant may see it.
func (r *ListRepository) GetByID(id string) (*models.List, error) {
	list := &models.List{}
	err := r.db.QueryRow(`
		SELECT id, tenant_id, name, description, tags, created_at, updated_at
		FROM lists WHERE id = ?`, id,
	).Scan(&list.ID, &list.TenantID, &list.Name, &list.Description, &list.Tags, &list.CreatedAt, &list.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ListRepository) ListByTenant(tenantID string) ([]*models.List, error) {
	rows, err := r.db.Query(`
		SELECT id, tenant_id, name, description, tags, created_at, updated_at
		FROM lists WHERE tenant_id = ? ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		list := &models.List{}
		if err := rows.Scan(&list.ID, &list.TenantID, &list.Name, &list.Description, &list.Tags, &list.CreatedAt, &list.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (r *ListRepository) Update(list *models.List) error {
	list.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE lists SET name = ?, description = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		list.Name, list.Description, list.Tags, list.UpdatedAt, list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

func (r *ListRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	return err
}
