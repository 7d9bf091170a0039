package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnfst/outreach/internal/models"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	campaign.ID = uuid.New().String()
	if campaign.Status == "" {
		campaign.Status = "draft"
	}
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO campaigns (id, tenant_id, name, description, status, channels, list_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID, campaign.TenantID, campaign.Name, campaign.Description, campaign.Status, campaign.Channels, nullString(campaign.ListID), campaign.CreatedAt, campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(id string) (*models.Campaign, error) {
	row := r.db.QueryRow(`
		SELECT id, tenant_id, name, description, status, channels, list_id, created_at, updated_at
		FROM campaigns WHERE id = ?`, id)
	campaign, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	var listID sql.NullString
	err := row.Scan(&campaign.ID, &campaign.TenantID, &campaign.Name, &campaign.Description, &campaign.Status, &campaign.Channels, &listID, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return nil, err
	}
	campaign.ListID = listID.String
	return campaign, nil
}

func (r *CampaignRepository) ListByTenant(tenantID string) ([]*models.Campaign, error) {
	rows, err := r.db.Query(`
		SELECT id, tenant_id, name, description, status, channels, list_id, created_at, updated_at
		FROM campaigns WHERE tenant_id = ? ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	campaign.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE campaigns SET name = ?, description = ?, status = ?, channels = ?, list_id = ?, updated_at = ?
		WHERE id = ?`,
		campaign.Name, campaign.Description, campaign.Status, campaign.Channels, nullString(campaign.ListID), campaign.UpdatedAt, campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM campaigns WHERE id = ?`, id)
	return err
}
