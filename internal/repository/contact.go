package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnfst/outreach/internal/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, tenant_id, list_id, list_name, full_name, first_name, last_name,
	location, job_title, company, email, phone, linkedin, facebook, twitter, instagram,
	whatsapp, tiktok, employee_number, industry, campaigns, last_campaign, contact_channels,
	last_contact_channel, last_contacted_at, available_channels, created_at, updated_at`

func (r *ContactRepository) Create(contact *models.Contact) error {
	contact.ID = uuid.New().String()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.TenantID, nullString(contact.ListID), contact.ListName,
		contact.FullName, contact.FirstName, contact.LastName,
		contact.Location, contact.JobTitle, contact.Company,
		contact.Email, contact.Phone, contact.LinkedIn, contact.Facebook, contact.Twitter,
		contact.Instagram, contact.WhatsApp, contact.TikTok,
		contact.EmployeeNumber, contact.Industry,
		contact.Campaigns, contact.LastCampaign, contact.ContactChannels,
		contact.LastContactChannel, contact.LastContactedAt, contact.AvailableChannels,
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// CountByTenantEmail reports how many contacts a tenant already has with
// the given email, matched exactly. The import pipeline treats any
// non-zero count as a duplicate.
func (r *ContactRepository) CountByTenantEmail(tenantID, email string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM contacts WHERE tenant_id = ? AND email = ?`,
		tenantID, email,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (r *ContactRepository) GetByID(id string) (*models.Contact, error) {
	row := r.db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *ContactRepository) List(filter models.ContactFilter) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE tenant_id = ?`
	args := []any{filter.TenantID}

	if filter.ListID != "" {
		query += ` AND list_id = ?`
		args = append(args, filter.ListID)
	}
	if filter.Email != "" {
		query += ` AND email = ?`
		args = append(args, filter.Email)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Update(contact *models.Contact) error {
	contact.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE contacts SET
			full_name = ?, first_name = ?, last_name = ?, location = ?, job_title = ?, company = ?,
			email = ?, phone = ?, linkedin = ?, facebook = ?, twitter = ?, instagram = ?,
			whatsapp = ?, tiktok = ?, employee_number = ?, industry = ?,
			campaigns = ?, last_campaign = ?, contact_channels = ?, last_contact_channel = ?,
			last_contacted_at = ?, available_channels = ?, updated_at = ?
		WHERE id = ?`,
		contact.FullName, contact.FirstName, contact.LastName, contact.Location, contact.JobTitle, contact.Company,
		contact.Email, contact.Phone, contact.LinkedIn, contact.Facebook, contact.Twitter, contact.Instagram,
		contact.WhatsApp, contact.TikTok, contact.EmployeeNumber, contact.Industry,
		contact.Campaigns, contact.LastCampaign, contact.ContactChannels, contact.LastContactChannel,
		contact.LastContactedAt, contact.AvailableChannels, contact.UpdatedAt,
		contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM contacts WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var listID, listName, lastCampaign, lastChannel sql.NullString
	var lastContactedAt sql.NullTime

	err := row.Scan(
		&contact.ID, &contact.TenantID, &listID, &listName,
		&contact.FullName, &contact.FirstName, &contact.LastName,
		&contact.Location, &contact.JobTitle, &contact.Company,
		&contact.Email, &contact.Phone, &contact.LinkedIn, &contact.Facebook, &contact.Twitter,
		&contact.Instagram, &contact.WhatsApp, &contact.TikTok,
		&contact.EmployeeNumber, &contact.Industry,
		&contact.Campaigns, &lastCampaign, &contact.ContactChannels,
		&lastChannel, &lastContactedAt, &contact.AvailableChannels,
		&contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.ListID = listID.String
	contact.ListName = listName.String
	contact.LastCampaign = lastCampaign.String
	contact.LastContactChannel = lastChannel.String
	if lastContactedAt.Valid {
		t := lastContactedAt.Time
		contact.LastContactedAt = &t
	}
	return contact, nil
}

// nullString maps an empty string to NULL so foreign key columns stay
// unconstrained when no reference is set.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
