package repository

import (
	"testing"

	"github.com/mnfst/outreach/internal/models"
)

func TestContactRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	contact := &models.Contact{
		TenantID:          "tenant-1",
		FullName:          "Jane Doe",
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		Company:           "Acme",
		AvailableChannels: models.StringList{"email"},
	}

	if err := repo.Create(contact); err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if contact.ID == "" {
		t.Error("expected ID to be set")
	}

	got, err := repo.GetByID(contact.ID)
	if err != nil {
		t.Fatalf("failed to get contact: %v", err)
	}
	if got == nil {
		t.Fatal("expected contact, got nil")
	}
	if got.Email != "jane@example.com" {
		t.Errorf("expected email 'jane@example.com', got '%s'", got.Email)
	}
	if len(got.AvailableChannels) != 1 || got.AvailableChannels[0] != "email" {
		t.Errorf("expected available channels [email], got %v", got.AvailableChannels)
	}
	if got.LastContactedAt != nil {
		t.Errorf("expected nil last contacted time, got %v", got.LastContactedAt)
	}
}

func TestContactRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	got, err := repo.GetByID("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing contact, got %+v", got)
	}
}

func TestContactRepository_CountByTenantEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	contacts := []*models.Contact{
		{TenantID: "tenant-1", Email: "dup@example.com"},
		{TenantID: "tenant-1", Email: "dup@example.com"},
		{TenantID: "tenant-1", Email: "other@example.com"},
		{TenantID: "tenant-2", Email: "dup@example.com"},
	}
	for _, c := range contacts {
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}
	}

	count, err := repo.CountByTenantEmail("tenant-1", "dup@example.com")
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	// Other tenant's contacts never count
	count, err = repo.CountByTenantEmail("tenant-3", "dup@example.com")
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0 for unknown tenant, got %d", count)
	}
}

func TestContactRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	lists := NewListRepository(db)
	repo := NewContactRepository(db)

	list := &models.List{TenantID: "tenant-1", Name: "Prospects"}
	if err := lists.Create(list); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}

	contacts := []*models.Contact{
		{TenantID: "tenant-1", ListID: list.ID, Email: "a@example.com"},
		{TenantID: "tenant-1", Email: "b@example.com"},
		{TenantID: "tenant-2", Email: "c@example.com"},
	}
	for _, c := range contacts {
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create contact: %v", err)
		}
	}

	all, err := repo.List(models.ContactFilter{TenantID: "tenant-1"})
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 contacts for tenant-1, got %d", len(all))
	}

	byList, err := repo.List(models.ContactFilter{TenantID: "tenant-1", ListID: list.ID})
	if err != nil {
		t.Fatalf("failed to list by list: %v", err)
	}
	if len(byList) != 1 || byList[0].Email != "a@example.com" {
		t.Errorf("expected only a@example.com in list, got %d contacts", len(byList))
	}

	byEmail, err := repo.List(models.ContactFilter{TenantID: "tenant-1", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("failed to list by email: %v", err)
	}
	if len(byEmail) != 1 {
		t.Errorf("expected 1 contact by email, got %d", len(byEmail))
	}
}

func TestContactRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	contact := &models.Contact{TenantID: "tenant-1", Email: "old@example.com"}
	if err := repo.Create(contact); err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}

	contact.Email = "new@example.com"
	contact.Company = "Updated Inc"
	if err := repo.Update(contact); err != nil {
		t.Fatalf("failed to update contact: %v", err)
	}

	got, err := repo.GetByID(contact.ID)
	if err != nil {
		t.Fatalf("failed to get contact: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Errorf("expected updated email, got '%s'", got.Email)
	}
	if got.Company != "Updated Inc" {
		t.Errorf("expected updated company, got '%s'", got.Company)
	}
}

func TestContactRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepository(db)

	contact := &models.Contact{TenantID: "tenant-1", Email: "gone@example.com"}
	if err := repo.Create(contact); err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	if err := repo.Delete(contact.ID); err != nil {
		t.Fatalf("failed to delete contact: %v", err)
	}

	got, err := repo.GetByID(contact.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected contact to be deleted")
	}
}
