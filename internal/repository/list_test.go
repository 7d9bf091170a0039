package repository

import (
	"testing"

	"github.com/mnfst/outreach/internal/models"
)

func TestListRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListRepository(db)

	list := &models.List{
		TenantID:    "tenant-1",
		Name:        "Q3 prospects",
		Description: "Leads from the Berlin event",
		Tags:        models.StringList{"berlin", "q3"},
	}
	if err := repo.Create(list); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}
	if list.ID == "" {
		t.Error("expected ID to be set")
	}

	got, err := repo.GetByID(list.ID)
	if err != nil {
		t.Fatalf("failed to get list: %v", err)
	}
	if got == nil {
		t.Fatal("expected list, got nil")
	}
	if got.Name != "Q3 prospects" {
		t.Errorf("expected name 'Q3 prospects', got '%s'", got.Name)
	}
	if len(got.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(got.Tags))
	}
}

func TestListRepository_ListByTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListRepository(db)

	for _, name := range []string{"one", "two"} {
		if err := repo.Create(&models.List{TenantID: "tenant-1", Name: name}); err != nil {
			t.Fatalf("failed to create list: %v", err)
		}
	}
	if err := repo.Create(&models.List{TenantID: "tenant-2", Name: "foreign"}); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}

	lists, err := repo.ListByTenant("tenant-1")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(lists) != 2 {
		t.Errorf("expected 2 lists for tenant-1, got %d", len(lists))
	}
}

func TestListRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListRepository(db)

	list := &models.List{TenantID: "tenant-1", Name: "before"}
	if err := repo.Create(list); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}

	list.Name = "after"
	list.Tags = models.StringList{"updated"}
	if err := repo.Update(list); err != nil {
		t.Fatalf("failed to update list: %v", err)
	}

	got, err := repo.GetByID(list.ID)
	if err != nil {
		t.Fatalf("failed to get list: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("expected name 'after', got '%s'", got.Name)
	}

	if err := repo.Delete(list.ID); err != nil {
		t.Fatalf("failed to delete list: %v", err)
	}
	got, err = repo.GetByID(list.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected list to be deleted")
	}
}
