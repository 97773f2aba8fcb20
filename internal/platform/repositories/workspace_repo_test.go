package repositories

import (
	"testing"

	"revpulse/internal/platform/models"
)

func TestWorkspaceCreateAlsoCreatesSettings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkspaceRepository(db)

	ws := &models.Workspace{Name: "Test Workspace", ShopDomain: "test.myshopify.com"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}
	if ws.ID == "" {
		t.Fatal("Expected generated workspace id")
	}

	settings, err := repo.GetNotificationSettings(ws.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if settings == nil {
		t.Fatal("Workspace creation must create its notification settings")
	}
	if !settings.NotifyPayments || !settings.NotifySubscriptions {
		t.Errorf("Expected notifications on by default, got %+v", settings)
	}
	if settings.DigestFrequency != "daily" {
		t.Errorf("Expected daily digest default, got %s", settings.DigestFrequency)
	}
}

func TestWorkspaceCreateRollsBackAtomically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkspaceRepository(db)

	ws := &models.Workspace{ID: "ws-dup", Name: "First"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}

	// Second insert with the same id fails on the workspace row; the
	// settings insert must not have happened either.
	if err := repo.Create(&models.Workspace{ID: "ws-dup", Name: "Second"}); err == nil {
		t.Fatal("Expected duplicate id to fail")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notification_settings WHERE workspace_id = 'ws-dup'`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one settings row, got %d", count)
	}
}

func TestWorkspaceGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkspaceRepository(db)

	ws := &models.Workspace{Name: "Lookup Workspace"}
	if err := repo.Create(ws); err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}

	got, err := repo.GetByID(ws.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got == nil || got.Name != "Lookup Workspace" {
		t.Errorf("Unexpected workspace: %+v", got)
	}

	missing, err := repo.GetByID("ws-missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown workspace")
	}
}
