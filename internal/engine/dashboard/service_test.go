package dashboard

import (
	"testing"
	"time"

	"revpulse/internal/engine/providers"
	"revpulse/internal/platform/models"
)

type fakeLister struct {
	integrations []*models.Integration
}

func (f *fakeLister) ListByWorkspace(workspaceID string) ([]*models.Integration, error) {
	return f.integrations, nil
}

func TestIntegrationOverviewListsAllProviders(t *testing.T) {
	svc := NewService(&fakeLister{}, providers.NewRegistry())

	overview, err := svc.IntegrationOverview("ws-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(overview.EventSources) != 3 {
		t.Fatalf("Expected 3 event sources, got %d", len(overview.EventSources))
	}
	for _, source := range overview.EventSources {
		if source.Connected {
			t.Errorf("Expected %s to be disconnected", source.ID)
		}
		if source.WebhookVerifiedAt != nil {
			t.Errorf("Disconnected source %s must report null verification", source.ID)
		}
	}
}

func TestIntegrationOverviewConnectedUnverified(t *testing.T) {
	lister := &fakeLister{integrations: []*models.Integration{{
		ID:              "int_1",
		WorkspaceID:     "ws-1",
		IntegrationType: "stripe",
		IsActive:        true,
	}}}
	svc := NewService(lister, providers.NewRegistry())

	overview, err := svc.IntegrationOverview("ws-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	stripe := findSource(t, overview, "stripe")
	if !stripe.Connected {
		t.Error("Expected stripe to be connected")
	}
	if stripe.WebhookVerifiedAt != nil {
		t.Error("Expected webhook_verified_at to be nil before first webhook")
	}
	if stripe.Name != "Stripe" {
		t.Errorf("Expected display name Stripe, got %s", stripe.Name)
	}
}

func TestIntegrationOverviewShowsVerifiedTimestamp(t *testing.T) {
	verifiedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{integrations: []*models.Integration{{
		ID:                "int_1",
		WorkspaceID:       "ws-1",
		IntegrationType:   "stripe",
		IsActive:          true,
		WebhookVerifiedAt: &verifiedAt,
	}}}
	svc := NewService(lister, providers.NewRegistry())

	overview, err := svc.IntegrationOverview("ws-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	stripe := findSource(t, overview, "stripe")
	if stripe.WebhookVerifiedAt == nil || !stripe.WebhookVerifiedAt.Equal(verifiedAt) {
		t.Errorf("Expected verification timestamp %v, got %v", verifiedAt, stripe.WebhookVerifiedAt)
	}
}

func TestIntegrationOverviewInactiveIsDisconnected(t *testing.T) {
	verifiedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{integrations: []*models.Integration{{
		ID:                "int_1",
		WorkspaceID:       "ws-1",
		IntegrationType:   "stripe",
		IsActive:          false,
		WebhookVerifiedAt: &verifiedAt,
	}}}
	svc := NewService(lister, providers.NewRegistry())

	overview, err := svc.IntegrationOverview("ws-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	stripe := findSource(t, overview, "stripe")
	if stripe.Connected {
		t.Error("Expected inactive integration to report disconnected")
	}
	if stripe.WebhookVerifiedAt != nil {
		t.Error("Disconnected source must report null verification even when stamped")
	}
}

func findSource(t *testing.T, overview *Overview, id string) EventSource {
	t.Helper()
	for _, source := range overview.EventSources {
		if source.ID == id {
			return source
		}
	}
	t.Fatalf("Source %s not found", id)
	return EventSource{}
}
