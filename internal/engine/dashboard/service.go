package dashboard

import (
	"time"

	"revpulse/internal/engine/providers"
	"revpulse/internal/platform/models"
)

type IntegrationLister interface {
	ListByWorkspace(workspaceID string) ([]*models.Integration, error)
}

// EventSource is one row of the integration overview: every supported
// provider appears, connected or not. Disconnected sources always report a
// null verification timestamp.
type EventSource struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Connected         bool       `json:"connected"`
	WebhookVerifiedAt *time.Time `json:"webhook_verified_at"`
}

type Overview struct {
	EventSources []EventSource `json:"event_sources"`
}

type Service struct {
	integrations IntegrationLister
	registry     *providers.Registry
}

func NewService(integrations IntegrationLister, registry *providers.Registry) *Service {
	return &Service{integrations: integrations, registry: registry}
}

func (s *Service) IntegrationOverview(workspaceID string) (*Overview, error) {
	connected, err := s.integrations.ListByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*models.Integration, len(connected))
	for _, integration := range connected {
		byType[integration.IntegrationType] = integration
	}

	overview := &Overview{}
	for _, providerType := range s.registry.Types() {
		verifier, _ := s.registry.Get(providerType)
		source := EventSource{
			ID:   providerType,
			Name: verifier.DisplayName(),
		}
		if integration, ok := byType[providerType]; ok && integration.IsActive {
			source.Connected = true
			source.WebhookVerifiedAt = integration.WebhookVerifiedAt
		}
		overview.EventSources = append(overview.EventSources, source)
	}

	return overview, nil
}
