package processor

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"revpulse/internal/engine/enrichment"
	"revpulse/internal/engine/providers"
	"revpulse/internal/platform/models"
)

// Result is what the HTTP boundary needs to know: only a signature failure
// may surface as a non-2xx response to the provider.
type Result int

const (
	ResultAccepted Result = iota
	ResultRejected
	ResultUnknownIntegration
)

type IntegrationSource interface {
	GetByWorkspaceAndType(workspaceID, integrationType string) (*models.Integration, error)
	StampWebhookVerified(id string, at time.Time) error
}

type Enricher interface {
	Enrich(ctx context.Context, event *providers.ParsedEvent) *enrichment.RichNotification
}

type RecordStore interface {
	StoreEnrichedRecord(ctx context.Context, event *providers.ParsedEvent, notification *enrichment.RichNotification, workspaceID string) bool
}

// Processor orchestrates one inbound webhook: verify, stamp, parse, enrich,
// store. Each call is an independent unit of work; the only shared state is
// behind the injected store and integration source.
type Processor struct {
	integrations IntegrationSource
	registry     *providers.Registry
	enricher     Enricher
	store        RecordStore
	now          func() time.Time
}

func New(integrations IntegrationSource, registry *providers.Registry, enricher Enricher, store RecordStore) *Processor {
	return &Processor{
		integrations: integrations,
		registry:     registry,
		enricher:     enricher,
		store:        store,
		now:          time.Now,
	}
}

// WithClock injects the time source used for verification stamps, for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

func (p *Processor) Process(ctx context.Context, workspaceID, providerType string, body []byte, headers http.Header) Result {
	verifier, ok := p.registry.Get(providerType)
	if !ok {
		return ResultUnknownIntegration
	}

	integration, err := p.integrations.GetByWorkspaceAndType(workspaceID, providerType)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID).Str("provider", providerType).
			Msg("integration lookup failed")
		return ResultUnknownIntegration
	}
	if integration == nil || !integration.IsActive {
		return ResultUnknownIntegration
	}

	if !verifier.Validate(body, headers, integration.WebhookSecret) {
		// Terminal. Verification state is untouched on failure.
		log.Warn().Str("workspace_id", workspaceID).Str("provider", providerType).
			Msg("webhook signature validation failed")
		return ResultRejected
	}

	if !integration.IsWebhookVerified() {
		// The repository guards the write with an IS NULL check, so a race
		// between two valid webhooks still stamps exactly once.
		if err := p.integrations.StampWebhookVerified(integration.ID, p.now()); err != nil {
			log.Error().Err(err).Str("integration_id", integration.ID).
				Msg("failed to stamp webhook verification")
		}
	}

	event, err := verifier.Parse(body)
	if err != nil {
		// Signed but unparseable. The provider already got what it needs;
		// retrying the same payload would not help.
		log.Warn().Err(err).Str("provider", providerType).Msg("failed to parse webhook payload")
		return ResultAccepted
	}
	if event == nil {
		// Provider test ping, nothing to enrich or store.
		log.Debug().Str("provider", providerType).Msg("webhook test ping")
		return ResultAccepted
	}
	if event.Provider == "" {
		event.Provider = providerType
	}

	var notification *enrichment.RichNotification
	if p.enricher != nil {
		notification = p.enricher.Enrich(ctx, event)
	}

	if ok := p.store.StoreEnrichedRecord(ctx, event, notification, workspaceID); !ok {
		log.Warn().Str("workspace_id", workspaceID).Str("provider", providerType).
			Str("event_type", event.Type).
			Msg("webhook record not stored")
	}

	return ResultAccepted
}
