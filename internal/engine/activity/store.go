package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"revpulse/internal/engine/enrichment"
	"revpulse/internal/engine/providers"
)

const (
	DefaultTTLDays = 7

	// GlobalWorkspace is the sentinel scope for records that could not be
	// tied to a workspace. It keys like any other workspace id.
	GlobalWorkspace = "global"

	recordKeyPrefix   = "webhook"
	activityKeyPrefix = "webhook_activity"

	dayFormat   = "2006-01-02"
	tokenFormat = "20060102_150405"
)

// Store is the workspace-scoped, TTL-bound cache of enriched webhook records
// plus a per-workspace-per-day activity index. Expiry is left entirely to
// Redis; nothing here sweeps.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTLDays overrides the record/index lifetime, in days.
func WithTTLDays(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.ttl = time.Duration(days) * 24 * time.Hour
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		ttl:    DefaultTTLDays * 24 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// RecordKey builds the storage key for one webhook record. An empty
// workspace id falls back to the global sentinel; this namespacing is the
// whole workspace-isolation mechanism.
func RecordKey(category, token, workspaceID string) string {
	if workspaceID == "" {
		workspaceID = GlobalWorkspace
	}
	return fmt.Sprintf("%s:%s:%s:%s", recordKeyPrefix, workspaceID, category, token)
}

// ActivityKey builds the per-day index key for a workspace.
func ActivityKey(day, workspaceID string) string {
	if workspaceID == "" {
		workspaceID = GlobalWorkspace
	}
	return fmt.Sprintf("%s:%s:%s", activityKeyPrefix, workspaceID, day)
}

// StoreEnrichedRecord flattens event + notification into one JSON record,
// writes it under a workspace-scoped key with the configured TTL, and
// appends the key to that workspace's index for the day.
//
// The missing-identity precondition is checked before any I/O. Everything
// after it is failure-as-false: storage problems must never bubble up and
// turn a validated webhook into a provider-visible error.
func (s *Store) StoreEnrichedRecord(ctx context.Context, event *providers.ParsedEvent, notification *enrichment.RichNotification, workspaceID string) bool {
	if event == nil || event.Provider == "" || event.CustomerID == "" {
		return false
	}
	if workspaceID == "" {
		workspaceID = GlobalWorkspace
	}

	now := s.now()
	record := flattenRecord(event, notification, workspaceID, now)

	data, err := json.Marshal(record)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID).Msg("failed to serialize webhook record")
		return false
	}

	token := fmt.Sprintf("%s_%06d", now.Format(tokenFormat), now.Nanosecond()/1000)
	key := RecordKey(event.Provider, token, workspaceID)

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to store webhook record")
		return false
	}

	if err := s.appendToIndex(ctx, workspaceID, now, key); err != nil {
		// The record itself landed; only its index entry is at risk.
		log.Error().Err(err).Str("key", key).Msg("failed to index webhook record")
		return false
	}

	return true
}

// appendToIndex is read-modify-write: concurrent webhooks in the same
// workspace+day can race and the last writer's list wins. Bounded
// index-entry loss is accepted here; Redis RPUSH would close the gap if it
// ever matters.
func (s *Store) appendToIndex(ctx context.Context, workspaceID string, now time.Time, key string) error {
	indexKey := ActivityKey(now.Format(dayFormat), workspaceID)

	var keys []string
	existing, err := s.client.Get(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if err == nil && existing != "" {
		if err := json.Unmarshal([]byte(existing), &keys); err != nil {
			log.Warn().Str("key", indexKey).Msg("resetting unreadable activity index")
			keys = nil
		}
	}

	keys = append(keys, key)
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, indexKey, data, s.ttl).Err()
}

// RecentActivity returns every resolvable record indexed for the workspace
// over the last `days` calendar days, today included. Keys whose record has
// already expired are skipped, not errors. Unknown workspaces yield an
// empty result.
func (s *Store) RecentActivity(ctx context.Context, workspaceID string, days int) []map[string]any {
	if workspaceID == "" {
		workspaceID = GlobalWorkspace
	}
	if days <= 0 {
		days = DefaultTTLDays
	}

	now := s.now()
	records := make([]map[string]any, 0)

	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -i).Format(dayFormat)
		indexKey := ActivityKey(day, workspaceID)

		raw, err := s.client.Get(ctx, indexKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("key", indexKey).Msg("failed to read activity index")
			continue
		}

		var keys []string
		if err := json.Unmarshal([]byte(raw), &keys); err != nil {
			continue
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				// Expired or unreachable entry, keep going.
				continue
			}
			var record map[string]any
			if err := json.Unmarshal([]byte(data), &record); err != nil {
				continue
			}
			records = append(records, record)
		}
	}

	return records
}

// flattenRecord projects the event core fields plus whichever notification
// sections are present. A nil section contributes nothing; there are no
// null-valued placeholder keys.
func flattenRecord(event *providers.ParsedEvent, n *enrichment.RichNotification, workspaceID string, now time.Time) map[string]any {
	record := map[string]any{
		"type":         event.Type,
		"provider":     event.Provider,
		"external_id":  event.ExternalID,
		"customer_id":  event.CustomerID,
		"amount":       event.Amount,
		"currency":     event.Currency,
		"status":       event.Status,
		"workspace_id": workspaceID,
		"timestamp":    now.Unix(),
	}
	if len(event.Metadata) > 0 {
		record["metadata"] = event.Metadata
	}

	if n == nil {
		return record
	}

	record["headline"] = n.Headline
	record["headline_icon"] = n.HeadlineIcon
	record["severity"] = string(n.Severity)
	record["provider_display"] = n.ProviderDisplay

	if n.Company != nil {
		record["company_name"] = n.Company.Name
		record["company_domain"] = n.Company.Domain
		record["company_industry"] = n.Company.Industry
		record["company_logo_url"] = n.Company.LogoURL
		record["company_linkedin_url"] = n.Company.LinkedInURL
	}

	if n.Customer != nil {
		record["customer_email"] = n.Customer.Email
		record["customer_name"] = n.Customer.Name
		record["customer_ltv"] = n.Customer.LTVDisplay
		record["customer_tenure"] = n.Customer.TenureDisplay
		record["customer_status_flags"] = n.Customer.StatusFlags
	}

	if n.Insight != nil {
		record["insight_text"] = n.Insight.Text
		record["insight_icon"] = n.Insight.Icon
	}

	if n.Payment != nil {
		record["plan_name"] = n.Payment.PlanName
		record["payment_method"] = n.Payment.PaymentMethod
		record["card_last4"] = n.Payment.CardLast4
	}

	return record
}
