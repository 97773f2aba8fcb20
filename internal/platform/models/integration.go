package models

import "time"

// Integration is a workspace's connection to one payment/commerce provider.
// WebhookVerifiedAt is stamped on the first webhook that passes signature
// validation and stays put until the secret rotates, which nulls it.
type Integration struct {
	ID                string     `json:"id"`
	WorkspaceID       string     `json:"workspace_id"`
	IntegrationType   string     `json:"integration_type"` // stripe, chargify, shopify
	WebhookSecret     string     `json:"-"`
	IsActive          bool       `json:"is_active"`
	WebhookVerifiedAt *time.Time `json:"webhook_verified_at"`
	CreatedAt         int64      `json:"created_at"`
	UpdatedAt         int64      `json:"updated_at"`
}

func (i *Integration) IsWebhookVerified() bool {
	return i.WebhookVerifiedAt != nil
}
