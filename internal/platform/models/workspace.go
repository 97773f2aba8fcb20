package models

type Workspace struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShopDomain string `json:"shop_domain,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// NotificationSettings is created together with its workspace, in the same
// transaction. A workspace without a settings row is a bug.
type NotificationSettings struct {
	WorkspaceID         string `json:"workspace_id"`
	NotifyPayments      bool   `json:"notify_payments"`
	NotifySubscriptions bool   `json:"notify_subscriptions"`
	DigestFrequency     string `json:"digest_frequency"` // realtime, daily, weekly
	CreatedAt           int64  `json:"created_at"`
}
