package models

// DashboardKey authenticates a workspace's dashboard against the read API.
// Only the bcrypt hash of the full key is stored; the raw key is shown once
// at creation time.
type DashboardKey struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	KeyHash     string `json:"-"`
	KeyPrefix   string `json:"key_prefix"`
	CreatedAt   int64  `json:"created_at"`
	RevokedAt   *int64 `json:"revoked_at,omitempty"`
}
