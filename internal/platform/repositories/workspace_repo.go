package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"revpulse/internal/platform/models"
)

type WorkspaceRepository struct {
	db *sql.DB
}

func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts the workspace and its default notification settings in one
// transaction. Settings creation is an explicit part of workspace creation,
// not a hook: either both rows exist afterwards or neither does.
func (r *WorkspaceRepository) Create(ws *models.Workspace) error {
	if ws.ID == "" {
		ws.ID = "ws_" + uuid.New().String()
	}
	now := time.Now().Unix()
	ws.CreatedAt = now
	ws.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO workspaces (id, name, shop_domain, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		ws.ID, ws.Name, ws.ShopDomain, ws.CreatedAt, ws.UpdatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO notification_settings (workspace_id, notify_payments, notify_subscriptions, digest_frequency, created_at)
		 VALUES (?, 1, 1, 'daily', ?)`,
		ws.ID, now,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *WorkspaceRepository) GetByID(id string) (*models.Workspace, error) {
	row := r.db.QueryRow(
		`SELECT id, name, shop_domain, created_at, updated_at FROM workspaces WHERE id = ?`, id,
	)

	var ws models.Workspace
	var shopDomain sql.NullString
	err := row.Scan(&ws.ID, &ws.Name, &shopDomain, &ws.CreatedAt, &ws.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if shopDomain.Valid {
		ws.ShopDomain = shopDomain.String
	}

	return &ws, nil
}

func (r *WorkspaceRepository) GetNotificationSettings(workspaceID string) (*models.NotificationSettings, error) {
	row := r.db.QueryRow(
		`SELECT workspace_id, notify_payments, notify_subscriptions, digest_frequency, created_at
		 FROM notification_settings WHERE workspace_id = ?`, workspaceID,
	)

	var s models.NotificationSettings
	err := row.Scan(&s.WorkspaceID, &s.NotifyPayments, &s.NotifySubscriptions, &s.DigestFrequency, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}
