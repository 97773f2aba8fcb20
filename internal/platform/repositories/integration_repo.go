package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"revpulse/internal/platform/models"
)

type IntegrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

const integrationColumns = `id, workspace_id, integration_type, webhook_secret, is_active, webhook_verified_at, created_at, updated_at`

func (r *IntegrationRepository) Create(integration *models.Integration) error {
	if integration.ID == "" {
		integration.ID = "int_" + uuid.New().String()
	}
	now := time.Now().Unix()
	integration.CreatedAt = now
	integration.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO integrations (`+integrationColumns+`) VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`,
		integration.ID, integration.WorkspaceID, integration.IntegrationType,
		integration.WebhookSecret, integration.IsActive, integration.CreatedAt, integration.UpdatedAt,
	)
	return err
}

func (r *IntegrationRepository) GetByWorkspaceAndType(workspaceID, integrationType string) (*models.Integration, error) {
	row := r.db.QueryRow(
		`SELECT `+integrationColumns+` FROM integrations WHERE workspace_id = ? AND integration_type = ?`,
		workspaceID, integrationType,
	)
	return scanIntegration(row)
}

func (r *IntegrationRepository) ListByWorkspace(workspaceID string) ([]*models.Integration, error) {
	rows, err := r.db.Query(
		`SELECT `+integrationColumns+` FROM integrations WHERE workspace_id = ? ORDER BY integration_type`,
		workspaceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, integration)
	}
	return integrations, rows.Err()
}

// StampWebhookVerified records the first successful signature validation.
// The IS NULL guard makes the check-and-set atomic: two concurrent valid
// webhooks race to a single row update and only one write lands.
func (r *IntegrationRepository) StampWebhookVerified(id string, at time.Time) error {
	_, err := r.db.Exec(
		`UPDATE integrations SET webhook_verified_at = ?, updated_at = ?
		 WHERE id = ? AND webhook_verified_at IS NULL`,
		at.Unix(), time.Now().Unix(), id,
	)
	return err
}

// RotateSecret swaps the webhook secret and nulls the verification stamp in
// the same statement. The stamp belongs to one secret generation only.
func (r *IntegrationRepository) RotateSecret(id, newSecret string) error {
	_, err := r.db.Exec(
		`UPDATE integrations SET webhook_secret = ?, webhook_verified_at = NULL, updated_at = ? WHERE id = ?`,
		newSecret, time.Now().Unix(), id,
	)
	return err
}

func (r *IntegrationRepository) SetActive(id string, active bool) error {
	_, err := r.db.Exec(
		`UPDATE integrations SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().Unix(), id,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIntegration(row rowScanner) (*models.Integration, error) {
	var i models.Integration
	var verifiedAt sql.NullInt64

	err := row.Scan(&i.ID, &i.WorkspaceID, &i.IntegrationType, &i.WebhookSecret,
		&i.IsActive, &verifiedAt, &i.CreatedAt, &i.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if verifiedAt.Valid {
		t := time.Unix(verifiedAt.Int64, 0).UTC()
		i.WebhookVerifiedAt = &t
	}

	return &i, nil
}
