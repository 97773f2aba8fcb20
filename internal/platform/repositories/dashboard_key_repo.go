package repositories

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"revpulse/internal/platform/models"
)

type DashboardKeyRepository struct {
	db *sql.DB
}

func NewDashboardKeyRepository(db *sql.DB) *DashboardKeyRepository {
	return &DashboardKeyRepository{db: db}
}

func (r *DashboardKeyRepository) Create(key *models.DashboardKey) error {
	if key.ID == "" {
		key.ID = "key_" + uuid.New().String()
	}
	key.CreatedAt = time.Now().Unix()

	_, err := r.db.Exec(
		`INSERT INTO dashboard_keys (id, workspace_id, name, key_hash, key_prefix, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key.ID, key.WorkspaceID, key.Name, key.KeyHash, key.KeyPrefix, key.CreatedAt,
	)
	return err
}

// GetByPrefix resolves a non-revoked key by its public prefix. The caller
// still has to compare the bcrypt hash against the presented key.
func (r *DashboardKeyRepository) GetByPrefix(prefix string) (*models.DashboardKey, error) {
	row := r.db.QueryRow(
		`SELECT id, workspace_id, name, key_hash, key_prefix, created_at, revoked_at
		 FROM dashboard_keys WHERE key_prefix = ? AND revoked_at IS NULL`,
		prefix,
	)

	var k models.DashboardKey
	var revokedAt sql.NullInt64
	err := row.Scan(&k.ID, &k.WorkspaceID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.CreatedAt, &revokedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		k.RevokedAt = &revokedAt.Int64
	}

	return &k, nil
}

func (r *DashboardKeyRepository) Revoke(id string) error {
	_, err := r.db.Exec(
		`UPDATE dashboard_keys SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().Unix(), id,
	)
	return err
}
