package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"revpulse/internal/platform/config"
)

func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	shop_domain TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_settings (
	workspace_id TEXT PRIMARY KEY REFERENCES workspaces(id),
	notify_payments INTEGER NOT NULL DEFAULT 1,
	notify_subscriptions INTEGER NOT NULL DEFAULT 1,
	digest_frequency TEXT NOT NULL DEFAULT 'daily',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS integrations (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	integration_type TEXT NOT NULL,
	webhook_secret TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	webhook_verified_at INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE(workspace_id, integration_type)
);

CREATE TABLE IF NOT EXISTS dashboard_keys (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id),
	name TEXT NOT NULL,
	key_hash TEXT NOT NULL,
	key_prefix TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	revoked_at INTEGER
);

CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	provider TEXT NOT NULL,
	external_id TEXT NOT NULL,
	email TEXT,
	name TEXT,
	company_name TEXT,
	tenure_display TEXT,
	ltv_display TEXT,
	orders_count INTEGER NOT NULL DEFAULT 0,
	total_spent REAL NOT NULL DEFAULT 0,
	status_flags TEXT,
	UNIQUE(provider, external_id)
);

CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	domain TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	industry TEXT,
	logo_url TEXT,
	linkedin_url TEXT
);
`

func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
