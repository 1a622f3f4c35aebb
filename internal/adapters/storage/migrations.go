package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration is one schema step with a script per dialect.
type migration struct {
	version  int
	name     string
	sqlite   string
	postgres string
}

func (m migration) script(d Dialect) string {
	if d == DialectPostgres {
		return m.postgres
	}
	return m.sqlite
}

var migrations = []migration{
	{
		version: 1,
		name:    "fines_ledger",
		sqlite: `
		CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reasons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL UNIQUE,
			amount INTEGER NOT NULL DEFAULT 0 CHECK (amount >= 0),
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS fines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER NOT NULL REFERENCES players(id),
			reason_id INTEGER NOT NULL REFERENCES reasons(id),
			amount INTEGER NOT NULL CHECK (amount >= 0),
			date TEXT NOT NULL,
			admin_notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fines_date ON fines(date);
		CREATE INDEX IF NOT EXISTS idx_fines_player_id ON fines(player_id);
		CREATE INDEX IF NOT EXISTS idx_fines_reason_id ON fines(reason_id);`,
		postgres: `
		CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reasons (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL UNIQUE,
			amount BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS fines (
			id BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL REFERENCES players(id),
			reason_id BIGINT NOT NULL REFERENCES reasons(id),
			amount BIGINT NOT NULL CHECK (amount >= 0),
			date TEXT NOT NULL,
			admin_notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fines_date ON fines(date);
		CREATE INDEX IF NOT EXISTS idx_fines_player_id ON fines(player_id);
		CREATE INDEX IF NOT EXISTS idx_fines_reason_id ON fines(reason_id);`,
	},
	{
		version: 2,
		name:    "admin_sessions",
		sqlite: `
		CREATE TABLE IF NOT EXISTS admin_account (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS admin_session (
			id TEXT PRIMARY KEY,
			account_id INTEGER NOT NULL REFERENCES admin_account(id),
			username TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			revoked_at TEXT,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_admin_session_expires ON admin_session(expires_at);`,
		postgres: `
		CREATE TABLE IF NOT EXISTS admin_account (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS admin_session (
			id TEXT PRIMARY KEY,
			account_id BIGINT NOT NULL REFERENCES admin_account(id),
			username TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			revoked_at TEXT,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_admin_session_expires ON admin_session(expires_at);`,
	},
	{
		version: 3,
		name:    "audit_event",
		sqlite: `
		CREATE TABLE IF NOT EXISTS audit_event (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			category TEXT NOT NULL,
			action TEXT NOT NULL,
			severity TEXT NOT NULL,
			actor TEXT NOT NULL,
			resource_type TEXT NOT NULL DEFAULT '',
			resource_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_audit_event_timestamp ON audit_event(timestamp);`,
		postgres: `
		CREATE TABLE IF NOT EXISTS audit_event (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			category TEXT NOT NULL,
			action TEXT NOT NULL,
			severity TEXT NOT NULL,
			actor TEXT NOT NULL,
			resource_type TEXT NOT NULL DEFAULT '',
			resource_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_audit_event_timestamp ON audit_event(timestamp);`,
	},
}

// LatestSchemaVersion returns the version the schema reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a reachable connection for dialect d
// POST: schema_version records LatestSchemaVersion; re-running is a no-op
func MigrateDB(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, d, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name, "dialect", string(d))
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, d Dialect, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.script(d)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, d.Rebind("INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)"),
		m.version, m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration, 0 for a fresh database.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}
