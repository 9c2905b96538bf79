package database

import "context"

// Statements are idempotent so the bootstrap can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS folders (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		parent_id  BIGINT REFERENCES folders(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_folders_parent_name
		ON folders (COALESCE(parent_id, 0), name)`,
	`CREATE TABLE IF NOT EXISTS files (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		original_name TEXT NOT NULL,
		path          TEXT NOT NULL UNIQUE,
		size          BIGINT NOT NULL,
		mime_type     TEXT NOT NULL,
		extension     TEXT NOT NULL DEFAULT '',
		folder_id     BIGINT REFERENCES folders(id) ON DELETE CASCADE,
		share_token   TEXT,
		share_expiry  TIMESTAMPTZ,
		is_public     BOOLEAN NOT NULL DEFAULT false,
		downloads     BIGINT NOT NULL DEFAULT 0 CHECK (downloads >= 0),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_files_folder_id ON files (folder_id)`,
	`CREATE TABLE IF NOT EXISTS file_shares (
		token         TEXT PRIMARY KEY,
		file_path     TEXT NOT NULL,
		expires_at    TIMESTAMPTZ,
		max_downloads BIGINT,
		downloads     BIGINT NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_snapshots (
		id          BIGSERIAL PRIMARY KEY,
		total_files BIGINT NOT NULL,
		total_bytes BIGINT NOT NULL,
		families    JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the metadata tables if they do not exist yet
func (p *PostgresDB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
