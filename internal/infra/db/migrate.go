package db

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrateUp creates the snapshot schema. It is idempotent.
// The vector extension must be installable by the connecting role.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create extension vector: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS char_snapshots (
    id             BIGSERIAL PRIMARY KEY,
    operation_id   TEXT NOT NULL,
    source_name    TEXT NOT NULL,
    case_mode      VARCHAR(32) NOT NULL,
    threads        INT NOT NULL,
    length         BIGINT NOT NULL,
    distinct_chars INT NOT NULL,
    counts         JSONB NOT NULL,
    profile        vector(26) NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return fmt.Errorf("create table char_snapshots: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_char_snapshots_source_created ON char_snapshots(source_name, created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	// Ignored when the server's pgvector is too old for hnsw.
	_, _ = db.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_char_snapshots_profile
    ON char_snapshots USING hnsw (profile vector_cosine_ops)`)

	return nil
}

// MigrateDown drops the snapshot schema. All stored snapshots are lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_char_snapshots_profile`,
		`DROP INDEX IF EXISTS idx_char_snapshots_source_created`,
		`DROP TABLE IF EXISTS char_snapshots`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
