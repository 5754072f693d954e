package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema - таблицы брендбуков и решений ревьюеров
const Schema = `
CREATE TABLE IF NOT EXISTS brand_kits (
    brand_id         TEXT PRIMARY KEY,
    brand_name       TEXT NOT NULL,
    primary_colors   TEXT[] NOT NULL DEFAULT '{}',
    secondary_colors TEXT[] NOT NULL DEFAULT '{}',
    logo_url         TEXT NOT NULL DEFAULT '',
    typography       JSONB NOT NULL DEFAULT '{}',
    tone_of_voice    TEXT[] NOT NULL DEFAULT '{}',
    brand_values     TEXT[] NOT NULL DEFAULT '{}',
    guidelines       TEXT NOT NULL DEFAULT '',
    category         TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS approvals (
    id          TEXT PRIMARY KEY,
    critique_id TEXT NOT NULL UNIQUE,
    decision    TEXT NOT NULL,
    status      TEXT NOT NULL,
    reviewer    TEXT NOT NULL DEFAULT '',
    notes       TEXT NOT NULL DEFAULT '',
    decided_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS approvals_status_idx ON approvals (status, decided_at DESC);
`

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Migrate создает схему, повторный вызов безопасен
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
