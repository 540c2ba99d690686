package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
    id          UUID PRIMARY KEY,
    prompt_text TEXT NOT NULL,
    prompt_type TEXT NOT NULL,
    parameters  JSONB,
    image_data  TEXT,
    is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_records_favorite ON records (is_favorite) WHERE is_favorite;
`

// EnsureSchema creates the records table and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, recordsSchema)
	return err
}
