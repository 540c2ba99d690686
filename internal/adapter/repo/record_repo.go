package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"promptstudio/internal/domain"
)

// RecordStorePG implements domain.RecordStore using PostgreSQL.
type RecordStorePG struct {
	pool  *pgxpool.Pool
	limit int
}

// NewRecordStore constructs a Postgres-backed record store. limit caps the
// number of records returned by the list queries.
func NewRecordStore(pool *pgxpool.Pool, limit int) *RecordStorePG {
	if limit <= 0 {
		limit = 100
	}
	return &RecordStorePG{pool: pool, limit: limit}
}

// Save inserts a new record and returns the assigned id.
func (r *RecordStorePG) Save(ctx context.Context, rec *domain.HistoryRecord) (string, error) {
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return "", fmt.Errorf("marshal parameters: %w", err)
	}
	id := uuid.NewString()
	query := `
INSERT INTO records (id, prompt_text, prompt_type, parameters, image_data, is_favorite)
VALUES ($1, $2, $3, $4, $5, FALSE)
RETURNING created_at;
`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, rec.PromptText, string(rec.PromptType), params, nullableText(rec.ImageData)).Scan(&createdAt); err != nil {
		return "", err
	}
	rec.ID = id
	rec.IsFavorite = false
	rec.CreatedAt = createdAt
	return id, nil
}

// ListHistory returns all records, newest first.
func (r *RecordStorePG) ListHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	return r.list(ctx, `
SELECT id, prompt_text, prompt_type, parameters, image_data, is_favorite, created_at
FROM records
ORDER BY created_at DESC
LIMIT $1;
`)
}

// ListFavorites returns the is_favorite subset, newest first.
func (r *RecordStorePG) ListFavorites(ctx context.Context) ([]domain.HistoryRecord, error) {
	return r.list(ctx, `
SELECT id, prompt_text, prompt_type, parameters, image_data, is_favorite, created_at
FROM records
WHERE is_favorite
ORDER BY created_at DESC
LIMIT $1;
`)
}

// ToggleFavorite flips the flag for the given id and reports the new state.
func (r *RecordStorePG) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	query := `
UPDATE records
SET is_favorite = NOT is_favorite
WHERE id = $1
RETURNING is_favorite;
`
	var fav bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&fav); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	return fav, nil
}

func (r *RecordStorePG) list(ctx context.Context, query string) ([]domain.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, query, r.limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var promptType string
		var params []byte
		var imageData *string
		if err := rows.Scan(&rec.ID, &rec.PromptText, &promptType, &params, &imageData, &rec.IsFavorite, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.PromptType = domain.InputMode(promptType)
		if len(params) > 0 {
			if err := json.Unmarshal(params, &rec.Parameters); err != nil {
				return nil, fmt.Errorf("unmarshal parameters for %s: %w", rec.ID, err)
			}
		}
		if imageData != nil {
			rec.ImageData = *imageData
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ domain.RecordStore = (*RecordStorePG)(nil)
