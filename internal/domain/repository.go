package domain

import "context"

// RecordStore persists generation records. ListHistory and ListFavorites
// return newest-first; favorites is always the is_favorite subset of history.
type RecordStore interface {
	Save(ctx context.Context, rec *HistoryRecord) (string, error)
	ListHistory(ctx context.Context) ([]HistoryRecord, error)
	ListFavorites(ctx context.Context) ([]HistoryRecord, error)
	// ToggleFavorite flips the flag for the given id and reports the new
	// state. Unknown ids yield ErrNotFound.
	ToggleFavorite(ctx context.Context, id string) (bool, error)
}
