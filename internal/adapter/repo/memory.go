package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptstudio/internal/domain"
)

// MemoryStore implements domain.RecordStore in process memory. It is intended
// for development and test environments where Postgres is not available.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*domain.HistoryRecord
	seq     map[string]int
	nextSeq int
	limit   int
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = 100
	}
	return &MemoryStore{
		records: make(map[string]*domain.HistoryRecord),
		seq:     make(map[string]int),
		limit:   limit,
	}
}

func (m *MemoryStore) Save(ctx context.Context, rec *domain.HistoryRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *rec
	stored.ID = uuid.NewString()
	stored.IsFavorite = false
	stored.CreatedAt = time.Now().UTC()
	m.records[stored.ID] = &stored
	m.nextSeq++
	m.seq[stored.ID] = m.nextSeq
	rec.ID = stored.ID
	rec.IsFavorite = false
	rec.CreatedAt = stored.CreatedAt
	return stored.ID, nil
}

func (m *MemoryStore) ListHistory(ctx context.Context) ([]domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(*domain.HistoryRecord) bool { return true }), nil
}

func (m *MemoryStore) ListFavorites(ctx context.Context) ([]domain.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(r *domain.HistoryRecord) bool { return r.IsFavorite }), nil
}

func (m *MemoryStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	rec.IsFavorite = !rec.IsFavorite
	return rec.IsFavorite, nil
}

func (m *MemoryStore) snapshot(keep func(*domain.HistoryRecord) bool) []domain.HistoryRecord {
	var out []domain.HistoryRecord
	for _, rec := range m.records {
		if keep(rec) {
			out = append(out, *rec)
		}
	}
	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(out, func(i, j int) bool {
		return m.seq[out[i].ID] > m.seq[out[j].ID]
	})
	if len(out) > m.limit {
		out = out[:m.limit]
	}
	return out
}

var _ domain.RecordStore = (*MemoryStore)(nil)
