package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps the outbox in process. It backs the memory store,
// where the relay runs on its fallback sweep only.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]Record
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]Record),
		now:     time.Now,
	}
}

var _ Repository = (*MemoryRepository)(nil)

// Insert ignores a record whose id is already stored.
func (r *MemoryRepository) Insert(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; ok {
		return nil
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}
	rec.SentAt = nil
	r.records[rec.ID] = rec
	return nil
}

func (r *MemoryRepository) FetchByID(_ context.Context, id uuid.UUID) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.SentAt != nil {
		return nil, nil
	}
	return &rec, nil
}

// FetchUnsent returns the oldest unsent records first.
func (r *MemoryRepository) FetchUnsent(_ context.Context, limit int32) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0)
	for _, rec := range r.records {
		if rec.SentAt == nil {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > int(limit) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) MarkSent(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil
	}
	at := r.now().UTC()
	rec.SentAt = &at
	r.records[id] = rec
	return nil
}
