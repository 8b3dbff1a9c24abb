package repository

import (
	"context"
	"sync"
	"time"
)

type quotaEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryQuotaRepository keeps per-user counters in process memory. Limits are
// per instance only.
type MemoryQuotaRepository struct {
	mu      sync.Mutex
	entries map[int64]*quotaEntry
	now     func() time.Time
}

func NewMemoryQuotaRepository() *MemoryQuotaRepository {
	return &MemoryQuotaRepository{entries: make(map[int64]*quotaEntry), now: time.Now}
}

func (r *MemoryQuotaRepository) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok || !now.Before(entry.expiresAt) {
		entry = &quotaEntry{expiresAt: now.Add(window)}
		r.entries[userID] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}

// Purge drops expired counters.
func (r *MemoryQuotaRepository) Purge() {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, id)
		}
	}
}
