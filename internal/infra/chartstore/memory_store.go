package chartstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/ziwei-api/internal/domain/chart"
)

type memoryEntry struct {
	rec      chart.Record
	storedAt time.Time
	ttl      time.Duration
}

// MemoryStore is the default process-memory chart cache. Expiry is lazy: a
// stale entry is reported absent on Lookup but only replaced by the next Save
// for its key. Capacity is unbounded for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Lookup implements chart.Store.
func (s *MemoryStore) Lookup(_ context.Context, key string) (chart.Record, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return chart.Record{}, false, nil
	}
	if entry.ttl > 0 && s.now().Sub(entry.storedAt) >= entry.ttl {
		return chart.Record{}, false, nil
	}
	return entry.rec, true, nil
}

// Save implements chart.Store, unconditionally replacing any existing entry.
func (s *MemoryStore) Save(_ context.Context, key string, rec chart.Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		rec:      rec,
		storedAt: s.now(),
		ttl:      ttl,
	}
	return nil
}

var _ chart.Store = (*MemoryStore)(nil)
