package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/internal/domain/model"
)

// MemoryStore keeps records in process memory. It backs memory:// connection
// strings for local runs and tests; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.ScoreRecord
	closed  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return string(storage.BackendMemory) }

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, rec model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.records = append(s.records, rec)
	return nil
}

// Top implements Store. Ties keep insertion order.
func (s *MemoryStore) Top(_ context.Context, n int) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, storage.ErrClosed
	}
	out := make([]model.ScoreRecord, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, storage.ErrClosed
	}
	return len(s.records), nil
}

// Ready implements Store.
func (s *MemoryStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Close implements Store.
func (s *MemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
