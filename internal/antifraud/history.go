package antifraud

import (
	"context"
	"sync"

	"absensi-guard/internal/models"
)

// HistoryCapacity bounds the per-client location log.
const HistoryCapacity = 10

// HistoryStore keeps a bounded append-only log of past positions per
// client, used as best-effort context for velocity checks. It is not a
// source of truth and is explicitly clearable for privacy.
//
// Implementations can use any backend: in-memory, Redis, etc.
type HistoryStore interface {
	// Recent returns the retained entries for a client, oldest first.
	Recent(ctx context.Context, clientID string) ([]models.HistoryEntry, error)
	// Append adds an entry, evicting the oldest once capacity is exceeded.
	Append(ctx context.Context, clientID string, entry models.HistoryEntry) error
	// Clear removes all entries for a client.
	Clear(ctx context.Context, clientID string) error
}

// MemoryHistoryStore is the in-process HistoryStore implementation.
type MemoryHistoryStore struct {
	mu       sync.Mutex
	entries  map[string][]models.HistoryEntry
	capacity int
}

// NewMemoryHistoryStore creates an empty in-memory store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		entries:  make(map[string][]models.HistoryEntry),
		capacity: HistoryCapacity,
	}
}

func (s *MemoryHistoryStore) Recent(ctx context.Context, clientID string) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.entries[clientID]
	out := make([]models.HistoryEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryHistoryStore) Append(ctx context.Context, clientID string, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := append(s.entries[clientID], entry)
	if len(stored) > s.capacity {
		stored = stored[len(stored)-s.capacity:]
	}
	s.entries[clientID] = stored
	return nil
}

func (s *MemoryHistoryStore) Clear(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, clientID)
	return nil
}
