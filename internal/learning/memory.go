package learning

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	current map[Key]Record
	seen    map[Key]map[int64]bool // pairs already appended
	log     []Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		current: make(map[Key]Record),
		seen:    make(map[Key]map[int64]bool),
	}
}

func (s *MemoryStore) Lookup(_ context.Context, key Key) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.current[key]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *MemoryStore) Record(_ context.Context, key Key, itemID int64, origin Origin) (PutOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[key][itemID] {
		return DuplicateSkipped, nil
	}

	rec := Record{Key: key, ItemID: itemID, Timestamp: time.Now().UTC(), Origin: origin}
	s.log = append(s.log, rec)
	if s.seen[key] == nil {
		s.seen[key] = make(map[int64]bool)
	}
	s.seen[key][itemID] = true

	prev, had := s.current[key]
	if !had {
		s.current[key] = rec
		return Stored, nil
	}
	if supersedes(prev.Origin, origin) {
		s.current[key] = rec
		if origin == OriginManualCorrection && prev.ItemID != itemID {
			return Corrected, nil
		}
	}
	return Stored, nil
}

func (s *MemoryStore) Flush(context.Context) error { return nil }
func (s *MemoryStore) Close() error                { return nil }

// Len returns the number of appended records, duplicates excluded.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}
