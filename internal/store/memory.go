package store

import (
	"context"
	"sort"
	"sync"
)

type memoryEntry struct {
	record  Record
	archive []byte
	seq     int
}

// MemoryStore keeps exports in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	seq     int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record, archive []byte) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	data := make([]byte, len(archive))
	copy(data, archive)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.entries[rec.ID] = memoryEntry{record: *rec, archive: data, seq: s.seq}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := e.record
	return &rec, nil
}

func (s *MemoryStore) Archive(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	data := make([]byte, len(e.archive))
	copy(data, e.archive)
	return data, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	entries := make([]memoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].record.CreatedAt.Equal(entries[j].record.CreatedAt) {
			return entries[i].record.CreatedAt.After(entries[j].record.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	limit = normalizeLimit(limit)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = e.record
	}
	return records, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
