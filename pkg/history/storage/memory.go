package storage

import (
	"context"
	"sort"
	"sync"

	"mdnav-hq/mdnav/pkg/history"
)

const backendMemory = "memory"

// MemoryStore implements history.Store in memory. Entries are lost when
// the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*history.Entry
	seq     map[string]int
	next    int
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seq: make(map[string]int)}
}

// Record stores a copy of entry.
func (s *MemoryStore) Record(ctx context.Context, entry *history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.NewStorageError(backendMemory, "record", history.ErrClosed)
	}

	entryCopy := *entry
	s.entries = append(s.entries, &entryCopy)
	s.seq[entry.ID] = s.next
	s.next++

	return nil
}

// List returns matching entries, newest first.
func (s *MemoryStore) List(ctx context.Context, filter *history.Filter) ([]*history.Entry, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.NewStorageError(backendMemory, "list", history.ErrClosed)
	}

	matched := s.newestFirst(filter)

	if filter.Offset >= len(matched) {
		return []*history.Entry{}, nil
	}
	matched = matched[filter.Offset:]

	limit := filter.Limit
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]*history.Entry, len(matched))
	for i, entry := range matched {
		entryCopy := *entry
		results[i] = &entryCopy
	}
	return results, nil
}

// Count returns the number of matching entries.
func (s *MemoryStore) Count(ctx context.Context, filter *history.Filter) (int64, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.NewStorageError(backendMemory, "count", history.ErrClosed)
	}

	var count int64
	for _, entry := range s.entries {
		if matches(entry, filter) {
			count++
		}
	}
	return count, nil
}

// Delete removes matching entries.
func (s *MemoryStore) Delete(ctx context.Context, filter *history.Filter) (int64, error) {
	if filter == nil {
		filter = &history.Filter{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.NewStorageError(backendMemory, "delete", history.ErrClosed)
	}

	return s.removeWhere(func(entry *history.Entry) bool { return matches(entry, filter) }), nil
}

// Trim keeps the newest keep entries.
func (s *MemoryStore) Trim(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.NewStorageError(backendMemory, "trim", history.ErrClosed)
	}

	ordered := s.newestFirst(&history.Filter{})
	if keep < 0 {
		keep = 0
	}
	if len(ordered) <= keep {
		return 0, nil
	}

	drop := make(map[string]bool, len(ordered)-keep)
	for _, entry := range ordered[keep:] {
		drop[entry.ID] = true
	}
	return s.removeWhere(func(entry *history.Entry) bool { return drop[entry.ID] }), nil
}

// Ping fails once the store is closed.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.NewStorageError(backendMemory, "ping", history.ErrClosed)
	}
	return nil
}

// Close drops all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.seq = nil
	s.closed = true
	return nil
}

// newestFirst returns matching entries ordered by CreatedAt descending,
// insertion order breaking ties. Callers hold the lock.
func (s *MemoryStore) newestFirst(filter *history.Filter) []*history.Entry {
	var matched []*history.Entry
	for _, entry := range s.entries {
		if matches(entry, filter) {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return s.seq[a.ID] > s.seq[b.ID]
	})
	return matched
}

func (s *MemoryStore) removeWhere(drop func(*history.Entry) bool) int64 {
	kept := s.entries[:0]
	var removed int64
	for _, entry := range s.entries {
		if drop(entry) {
			delete(s.seq, entry.ID)
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.entries = kept
	return removed
}

func matches(entry *history.Entry, filter *history.Filter) bool {
	if filter.Status != "" && entry.Status != filter.Status {
		return false
	}
	if filter.Since != nil && entry.CreatedAt.Before(*filter.Since) {
		return false
	}
	if filter.Before != nil && !entry.CreatedAt.Before(*filter.Before) {
		return false
	}
	return true
}
