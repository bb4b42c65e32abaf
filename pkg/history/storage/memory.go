package storage

import (
	"context"
	"sort"
	"sync"

	"humanlayer/hlyr/pkg/history"
)

// MemoryStorage implements history.Storage in memory. It backs tests and
// chat runs with the journal disabled.
type MemoryStorage struct {
	turns []*history.Turn
	mu    sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists a copy of turn.
func (s *MemoryStorage) Store(ctx context.Context, turn *history.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *turn
	s.turns = append(s.turns, &copied)
	return nil
}

// Query returns copies of the matching turns.
func (s *MemoryStorage) Query(ctx context.Context, query *history.Query) ([]*history.Turn, error) {
	s.mu.RLock()
	var results []*history.Turn
	for _, turn := range s.turns {
		if matches(turn, query) {
			copied := *turn
			results = append(results, &copied)
		}
	}
	s.mu.RUnlock()

	// Stable keeps insertion order among equal timestamps
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})
	if !query.Ascending {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}

	if query.Offset >= len(results) {
		return []*history.Turn{}, nil
	}
	results = results[query.Offset:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}
	return results, nil
}

// Count returns the number of matching turns.
func (s *MemoryStorage) Count(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, turn := range s.turns {
		if matches(turn, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes the matching turns.
func (s *MemoryStorage) Delete(ctx context.Context, query *history.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.turns[:0]
	var deleted int64
	for _, turn := range s.turns {
		if matches(turn, query) {
			deleted++
			continue
		}
		kept = append(kept, turn)
	}
	s.turns = kept
	return deleted, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

func matches(turn *history.Turn, query *history.Query) bool {
	if query.SessionID != "" && turn.SessionID != query.SessionID {
		return false
	}
	if query.Provider != "" && turn.Provider != query.Provider && turn.ActiveProvider != query.Provider {
		return false
	}
	if query.StartTime != nil && turn.Timestamp.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && turn.Timestamp.After(*query.EndTime) {
		return false
	}
	switch query.Status {
	case history.StatusSuccess:
		return turn.Succeeded()
	case history.StatusError:
		return !turn.Succeeded()
	}
	return true
}
