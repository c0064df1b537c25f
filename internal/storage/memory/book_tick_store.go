package memory

import (
	"context"
	"sort"
	"sync"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// BookTickStore is an in-memory implementation of storage.BookTickStore.
type BookTickStore struct {
	mu   sync.RWMutex
	data []*domain.BookTick
}

// NewBookTickStore creates a new in-memory top-of-book store.
func NewBookTickStore() *BookTickStore {
	return &BookTickStore{}
}

// InsertBulk appends book snapshots.
func (s *BookTickStore) InsertBulk(_ context.Context, ticks []*domain.BookTick) error {
	if len(ticks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range ticks {
		if b == nil || b.Symbol == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, b := range ticks {
		tickCopy := *b
		s.data = append(s.data, &tickCopy)
	}

	return nil
}

// GetAll retrieves every tick ordered by (symbol, ts_ms) ASC.
func (s *BookTickStore) GetAll(_ context.Context) ([]*domain.BookTick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BookTick, 0, len(s.data))
	for _, b := range s.data {
		tickCopy := *b
		result = append(result, &tickCopy)
	}

	sortTicks(result)
	return result, nil
}

// GetByTimeRange retrieves ticks for a symbol within [start, end] (inclusive).
func (s *BookTickStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.BookTick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BookTick
	for _, b := range s.data {
		if b.Symbol == symbol && b.TsMs >= start && b.TsMs <= end {
			tickCopy := *b
			result = append(result, &tickCopy)
		}
	}

	sortTicks(result)
	return result, nil
}

func sortTicks(ticks []*domain.BookTick) {
	sort.SliceStable(ticks, func(i, j int) bool {
		if ticks[i].Symbol != ticks[j].Symbol {
			return ticks[i].Symbol < ticks[j].Symbol
		}
		return ticks[i].TsMs < ticks[j].TsMs
	})
}

var _ storage.BookTickStore = (*BookTickStore)(nil)
