package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// MinuteBaseStore is an in-memory implementation of storage.MinuteBaseStore.
type MinuteBaseStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MinuteBase // keyed by (symbol, bucket_ms)
}

// NewMinuteBaseStore creates a new in-memory minute base store.
func NewMinuteBaseStore() *MinuteBaseStore {
	return &MinuteBaseStore{
		data: make(map[string]*domain.MinuteBase),
	}
}

func bucketKey(symbol string, bucketMs int64) string {
	return fmt.Sprintf("%s|%d", symbol, bucketMs)
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate.
func (s *MinuteBaseStore) InsertBulk(_ context.Context, rows []*domain.MinuteBase) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := bucketKey(r.Symbol, r.BucketMs)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[bucketKey(r.Symbol, r.BucketMs)] = &rowCopy
	}

	return nil
}

// GetAll retrieves every row ordered by (symbol, bucket_ms) ASC.
func (s *MinuteBaseStore) GetAll(_ context.Context) ([]*domain.MinuteBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.MinuteBase, 0, len(s.data))
	for _, r := range s.data {
		rowCopy := *r
		result = append(result, &rowCopy)
	}

	sortMinuteBase(result)
	return result, nil
}

// GetByTimeRange retrieves rows for a symbol within [start, end] (inclusive).
func (s *MinuteBaseStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.MinuteBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MinuteBase
	for _, r := range s.data {
		if r.Symbol == symbol && r.BucketMs >= start && r.BucketMs <= end {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sortMinuteBase(result)
	return result, nil
}

func sortMinuteBase(rows []*domain.MinuteBase) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Symbol != rows[j].Symbol {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].BucketMs < rows[j].BucketMs
	})
}

var _ storage.MinuteBaseStore = (*MinuteBaseStore)(nil)
