package memory

import (
	"context"
	"sort"
	"sync"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// VolStore is an in-memory implementation of storage.VolStore.
type VolStore struct {
	mu   sync.RWMutex
	data map[string]*domain.VolPoint // keyed by (symbol, bucket_ms)
}

// NewVolStore creates a new in-memory rolling volatility store.
func NewVolStore() *VolStore {
	return &VolStore{
		data: make(map[string]*domain.VolPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *VolStore) InsertBulk(_ context.Context, points []*domain.VolPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := bucketKey(p.Symbol, p.BucketMs)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[bucketKey(p.Symbol, p.BucketMs)] = &pointCopy
	}

	return nil
}

// GetAll retrieves every point ordered by (symbol, bucket_ms) ASC.
func (s *VolStore) GetAll(_ context.Context) ([]*domain.VolPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.VolPoint, 0, len(s.data))
	for _, p := range s.data {
		pointCopy := *p
		result = append(result, &pointCopy)
	}

	sortVolPoints(result)
	return result, nil
}

// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
func (s *VolStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.VolPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.VolPoint
	for _, p := range s.data {
		if p.Symbol == symbol && p.BucketMs >= start && p.BucketMs <= end {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortVolPoints(result)
	return result, nil
}

func sortVolPoints(points []*domain.VolPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Symbol != points[j].Symbol {
			return points[i].Symbol < points[j].Symbol
		}
		return points[i].BucketMs < points[j].BucketMs
	})
}

var _ storage.VolStore = (*VolStore)(nil)
