package memory

import (
	"context"
	"sort"
	"sync"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
// The trade log is append-only with no unique key, so inserts never
// reject duplicates.
type TradeStore struct {
	mu   sync.RWMutex
	data []*domain.Trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

// InsertBulk appends trade events.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		if t == nil || t.Symbol == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, t := range trades {
		tradeCopy := *t
		s.data = append(s.data, &tradeCopy)
	}

	return nil
}

// GetAll retrieves every trade ordered by (symbol, ts_ms) ASC.
func (s *TradeStore) GetAll(_ context.Context) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Trade, 0, len(s.data))
	for _, t := range s.data {
		tradeCopy := *t
		result = append(result, &tradeCopy)
	}

	sortTrades(result)
	return result, nil
}

// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.Symbol == symbol && t.TsMs >= start && t.TsMs <= end {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}

	sortTrades(result)
	return result, nil
}

func sortTrades(trades []*domain.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Symbol != trades[j].Symbol {
			return trades[i].Symbol < trades[j].Symbol
		}
		return trades[i].TsMs < trades[j].TsMs
	})
}

var _ storage.TradeStore = (*TradeStore)(nil)
