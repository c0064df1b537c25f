package clickhouse

import (
	"context"
	"fmt"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using ClickHouse. The trade
// log is append-only with no unique key, so inserts skip duplicate checks.
type TradeStore struct {
	conn *Conn
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(conn *Conn) *TradeStore {
	return &TradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk appends trade events.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade (symbol, ts_ms, price, quantity, buyer_is_maker)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		if err := batch.Append(t.Symbol, t.TsMs, t.Price, t.Quantity, t.BuyerIsMaker); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every trade ordered by (symbol, ts_ms) ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	query := `
		SELECT symbol, ts_ms, price, quantity, buyer_is_maker
		FROM trade
		ORDER BY symbol ASC, ts_ms ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, sourceUnavailable("trade", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Trade, error) {
	query := `
		SELECT symbol, ts_ms, price, quantity, buyer_is_maker
		FROM trade
		WHERE symbol = ? AND ts_ms >= ? AND ts_ms <= ?
		ORDER BY ts_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, sourceUnavailable("trade", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func scanTrades(rows chRows) ([]*domain.Trade, error) {
	var result []*domain.Trade

	for rows.Next() {
		var t domain.Trade

		if err := rows.Scan(&t.Symbol, &t.TsMs, &t.Price, &t.Quantity, &t.BuyerIsMaker); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}

		result = append(result, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}

	return result, nil
}
