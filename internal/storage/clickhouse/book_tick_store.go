package clickhouse

import (
	"context"
	"fmt"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// BookTickStore implements storage.BookTickStore using ClickHouse.
type BookTickStore struct {
	conn *Conn
}

// NewBookTickStore creates a new BookTickStore.
func NewBookTickStore(conn *Conn) *BookTickStore {
	return &BookTickStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BookTickStore = (*BookTickStore)(nil)

// InsertBulk appends book snapshots.
func (s *BookTickStore) InsertBulk(ctx context.Context, ticks []*domain.BookTick) error {
	if len(ticks) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO book_ticker (symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range ticks {
		if err := batch.Append(b.Symbol, b.TsMs, b.BidPrice, b.BidQty, b.AskPrice, b.AskQty); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every tick ordered by (symbol, ts_ms) ASC.
func (s *BookTickStore) GetAll(ctx context.Context) ([]*domain.BookTick, error) {
	query := `
		SELECT symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty
		FROM book_ticker
		ORDER BY symbol ASC, ts_ms ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, sourceUnavailable("book_ticker", err)
	}
	defer rows.Close()

	return scanBookTicks(rows)
}

// GetByTimeRange retrieves ticks for a symbol within [start, end] (inclusive).
func (s *BookTickStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.BookTick, error) {
	query := `
		SELECT symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty
		FROM book_ticker
		WHERE symbol = ? AND ts_ms >= ? AND ts_ms <= ?
		ORDER BY ts_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, sourceUnavailable("book_ticker", err)
	}
	defer rows.Close()

	return scanBookTicks(rows)
}

func scanBookTicks(rows chRows) ([]*domain.BookTick, error) {
	var result []*domain.BookTick

	for rows.Next() {
		var b domain.BookTick

		if err := rows.Scan(&b.Symbol, &b.TsMs, &b.BidPrice, &b.BidQty, &b.AskPrice, &b.AskQty); err != nil {
			return nil, fmt.Errorf("scan book tick: %w", err)
		}

		result = append(result, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book ticks: %w", err)
	}

	return result, nil
}
