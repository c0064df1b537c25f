package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// BookTickStore implements storage.BookTickStore using PostgreSQL.
type BookTickStore struct {
	pool *Pool
}

// NewBookTickStore creates a new BookTickStore.
func NewBookTickStore(pool *Pool) *BookTickStore {
	return &BookTickStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BookTickStore = (*BookTickStore)(nil)

// InsertBulk appends book snapshots atomically.
func (s *BookTickStore) InsertBulk(ctx context.Context, ticks []*domain.BookTick) error {
	if len(ticks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO book_ticker (symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, b := range ticks {
		_, err := tx.Exec(ctx, query, b.Symbol, b.TsMs, b.BidPrice, b.BidQty, b.AskPrice, b.AskQty)
		if err != nil {
			return fmt.Errorf("insert book tick: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every tick ordered by (symbol, ts_ms) ASC.
func (s *BookTickStore) GetAll(ctx context.Context) ([]*domain.BookTick, error) {
	query := `
		SELECT symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty
		FROM book_ticker
		ORDER BY symbol ASC, ts_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("book_ticker: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get all book ticks: %w", err)
	}
	defer rows.Close()

	result, err := scanBookTicks(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("book_ticker: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

// GetByTimeRange retrieves ticks for a symbol within [start, end] (inclusive).
func (s *BookTickStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.BookTick, error) {
	query := `
		SELECT symbol, ts_ms, bid_price, bid_qty, ask_price, ask_qty
		FROM book_ticker
		WHERE symbol = $1 AND ts_ms >= $2 AND ts_ms <= $3
		ORDER BY ts_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("book_ticker: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get book ticks by time range: %w", err)
	}
	defer rows.Close()

	result, err := scanBookTicks(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("book_ticker: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

func scanBookTicks(rows pgx.Rows) ([]*domain.BookTick, error) {
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
