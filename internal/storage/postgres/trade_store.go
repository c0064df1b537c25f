package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertBulk appends trade events atomically.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trade (symbol, ts_ms, price, quantity, buyer_is_maker)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, t := range trades {
		_, err := tx.Exec(ctx, query, t.Symbol, t.TsMs, t.Price, t.Quantity, t.BuyerIsMaker)
		if err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every trade ordered by (symbol, ts_ms) ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	query := `
		SELECT symbol, ts_ms, price, quantity, buyer_is_maker
		FROM trade
		ORDER BY symbol ASC, ts_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("trade: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	defer rows.Close()

	result, err := scanTrades(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("trade: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Trade, error) {
	query := `
		SELECT symbol, ts_ms, price, quantity, buyer_is_maker
		FROM trade
		WHERE symbol = $1 AND ts_ms >= $2 AND ts_ms <= $3
		ORDER BY ts_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("trade: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get trades by time range: %w", err)
	}
	defer rows.Close()

	result, err := scanTrades(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("trade: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
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
