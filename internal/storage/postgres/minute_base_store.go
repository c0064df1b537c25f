package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// MinuteBaseStore implements storage.MinuteBaseStore using PostgreSQL.
type MinuteBaseStore struct {
	pool *Pool
}

// NewMinuteBaseStore creates a new MinuteBaseStore.
func NewMinuteBaseStore(pool *Pool) *MinuteBaseStore {
	return &MinuteBaseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MinuteBaseStore = (*MinuteBaseStore)(nil)

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *MinuteBaseStore) InsertBulk(ctx context.Context, rows []*domain.MinuteBase) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO features_minute (
			symbol, bucket_ms, n_trades, qty_sum, vwap, imb, spread, mid, vol5m, src_ts_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, r := range rows {
		_, err := tx.Exec(ctx, query,
			r.Symbol,
			r.BucketMs,
			r.NTrades,
			r.QtySum,
			r.VWAP,
			r.Imb,
			r.Spread,
			r.Mid,
			r.Vol5m,
			r.SrcTsMs,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert minute base row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAll retrieves every row ordered by (symbol, bucket_ms) ASC.
func (s *MinuteBaseStore) GetAll(ctx context.Context) ([]*domain.MinuteBase, error) {
	query := `
		SELECT symbol, bucket_ms, n_trades, qty_sum, vwap, imb, spread, mid, vol5m, src_ts_ms
		FROM features_minute
		ORDER BY symbol ASC, bucket_ms ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("features_minute: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get all minute base rows: %w", err)
	}
	defer rows.Close()

	result, err := scanMinuteBase(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("features_minute: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

// GetByTimeRange retrieves rows for a symbol within [start, end] (inclusive).
func (s *MinuteBaseStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.MinuteBase, error) {
	query := `
		SELECT symbol, bucket_ms, n_trades, qty_sum, vwap, imb, spread, mid, vol5m, src_ts_ms
		FROM features_minute
		WHERE symbol = $1 AND bucket_ms >= $2 AND bucket_ms <= $3
		ORDER BY bucket_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("features_minute: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get minute base rows by time range: %w", err)
	}
	defer rows.Close()

	result, err := scanMinuteBase(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("features_minute: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

// scanMinuteBase scans multiple rows into a slice of MinuteBase.
func scanMinuteBase(rows pgx.Rows) ([]*domain.MinuteBase, error) {
	var result []*domain.MinuteBase

	for rows.Next() {
		var r domain.MinuteBase

		err := rows.Scan(
			&r.Symbol,
			&r.BucketMs,
			&r.NTrades,
			&r.QtySum,
			&r.VWAP,
			&r.Imb,
			&r.Spread,
			&r.Mid,
			&r.Vol5m,
			&r.SrcTsMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan minute base row: %w", err)
		}

		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate minute base rows: %w", err)
	}

	return result, nil
}
