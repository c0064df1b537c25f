package clickhouse

import (
	"context"
	"fmt"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// MinuteBaseStore implements storage.MinuteBaseStore using ClickHouse.
type MinuteBaseStore struct {
	conn *Conn
}

// NewMinuteBaseStore creates a new MinuteBaseStore.
func NewMinuteBaseStore(conn *Conn) *MinuteBaseStore {
	return &MinuteBaseStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MinuteBaseStore = (*MinuteBaseStore)(nil)

// InsertBulk adds multiple rows. MergeTree does not enforce uniqueness at
// insert time, so duplicates are rejected with an explicit existence check.
func (s *MinuteBaseStore) InsertBulk(ctx context.Context, rows []*domain.MinuteBase) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		symbol   string
		bucketMs int64
	}
	seen := make(map[key]struct{})
	for _, r := range rows {
		k := key{r.Symbol, r.BucketMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range rows {
		exists, err := s.exists(ctx, r.Symbol, r.BucketMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO features_minute (
			symbol, bucket_ms, n_trades, qty_sum, vwap, imb, spread, mid, vol5m, src_ts_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.Symbol, r.BucketMs, r.NTrades, r.QtySum, r.VWAP,
			r.Imb, r.Spread, r.Mid, r.Vol5m, r.SrcTsMs,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
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

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, sourceUnavailable("features_minute", err)
	}
	defer rows.Close()

	return scanMinuteBase(rows)
}

// GetByTimeRange retrieves rows for a symbol within [start, end] (inclusive).
func (s *MinuteBaseStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.MinuteBase, error) {
	query := `
		SELECT symbol, bucket_ms, n_trades, qty_sum, vwap, imb, spread, mid, vol5m, src_ts_ms
		FROM features_minute
		WHERE symbol = ? AND bucket_ms >= ? AND bucket_ms <= ?
		ORDER BY bucket_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, sourceUnavailable("features_minute", err)
	}
	defer rows.Close()

	return scanMinuteBase(rows)
}

func (s *MinuteBaseStore) exists(ctx context.Context, symbol string, bucketMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM features_minute
		WHERE symbol = ? AND bucket_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, bucketMs).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanMinuteBase scans multiple rows.
func scanMinuteBase(rows chRows) ([]*domain.MinuteBase, error) {
	var result []*domain.MinuteBase

	for rows.Next() {
		var r domain.MinuteBase

		err := rows.Scan(
			&r.Symbol, &r.BucketMs, &r.NTrades, &r.QtySum, &r.VWAP,
			&r.Imb, &r.Spread, &r.Mid, &r.Vol5m, &r.SrcTsMs,
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
