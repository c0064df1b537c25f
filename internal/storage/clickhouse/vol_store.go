package clickhouse

import (
	"context"
	"fmt"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// VolStore implements storage.VolStore using ClickHouse.
type VolStore struct {
	conn *Conn
}

// NewVolStore creates a new VolStore.
func NewVolStore(conn *Conn) *VolStore {
	return &VolStore{conn: conn}
}

// Compile-time interface check.
var _ storage.VolStore = (*VolStore)(nil)

// InsertBulk adds multiple points with an explicit duplicate check.
func (s *VolStore) InsertBulk(ctx context.Context, points []*domain.VolPoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		symbol   string
		bucketMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.Symbol, p.BucketMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.Symbol, p.BucketMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO rolling_vol_5m (symbol, bucket_ms, vol5m, px_close)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Symbol, p.BucketMs, p.Vol5m, p.PxClose); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetAll retrieves every point ordered by (symbol, bucket_ms) ASC.
func (s *VolStore) GetAll(ctx context.Context) ([]*domain.VolPoint, error) {
	query := `
		SELECT symbol, bucket_ms, vol5m, px_close
		FROM rolling_vol_5m
		ORDER BY symbol ASC, bucket_ms ASC
	`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, sourceUnavailable("rolling_vol_5m", err)
	}
	defer rows.Close()

	return scanVolPoints(rows)
}

// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
func (s *VolStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.VolPoint, error) {
	query := `
		SELECT symbol, bucket_ms, vol5m, px_close
		FROM rolling_vol_5m
		WHERE symbol = ? AND bucket_ms >= ? AND bucket_ms <= ?
		ORDER BY bucket_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, sourceUnavailable("rolling_vol_5m", err)
	}
	defer rows.Close()

	return scanVolPoints(rows)
}

func (s *VolStore) exists(ctx context.Context, symbol string, bucketMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM rolling_vol_5m
		WHERE symbol = ? AND bucket_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, bucketMs).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanVolPoints(rows chRows) ([]*domain.VolPoint, error) {
	var result []*domain.VolPoint

	for rows.Next() {
		var p domain.VolPoint

		if err := rows.Scan(&p.Symbol, &p.BucketMs, &p.Vol5m, &p.PxClose); err != nil {
			return nil, fmt.Errorf("scan vol point: %w", err)
		}

		result = append(result, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vol points: %w", err)
	}

	return result, nil
}
