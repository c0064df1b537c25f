package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
)

// VolStore implements storage.VolStore using PostgreSQL.
type VolStore struct {
	pool *Pool
}

// NewVolStore creates a new VolStore.
func NewVolStore(pool *Pool) *VolStore {
	return &VolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VolStore = (*VolStore)(nil)

// InsertBulk adds multiple points atomically. Fails entire batch on any duplicate.
func (s *VolStore) InsertBulk(ctx context.Context, points []*domain.VolPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO rolling_vol_5m (symbol, bucket_ms, vol5m, px_close)
		VALUES ($1, $2, $3, $4)
	`

	for _, p := range points {
		_, err := tx.Exec(ctx, query, p.Symbol, p.BucketMs, p.Vol5m, p.PxClose)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert vol point: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
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

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("rolling_vol_5m: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get all vol points: %w", err)
	}
	defer rows.Close()

	result, err := scanVolPoints(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("rolling_vol_5m: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
func (s *VolStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.VolPoint, error) {
	query := `
		SELECT symbol, bucket_ms, vol5m, px_close
		FROM rolling_vol_5m
		WHERE symbol = $1 AND bucket_ms >= $2 AND bucket_ms <= $3
		ORDER BY bucket_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("rolling_vol_5m: %w", storage.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("get vol points by time range: %w", err)
	}
	defer rows.Close()

	result, err := scanVolPoints(rows)
	if err != nil {
		// pgx defers query errors to row iteration.
		if isUndefinedTableError(err) {
			return nil, fmt.Errorf("rolling_vol_5m: %w", storage.ErrSourceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

func scanVolPoints(rows pgx.Rows) ([]*domain.VolPoint, error) {
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
