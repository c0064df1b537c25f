package storage

import (
	"context"

	"lobx-feature-lab/internal/domain"
)

// MinuteBaseStore provides access to the features_minute table.
type MinuteBaseStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate
	// (symbol, bucket_ms).
	InsertBulk(ctx context.Context, rows []*domain.MinuteBase) error

	// GetAll retrieves every row ordered by (symbol, bucket_ms) ASC.
	// Returns ErrSourceUnavailable if the table does not exist.
	GetAll(ctx context.Context) ([]*domain.MinuteBase, error)

	// GetByTimeRange retrieves rows for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.MinuteBase, error)
}

// VolStore provides access to the rolling_vol_5m table.
type VolStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (symbol, bucket_ms).
	InsertBulk(ctx context.Context, points []*domain.VolPoint) error

	// GetAll retrieves every point ordered by (symbol, bucket_ms) ASC.
	// Returns ErrSourceUnavailable if the table does not exist.
	GetAll(ctx context.Context) ([]*domain.VolPoint, error)

	// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.VolPoint, error)
}

// TradeStore provides access to the raw trade log.
type TradeStore interface {
	// InsertBulk appends trade events. The log carries no unique key
	// beyond insertion order, so duplicates are not rejected.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetAll retrieves every trade ordered by (symbol, ts_ms) ASC.
	// Returns ErrSourceUnavailable if the table does not exist.
	GetAll(ctx context.Context) ([]*domain.Trade, error)

	// GetByTimeRange retrieves trades for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.Trade, error)
}

// BookTickStore provides access to the top-of-book tick log.
type BookTickStore interface {
	// InsertBulk appends book snapshots.
	InsertBulk(ctx context.Context, ticks []*domain.BookTick) error

	// GetAll retrieves every tick ordered by (symbol, ts_ms) ASC.
	// Returns ErrSourceUnavailable if the table does not exist.
	GetAll(ctx context.Context) ([]*domain.BookTick, error)

	// GetByTimeRange retrieves ticks for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.BookTick, error)
}
