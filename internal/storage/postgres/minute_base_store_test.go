package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/storage"
	"lobx-feature-lab/internal/storage/postgres"
)

func TestMinuteBaseStore_InsertBulkAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t, true)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewMinuteBaseStore(pool)

	rows := []*domain.MinuteBase{
		{
			Symbol:   "BTCUSDT",
			BucketMs: 120_000,
			NTrades:  ptr(int64(42)),
			QtySum:   ptr(12.5),
			VWAP:     ptr(100.1),
			Imb:      ptr(0.2),
			Spread:   ptr(0.5),
			Mid:      ptr(100.25),
			Vol5m:    ptr(0.01),
			SrcTsMs:  ptr(int64(175_000)),
		},
		{Symbol: "BTCUSDT", BucketMs: 60_000},
		{Symbol: "ADAUSDT", BucketMs: 60_000, Mid: ptr(0.5)},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "ADAUSDT", got[0].Symbol)
	assert.Equal(t, "BTCUSDT", got[1].Symbol)
	assert.Equal(t, int64(60_000), got[1].BucketMs)
	assert.Equal(t, int64(120_000), got[2].BucketMs)

	full := got[2]
	require.NotNil(t, full.NTrades)
	assert.Equal(t, int64(42), *full.NTrades)
	require.NotNil(t, full.Mid)
	assert.InDelta(t, 100.25, *full.Mid, 1e-9)
	require.NotNil(t, full.SrcTsMs)
	assert.Equal(t, int64(175_000), *full.SrcTsMs)

	// Fully-null payload survives as nils, not zeros.
	empty := got[1]
	assert.Nil(t, empty.NTrades)
	assert.Nil(t, empty.Mid)
	assert.Nil(t, empty.SrcTsMs)
}

func TestMinuteBaseStore_InsertBulkDuplicateRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t, true)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewMinuteBaseStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.MinuteBase{
		{Symbol: "BTCUSDT", BucketMs: 60_000},
	}))

	err := store.InsertBulk(ctx, []*domain.MinuteBase{
		{Symbol: "BTCUSDT", BucketMs: 120_000},
		{Symbol: "BTCUSDT", BucketMs: 60_000}, // duplicate key
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The whole batch must be rolled back.
	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMinuteBaseStore_GetByTimeRangeInclusive(t *testing.T) {
	pool, cleanup := setupTestDB(t, true)
	defer cleanup()

	ctx := context.Background()
	store := postgres.NewMinuteBaseStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.MinuteBase{
		{Symbol: "BTCUSDT", BucketMs: 60_000},
		{Symbol: "BTCUSDT", BucketMs: 120_000},
		{Symbol: "BTCUSDT", BucketMs: 180_000},
		{Symbol: "ETHUSDT", BucketMs: 120_000},
	}))

	got, err := store.GetByTimeRange(ctx, "BTCUSDT", 60_000, 120_000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(60_000), got[0].BucketMs)
	assert.Equal(t, int64(120_000), got[1].BucketMs)
}

func TestMinuteBaseStore_MissingTableIsSourceUnavailable(t *testing.T) {
	pool, cleanup := setupTestDB(t, false)
	defer cleanup()

	store := postgres.NewMinuteBaseStore(pool)

	_, err := store.GetAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrSourceUnavailable)
}
