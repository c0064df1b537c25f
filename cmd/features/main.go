// Package main builds the feature matrix from the recorded market data
// logs: read events, aggregate to minute buckets, join, derive and fill
// features, and write the matrix with its schema descriptor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lobx-feature-lab/internal/config"
	"lobx-feature-lab/internal/pipeline"
	"lobx-feature-lab/internal/storage"
	"lobx-feature-lab/internal/storage/clickhouse"
	"lobx-feature-lab/internal/storage/memory"
	"lobx-feature-lab/internal/storage/migrations"
	"lobx-feature-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn("received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	stores, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("storage init failed", zap.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	runner := pipeline.NewRunner(stores.minuteBase, stores.vols, stores.trades, stores.bookTicks, cfg, log)

	result, err := runner.Run(ctx)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("run completed",
		zap.Int("symbols", result.Symbols),
		zap.Int("buckets_in", result.BucketsIn),
		zap.Int("rows_out", result.RowsOut),
		zap.Int("dropped_unlabeled", result.DroppedRows),
		zap.Strings("artifacts", result.ArtifactPaths))
}

type storeSet struct {
	minuteBase storage.MinuteBaseStore
	vols       storage.VolStore
	trades     storage.TradeStore
	bookTicks  storage.BookTickStore
}

// buildStores constructs the configured backend. The returned cleanup
// closes the underlying connection and is safe to call on all paths.
func buildStores(ctx context.Context, cfg *config.Config) (*storeSet, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		return &storeSet{
			minuteBase: memory.NewMinuteBaseStore(),
			vols:       memory.NewVolStore(),
			trades:     memory.NewTradeStore(),
			bookTicks:  memory.NewBookTickStore(),
		}, func() {}, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, func() {}, err
		}
		if cfg.Storage.Migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, func() {}, fmt.Errorf("postgres migrations: %w", err)
			}
		}
		return &storeSet{
			minuteBase: postgres.NewMinuteBaseStore(pool),
			vols:       postgres.NewVolStore(pool),
			trades:     postgres.NewTradeStore(pool),
			bookTicks:  postgres.NewBookTickStore(pool),
		}, pool.Close, nil

	case "clickhouse":
		var (
			conn *clickhouse.Conn
			err  error
		)
		if cfg.Storage.Migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.Storage.DSN)
		} else {
			conn, err = clickhouse.NewConn(ctx, cfg.Storage.DSN)
		}
		if err != nil {
			return nil, func() {}, err
		}
		return &storeSet{
			minuteBase: clickhouse.NewMinuteBaseStore(conn),
			vols:       clickhouse.NewVolStore(conn),
			trades:     clickhouse.NewTradeStore(conn),
			bookTicks:  clickhouse.NewBookTickStore(conn),
		}, func() { conn.Close() }, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
