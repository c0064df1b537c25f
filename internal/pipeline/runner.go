// Package pipeline orchestrates one batch build: read the event stores,
// aggregate to minute buckets, join, derive and fill features, and
// commit the matrix plus its schema descriptor.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"lobx-feature-lab/internal/aggregate"
	"lobx-feature-lab/internal/config"
	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/featset"
	"lobx-feature-lab/internal/join"
	"lobx-feature-lab/internal/output"
	"lobx-feature-lab/internal/storage"
	"lobx-feature-lab/internal/transform"
)

// Runner wires the stores to the build stages for one run.
type Runner struct {
	minuteBase storage.MinuteBaseStore
	vols       storage.VolStore
	trades     storage.TradeStore
	bookTicks  storage.BookTickStore
	cfg        *config.Config
	log        *zap.Logger
}

// Result summarizes a completed run.
type Result struct {
	Symbols       int
	BucketsIn     int
	RowsOut       int
	DroppedRows   int
	ArtifactPaths []string
}

// NewRunner creates a runner over the given stores.
func NewRunner(
	minuteBase storage.MinuteBaseStore,
	vols storage.VolStore,
	trades storage.TradeStore,
	bookTicks storage.BookTickStore,
	cfg *config.Config,
	log *zap.Logger,
) *Runner {
	return &Runner{
		minuteBase: minuteBase,
		vols:       vols,
		trades:     trades,
		bookTicks:  bookTicks,
		cfg:        cfg,
		log:        log,
	}
}

// Run executes the full build. Any missing source is fatal before
// anything is written; the matrix is committed before the descriptor so
// a descriptor on disk always describes an existing matrix.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	base, err := r.minuteBase.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read minute base: %w", err)
	}
	vols, err := r.vols.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rolling vol: %w", err)
	}
	trades, err := r.trades.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}
	ticks, err := r.bookTicks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read book ticker: %w", err)
	}
	r.log.Info("sources loaded",
		zap.Int("minute_base", len(base)),
		zap.Int("rolling_vol", len(vols)),
		zap.Int("trades", len(trades)),
		zap.Int("book_ticks", len(ticks)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flows := aggregate.TakerFlow(trades)
	books := aggregate.LastBookInBucket(ticks)
	mids := aggregate.MidSeries(ticks)

	joined := join.NewEngine(r.cfg.Label.HorizonSeconds).Join(base, vols, flows, books, mids)
	r.log.Info("joined", zap.Int("rows", len(joined)))

	rows := transform.Derive(joined, transform.Options{
		ResetOnGap:    r.cfg.Rolling.ResetOnGap,
		MaxGapMinutes: r.cfg.Rolling.MaxGapMinutes,
	})
	dropped := len(joined) - len(rows)
	r.log.Info("derived", zap.Int("rows", len(rows)), zap.Int("dropped_unlabeled", dropped))

	transform.FillGaps(rows)

	desc := featset.BuildDescriptor(rows, r.cfg.Label.HorizonSeconds)
	if err := desc.Validate(rows); err != nil {
		return nil, fmt.Errorf("validate descriptor: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths, err := r.write(rows, desc)
	if err != nil {
		return nil, err
	}

	return &Result{
		Symbols:       countSymbols(rows),
		BucketsIn:     len(base),
		RowsOut:       len(rows),
		DroppedRows:   dropped,
		ArtifactPaths: paths,
	}, nil
}

func (r *Runner) write(rows []domain.FeatureRow, desc *featset.Descriptor) ([]string, error) {
	out := r.cfg.Output
	var paths []string

	if out.Format == "csv" || out.Format == "both" {
		p := filepath.Join(out.Dir, out.MatrixName+".csv")
		if err := output.WriteCSV(p, rows); err != nil {
			return nil, fmt.Errorf("write csv matrix: %w", err)
		}
		paths = append(paths, p)
	}
	if out.Format == "parquet" || out.Format == "both" {
		p := filepath.Join(out.Dir, out.MatrixName+".parquet")
		if err := output.WriteParquet(p, rows); err != nil {
			return nil, fmt.Errorf("write parquet matrix: %w", err)
		}
		paths = append(paths, p)
	}

	p := filepath.Join(out.Dir, out.SchemaName)
	if err := output.WriteDescriptor(p, desc); err != nil {
		return nil, fmt.Errorf("write descriptor: %w", err)
	}
	paths = append(paths, p)

	return paths, nil
}

func countSymbols(rows []domain.FeatureRow) int {
	n := 0
	prev := ""
	for i := range rows {
		if i == 0 || rows[i].Symbol != prev {
			n++
			prev = rows[i].Symbol
		}
	}
	return n
}
