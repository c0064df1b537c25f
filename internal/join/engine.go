// Package join aligns the aggregated per-minute series onto the common
// (symbol, bucket_start_ms) key. All joins are explicit hash joins with
// left-join semantics: unmatched secondary rows contribute nils, never
// fabricated defaults.
package join

import (
	"lobx-feature-lab/internal/domain"
)

// Engine performs the temporal join for one batch run.
type Engine struct {
	horizonMs int64
}

// NewEngine creates a join engine with the given label horizon.
func NewEngine(horizonSeconds int) *Engine {
	return &Engine{horizonMs: int64(horizonSeconds) * 1000}
}

type joinKey struct {
	symbol   string
	bucketMs int64
}

// Join produces one row per base aggregate, left-joining the volatility
// series, taker flow, last-in-bucket top-of-book quantities, and the
// forward mid lookup. Output order follows the base input order, which
// the store guarantees to be (symbol, bucket_ms) ascending.
func (e *Engine) Join(
	base []*domain.MinuteBase,
	vols []*domain.VolPoint,
	flows []*domain.TakerFlowPoint,
	books []*domain.TopOfBookPoint,
	mids map[string][]domain.MidPoint,
) []*domain.JoinedRow {
	if len(base) == 0 {
		return nil
	}

	volByKey := make(map[joinKey]*domain.VolPoint, len(vols))
	for _, v := range vols {
		volByKey[joinKey{v.Symbol, v.BucketMs}] = v
	}

	flowByKey := make(map[joinKey]*domain.TakerFlowPoint, len(flows))
	for _, f := range flows {
		flowByKey[joinKey{f.Symbol, f.BucketMs}] = f
	}

	bookByKey := make(map[joinKey]*domain.TopOfBookPoint, len(books))
	for _, b := range books {
		bookByKey[joinKey{b.Symbol, b.BucketMs}] = b
	}

	result := make([]*domain.JoinedRow, 0, len(base))
	for _, mb := range base {
		row := &domain.JoinedRow{
			Symbol:   mb.Symbol,
			BucketMs: mb.BucketMs,
			QtySum:   mb.QtySum,
			VWAP:     mb.VWAP,
			Imb:      mb.Imb,
			Spread:   mb.Spread,
			Mid:      mb.Mid,
			Vol5m:    mb.Vol5m,
		}
		if mb.NTrades != nil {
			n := float64(*mb.NTrades)
			row.NTrades = &n
		}
		if mb.SrcTsMs != nil {
			ts := float64(*mb.SrcTsMs)
			row.SrcTsMs = &ts
		}

		k := joinKey{mb.Symbol, mb.BucketMs}

		if v, ok := volByKey[k]; ok {
			px := v.PxClose
			row.LastPrice = &px
		}

		if f, ok := flowByKey[k]; ok {
			buy, sell := f.BuyQty, f.SellQty
			count := float64(f.TradeCount)
			row.TakerBuyQty = &buy
			row.TakerSellQty = &sell
			row.TradeCount = &count
		}

		if b, ok := bookByKey[k]; ok {
			bidQty, askQty := b.BidQty, b.AskQty
			row.BidQty = &bidQty
			row.AskQty = &askQty
		}

		row.MidPlusHorizon = ForwardMid(mids[mb.Symbol], mb.BucketMs, e.horizonMs)

		result = append(result, row)
	}

	return result
}
