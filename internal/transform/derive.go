// Package transform turns joined per-minute rows into the labeled
// feature matrix: it drops unlabelable rows, derives every feature
// column per symbol in bucket order, and gap-fills the result.
package transform

import (
	"math"

	"lobx-feature-lab/internal/domain"
)

const (
	zWindow     = 30
	zMinPeriods = 5
)

// Options control the per-symbol rolling state between buckets.
type Options struct {
	// ResetOnGap clears lag and window state when consecutive buckets of
	// one symbol are further apart than MaxGapMinutes. Off reproduces
	// positional semantics where gaps are invisible to the windows.
	ResetOnGap    bool
	MaxGapMinutes int
}

// symbolState carries the per-symbol sequential scan state. All lags,
// diffs, and windows are positional over the rows that survive the
// label drop; calendar gaps do not advance them unless ResetOnGap is on.
type symbolState struct {
	mids        []float64
	prevSpread  *float64
	prevImb     *float64
	retWin3     *Rolling
	retWin10    *Rolling
	takerQtyWin *Rolling
	imbWin      *Rolling
	spreadWin   *Rolling
	qtySumWin   *Rolling
}

func newSymbolState() *symbolState {
	return &symbolState{
		retWin3:     NewRolling(3, 3),
		retWin10:    NewRolling(10, 5),
		takerQtyWin: NewRolling(zWindow, zMinPeriods),
		imbWin:      NewRolling(zWindow, zMinPeriods),
		spreadWin:   NewRolling(zWindow, zMinPeriods),
		qtySumWin:   NewRolling(zWindow, zMinPeriods),
	}
}

func (s *symbolState) reset() {
	s.mids = s.mids[:0]
	s.prevSpread = nil
	s.prevImb = nil
	s.retWin3.Reset()
	s.retWin10.Reset()
	s.takerQtyWin.Reset()
	s.imbWin.Reset()
	s.spreadWin.Reset()
	s.qtySumWin.Reset()
}

// Derive builds one feature row per labelable joined row. Rows without
// a current mid or a forward mid cannot be labeled and are dropped
// before any derivation, so lags and windows never see them. Input must
// be sorted by (symbol, bucket_ms) ascending; output preserves that
// order.
func Derive(rows []*domain.JoinedRow, opts Options) []domain.FeatureRow {
	labeled := make([]*domain.JoinedRow, 0, len(rows))
	for _, r := range rows {
		if r.Mid == nil || r.MidPlusHorizon == nil {
			continue
		}
		labeled = append(labeled, r)
	}
	if len(labeled) == 0 {
		return []domain.FeatureRow{}
	}

	out := make([]domain.FeatureRow, 0, len(labeled))

	var (
		curSymbol  string
		state      *symbolState
		prevBucket int64
	)
	for _, r := range labeled {
		if state == nil || r.Symbol != curSymbol {
			curSymbol = r.Symbol
			state = newSymbolState()
		} else if opts.ResetOnGap && r.BucketMs-prevBucket > int64(opts.MaxGapMinutes)*domain.BucketSizeMs {
			state.reset()
		}
		prevBucket = r.BucketMs

		out = append(out, deriveRow(r, state))
	}

	return out
}

func deriveRow(r *domain.JoinedRow, s *symbolState) domain.FeatureRow {
	mid := *r.Mid

	row := domain.FeatureRow{
		Symbol:    r.Symbol,
		BucketMs:  r.BucketMs,
		NTrades:   r.NTrades,
		QtySum:    r.QtySum,
		VWAP:      r.VWAP,
		Imb:       r.Imb,
		Spread:    r.Spread,
		Mid:       r.Mid,
		Vol5m:     r.Vol5m,
		LastPrice: r.LastPrice,
		Label:     sign(*r.MidPlusHorizon - mid),
	}

	// Spread in basis points and its first difference.
	if r.Spread != nil {
		row.SpreadBp = safeDiv(1e4**r.Spread, mid)
	}
	row.DSpreadBp = diff(row.SpreadBp, s.prevSpread)
	s.prevSpread = row.SpreadBp

	// Age of the snapshot behind the base aggregates, measured from the
	// bucket's close.
	if r.SrcTsMs != nil {
		row.QuoteStalenessMs = fptr(float64(r.BucketMs+domain.BucketSizeMs) - *r.SrcTsMs)
	}

	// Log returns over positional lags of the surviving mid series.
	s.mids = append(s.mids, mid)
	row.Ret1m = lagReturn(s.mids, 1)
	row.Ret2m = lagReturn(s.mids, 2)
	row.Ret5m = lagReturn(s.mids, 5)

	// Realized volatility of the 1-minute return.
	s.retWin3.Push(row.Ret1m)
	s.retWin10.Push(row.Ret1m)
	if _, std, ok := s.retWin3.Stats(); ok {
		row.Rv3m = fptr(std)
	}
	if _, std, ok := s.retWin10.Stats(); ok {
		row.Rv10m = fptr(std)
	}

	// Taker flow imbalance and total. The total treats a missing side as
	// zero so quiet minutes still produce a value.
	if r.TakerBuyQty != nil && r.TakerSellQty != nil {
		row.TakerImb = safeDiv(*r.TakerBuyQty-*r.TakerSellQty, *r.TakerBuyQty+*r.TakerSellQty)
	}
	buy, sell := 0.0, 0.0
	if r.TakerBuyQty != nil {
		buy = *r.TakerBuyQty
	}
	if r.TakerSellQty != nil {
		sell = *r.TakerSellQty
	}
	row.TakerQtyTot = fptr(buy + sell)

	row.TakerQtyZ30 = zscore(s.takerQtyWin, row.TakerQtyTot)

	// Top-of-book depth imbalance and microprice premium. The book sides
	// are reconstructed from mid and spread; quantities come from the
	// last snapshot in the bucket.
	if r.BidQty != nil && r.AskQty != nil {
		row.DepthImbTop1 = safeDiv(*r.BidQty-*r.AskQty, *r.BidQty+*r.AskQty)
		if r.Spread != nil {
			bidPx := mid - *r.Spread/2
			askPx := mid + *r.Spread/2
			if micro := safeDiv(bidPx**r.AskQty+askPx**r.BidQty, *r.BidQty+*r.AskQty); micro != nil {
				row.MicropricePremiumBp = safeDiv(1e4*(*micro-mid), mid)
			}
		}
	}

	if r.VWAP != nil {
		row.VwapPremiumBp = safeDiv(1e4*(*r.VWAP-mid), mid)
	}

	row.DImb1m = diff(r.Imb, s.prevImb)
	s.prevImb = r.Imb

	row.ImbZ30 = zscore(s.imbWin, r.Imb)
	row.SpreadZ30 = zscore(s.spreadWin, r.Spread)
	row.QtySumZ30 = zscore(s.qtySumWin, r.QtySum)

	// Cyclical clock encoding of the bucket position.
	minuteOfHour := float64((r.BucketMs / domain.BucketSizeMs) % 60)
	hourOfDay := float64((r.BucketMs / (60 * domain.BucketSizeMs)) % 24)
	row.MinSin = fptr(math.Sin(2 * math.Pi * minuteOfHour / 60))
	row.MinCos = fptr(math.Cos(2 * math.Pi * minuteOfHour / 60))
	row.HourSin = fptr(math.Sin(2 * math.Pi * hourOfDay / 24))
	row.HourCos = fptr(math.Cos(2 * math.Pi * hourOfDay / 24))

	return row
}

// lagReturn computes log(mids[last] / mids[last-lag]) over the current
// segment's mid history.
func lagReturn(mids []float64, lag int) *float64 {
	i := len(mids) - 1
	if i < lag {
		return nil
	}
	prev := mids[i-lag]
	if prev == 0 {
		return nil
	}
	return safeLog(mids[i] / prev)
}

// zscore pushes x into the window and standardizes it against the
// window's own mean and population std. A flat window (std 0) yields
// nil, as does a null x or an underfilled window.
func zscore(w *Rolling, x *float64) *float64 {
	w.Push(x)
	if x == nil {
		return nil
	}
	mean, std, ok := w.Stats()
	if !ok || std == 0 {
		return nil
	}
	return fptr((*x - mean) / std)
}

func sign(d float64) int64 {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}
