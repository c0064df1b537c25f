package domain

// JoinedRow is the union of all per-bucket series for one
// (symbol, bucket_start_ms) key. Every secondary source is left-joined:
// unmatched fields stay nil, never a fabricated default.
//
// MidPlusHorizon is the only forward-looking field. It feeds the label
// and nothing else; no feature may be derived from it.
type JoinedRow struct {
	Symbol   string
	BucketMs int64

	// Base aggregates (features_minute).
	NTrades *float64
	QtySum  *float64
	VWAP    *float64
	Imb     *float64
	Spread  *float64
	Mid     *float64
	Vol5m   *float64
	SrcTsMs *float64

	// Trailing volatility series (rolling_vol_5m).
	LastPrice *float64

	// Forward as-of mid lookup, strictly inside (bucket, bucket+horizon].
	MidPlusHorizon *float64

	// Taker flow (trade log).
	TakerBuyQty  *float64
	TakerSellQty *float64
	TradeCount   *float64

	// Last-in-bucket top-of-book quantities (bookTicker log).
	BidQty *float64
	AskQty *float64
}
