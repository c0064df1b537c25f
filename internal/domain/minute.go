package domain

// BucketSizeMs is the fixed aggregation window: 60 seconds.
const BucketSizeMs int64 = 60_000

// BucketStart truncates a millisecond timestamp to its minute bucket start.
func BucketStart(tsMs int64) int64 {
	return (tsMs / BucketSizeMs) * BucketSizeMs
}

// MinuteBase represents one per-minute base aggregate row.
// Corresponds to the features_minute table. Trade-derived fields are nil
// for buckets with zero qualifying trades; quote-derived fields are nil
// when no usable book snapshot fell inside the bucket.
//
// Invariant: Mid and Spread originate from the same snapshot, whose
// timestamp is SrcTsMs.
type MinuteBase struct {
	Symbol   string   // instrument symbol
	BucketMs int64    // bucket start, ms since epoch
	NTrades  *int64   // trade count inside the bucket
	QtySum   *float64 // summed traded quantity
	VWAP     *float64 // volume-weighted average price
	Imb      *float64 // 1s flow imbalance carried through at minute grain
	Spread   *float64 // best ask minus best bid of the chosen snapshot
	Mid      *float64 // mid-price of the chosen snapshot
	Vol5m    *float64 // trailing 5-minute realized volatility
	SrcTsMs  *int64   // timestamp of the snapshot behind Spread/Mid
}

// VolPoint represents one row of the trailing 5-minute volatility series.
// Corresponds to the rolling_vol_5m table.
type VolPoint struct {
	Symbol   string  // instrument symbol
	BucketMs int64   // bucket start, ms since epoch
	Vol5m    float64 // trailing realized volatility over the window
	PxClose  float64 // last traded price at the window close
}
