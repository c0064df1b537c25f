package domain

// TakerFlowPoint holds per-minute taker buy/sell flow reduced from the
// raw trade log. Buy quantity sums trades where the buyer was the taker
// (buyer-is-maker false), sell quantity the opposite partition.
type TakerFlowPoint struct {
	Symbol     string  // instrument symbol
	BucketMs   int64   // bucket start, ms since epoch
	BuyQty     float64 // taker buy quantity
	SellQty    float64 // taker sell quantity
	TradeCount int     // qualifying trades in the bucket
}

// TopOfBookPoint holds the last positive-book snapshot observed at or
// before a bucket's close.
type TopOfBookPoint struct {
	Symbol   string  // instrument symbol
	BucketMs int64   // bucket start, ms since epoch
	TsMs     int64   // timestamp of the chosen snapshot
	BidQty   float64 // quantity at best bid
	AskQty   float64 // quantity at best ask
}

// MidPoint is one observed mid-price, used only by the forward label
// lookup. Points are kept in ascending TsMs order per symbol.
type MidPoint struct {
	TsMs int64   // snapshot timestamp, ms since epoch
	Mid  float64 // (bid + ask) / 2
}
