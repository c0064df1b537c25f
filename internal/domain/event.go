package domain

// Trade represents one raw trade event from the trade log.
// Corresponds to the trade table written by the capture process.
type Trade struct {
	Symbol       string  // instrument symbol
	TsMs         int64   // receive timestamp in milliseconds
	Price        float64 // traded price
	Quantity     float64 // traded quantity
	BuyerIsMaker bool    // true when the resting order was the buy side
}

// BookTick represents one top-of-book snapshot from the bookTicker log.
type BookTick struct {
	Symbol   string  // instrument symbol
	TsMs     int64   // receive timestamp in milliseconds
	BidPrice float64 // best bid price
	BidQty   float64 // quantity at best bid
	AskPrice float64 // best ask price
	AskQty   float64 // quantity at best ask
}

// HasPositiveBook reports whether both sides of the book are quoted.
// Ticks failing this check are excluded from mid/spread and label sourcing.
func (b *BookTick) HasPositiveBook() bool {
	return b.BidPrice > 0 && b.AskPrice > 0
}

// Mid returns the mid-price of the snapshot.
func (b *BookTick) Mid() float64 {
	return (b.BidPrice + b.AskPrice) / 2.0
}
