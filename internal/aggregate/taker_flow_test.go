package aggregate

import (
	"testing"

	"lobx-feature-lab/internal/domain"
)

func TestTakerFlow_SplitsBuyAndSellBySide(t *testing.T) {
	trades := []*domain.Trade{
		{Symbol: "BTCUSDT", TsMs: 60_000, Price: 100, Quantity: 2, BuyerIsMaker: false},
		{Symbol: "BTCUSDT", TsMs: 61_000, Price: 101, Quantity: 3, BuyerIsMaker: true},
		{Symbol: "BTCUSDT", TsMs: 119_999, Price: 99, Quantity: 1, BuyerIsMaker: false},
	}

	points := TakerFlow(trades)

	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	p := points[0]
	if p.BucketMs != 60_000 {
		t.Errorf("expected bucket 60000, got %d", p.BucketMs)
	}
	// Buyer-is-maker means the seller took; that quantity is sell flow.
	if p.BuyQty != 3 {
		t.Errorf("expected buy qty 3, got %f", p.BuyQty)
	}
	if p.SellQty != 3 {
		t.Errorf("expected sell qty 3, got %f", p.SellQty)
	}
	if p.TradeCount != 3 {
		t.Errorf("expected trade count 3, got %d", p.TradeCount)
	}
}

func TestTakerFlow_ExcludesNonPositivePriceOrQuantity(t *testing.T) {
	trades := []*domain.Trade{
		{Symbol: "BTCUSDT", TsMs: 60_000, Price: 0, Quantity: 2},
		{Symbol: "BTCUSDT", TsMs: 60_500, Price: 100, Quantity: 0},
		{Symbol: "BTCUSDT", TsMs: 61_000, Price: -5, Quantity: 1},
		{Symbol: "BTCUSDT", TsMs: 61_500, Price: 100, Quantity: 1.5, BuyerIsMaker: false},
	}

	points := TakerFlow(trades)

	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	if points[0].BuyQty != 1.5 || points[0].SellQty != 0 {
		t.Errorf("expected only the valid trade counted, got buy=%f sell=%f",
			points[0].BuyQty, points[0].SellQty)
	}
	if points[0].TradeCount != 1 {
		t.Errorf("expected trade count 1, got %d", points[0].TradeCount)
	}
}

func TestTakerFlow_OrdersBySymbolThenBucket(t *testing.T) {
	trades := []*domain.Trade{
		{Symbol: "ETHUSDT", TsMs: 120_000, Price: 10, Quantity: 1},
		{Symbol: "BTCUSDT", TsMs: 120_000, Price: 10, Quantity: 1},
		{Symbol: "ETHUSDT", TsMs: 60_000, Price: 10, Quantity: 1},
	}

	points := TakerFlow(trades)

	if len(points) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(points))
	}
	want := []struct {
		symbol   string
		bucketMs int64
	}{
		{"BTCUSDT", 120_000},
		{"ETHUSDT", 60_000},
		{"ETHUSDT", 120_000},
	}
	for i, w := range want {
		if points[i].Symbol != w.symbol || points[i].BucketMs != w.bucketMs {
			t.Errorf("position %d: expected (%s, %d), got (%s, %d)",
				i, w.symbol, w.bucketMs, points[i].Symbol, points[i].BucketMs)
		}
	}
}

func TestTakerFlow_EmptyInput(t *testing.T) {
	if points := TakerFlow(nil); points != nil {
		t.Errorf("expected nil for empty input, got %v", points)
	}
}
