package aggregate

import (
	"sort"

	"lobx-feature-lab/internal/domain"
)

// TakerFlow reduces raw trades into per-minute taker buy/sell flow.
// Trades with non-positive price or quantity are excluded before
// aggregation. Buy quantity sums trades where the buyer was the taker
// (buyer-is-maker false); sell quantity the complement.
func TakerFlow(trades []*domain.Trade) []*domain.TakerFlowPoint {
	if len(trades) == 0 {
		return nil
	}

	type key struct {
		symbol   string
		bucketMs int64
	}
	buckets := make(map[key]*domain.TakerFlowPoint)

	for _, t := range trades {
		if t.Price <= 0 || t.Quantity <= 0 {
			continue
		}

		k := key{t.Symbol, domain.BucketStart(t.TsMs)}
		point, ok := buckets[k]
		if !ok {
			point = &domain.TakerFlowPoint{
				Symbol:   k.symbol,
				BucketMs: k.bucketMs,
			}
			buckets[k] = point
		}

		if t.BuyerIsMaker {
			point.SellQty += t.Quantity
		} else {
			point.BuyQty += t.Quantity
		}
		point.TradeCount++
	}

	result := make([]*domain.TakerFlowPoint, 0, len(buckets))
	for _, point := range buckets {
		result = append(result, point)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol != result[j].Symbol {
			return result[i].Symbol < result[j].Symbol
		}
		return result[i].BucketMs < result[j].BucketMs
	})

	return result
}
