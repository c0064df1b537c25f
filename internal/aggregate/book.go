package aggregate

import (
	"sort"

	"lobx-feature-lab/internal/domain"
)

// LastBookInBucket selects, per (symbol, bucket), the single positive-book
// snapshot with the maximum timestamp at or before the bucket end. Input
// order does not matter; ties on timestamp keep the later event.
func LastBookInBucket(ticks []*domain.BookTick) []*domain.TopOfBookPoint {
	if len(ticks) == 0 {
		return nil
	}

	type key struct {
		symbol   string
		bucketMs int64
	}
	last := make(map[key]*domain.TopOfBookPoint)

	for _, b := range ticks {
		if !b.HasPositiveBook() {
			continue
		}

		k := key{b.Symbol, domain.BucketStart(b.TsMs)}
		cur, ok := last[k]
		if !ok || b.TsMs >= cur.TsMs {
			last[k] = &domain.TopOfBookPoint{
				Symbol:   k.symbol,
				BucketMs: k.bucketMs,
				TsMs:     b.TsMs,
				BidQty:   b.BidQty,
				AskQty:   b.AskQty,
			}
		}
	}

	result := make([]*domain.TopOfBookPoint, 0, len(last))
	for _, point := range last {
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

// MidSeries builds the per-symbol ascending mid-price series from
// positive-book snapshots. The series feeds the forward label lookup
// exclusively; features never read from it.
func MidSeries(ticks []*domain.BookTick) map[string][]domain.MidPoint {
	if len(ticks) == 0 {
		return nil
	}

	series := make(map[string][]domain.MidPoint)
	for _, b := range ticks {
		if !b.HasPositiveBook() {
			continue
		}
		series[b.Symbol] = append(series[b.Symbol], domain.MidPoint{
			TsMs: b.TsMs,
			Mid:  b.Mid(),
		})
	}

	for symbol := range series {
		points := series[symbol]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].TsMs < points[j].TsMs
		})
		series[symbol] = points
	}

	return series
}
