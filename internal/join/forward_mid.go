package join

import (
	"sort"

	"lobx-feature-lab/internal/domain"
)

// ForwardMid returns the mid-price of the latest observation with
// timestamp in the open-closed window (bucketMs, bucketMs+horizonMs].
// Points must be sorted ascending by TsMs. Returns nil when no
// observation falls inside the window.
//
// This is a point lookup per bucket, not a running window: the window
// start is exclusive and varies per row, so a trailing scan would leak
// or miss observations at minute boundaries.
func ForwardMid(points []domain.MidPoint, bucketMs, horizonMs int64) *float64 {
	if len(points) == 0 {
		return nil
	}

	deadline := bucketMs + horizonMs

	// First index with TsMs > deadline; the candidate sits just before it.
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].TsMs > deadline
	})
	if idx == 0 {
		return nil
	}

	candidate := points[idx-1]
	if candidate.TsMs <= bucketMs {
		return nil
	}

	mid := candidate.Mid
	return &mid
}
