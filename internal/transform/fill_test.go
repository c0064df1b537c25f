package transform

import (
	"testing"

	"lobx-feature-lab/internal/domain"
)

func TestFillGaps_ForwardFillWithinSymbol(t *testing.T) {
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1), Ret1m: fptr(0.5)},
		{Symbol: "A", BucketMs: bucket(2)},
		{Symbol: "A", BucketMs: bucket(3), Ret1m: fptr(0.7)},
	}

	FillGaps(rows)

	if rows[1].Ret1m == nil || *rows[1].Ret1m != 0.5 {
		t.Errorf("expected hole filled with prior value 0.5, got %v", rows[1].Ret1m)
	}
	if *rows[2].Ret1m != 0.7 {
		t.Errorf("observed value must not change, got %f", *rows[2].Ret1m)
	}
}

func TestFillGaps_ForwardFillDoesNotCrossSymbols(t *testing.T) {
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1), Ret1m: fptr(0.5)},
		{Symbol: "B", BucketMs: bucket(1)},
		{Symbol: "B", BucketMs: bucket(2), Ret1m: fptr(0.9)},
	}

	FillGaps(rows)

	// B's leading hole has no prior value in B; it takes the global
	// median of the column after forward fill: median(0.5, 0.9) = 0.7.
	if rows[1].Ret1m == nil || *rows[1].Ret1m != 0.7 {
		t.Errorf("expected leading hole filled with global median 0.7, got %v", rows[1].Ret1m)
	}
}

// A symbol with a single bucket has nothing to forward-fill from; its
// long-lag columns take the global median contributed by other symbols.
func TestFillGaps_SingleBucketSymbolTakesGlobalMedian(t *testing.T) {
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1), Ret2m: fptr(1)},
		{Symbol: "A", BucketMs: bucket(2), Ret2m: fptr(3)},
		{Symbol: "A", BucketMs: bucket(3), Ret2m: fptr(8)},
		{Symbol: "B", BucketMs: bucket(1)},
	}

	FillGaps(rows)

	if rows[3].Ret2m == nil || *rows[3].Ret2m != 3 {
		t.Errorf("expected odd-count median 3, got %v", rows[3].Ret2m)
	}
}

func TestFillGaps_EvenCountMedianAveragesMiddles(t *testing.T) {
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1), Rv10m: fptr(1)},
		{Symbol: "A", BucketMs: bucket(2), Rv10m: fptr(2)},
		{Symbol: "A", BucketMs: bucket(3), Rv10m: fptr(10)},
		{Symbol: "A", BucketMs: bucket(4), Rv10m: fptr(20)},
		{Symbol: "B", BucketMs: bucket(1)},
	}

	FillGaps(rows)

	if rows[4].Rv10m == nil || *rows[4].Rv10m != 6 {
		t.Errorf("expected even-count median (2+10)/2 = 6, got %v", rows[4].Rv10m)
	}
}

func TestFillGaps_AllNullColumnStaysNull(t *testing.T) {
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1)},
		{Symbol: "A", BucketMs: bucket(2)},
	}

	FillGaps(rows)

	if rows[0].TakerImb != nil || rows[1].TakerImb != nil {
		t.Error("a column with no observations anywhere must stay null")
	}
}

func TestFillGaps_MedianComputedAfterForwardFill(t *testing.T) {
	// A's forward fill duplicates 10, shifting the median seen by B.
	rows := []domain.FeatureRow{
		{Symbol: "A", BucketMs: bucket(1), Imb: fptr(10)},
		{Symbol: "A", BucketMs: bucket(2)},
		{Symbol: "A", BucketMs: bucket(3), Imb: fptr(2)},
		{Symbol: "B", BucketMs: bucket(1)},
	}

	FillGaps(rows)

	// Post-ffill values are {10, 10, 2}; median 10, not median(10, 2) = 6.
	if rows[3].Imb == nil || *rows[3].Imb != 10 {
		t.Errorf("expected median over post-fill values 10, got %v", rows[3].Imb)
	}
}
