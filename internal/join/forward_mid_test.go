package join

import (
	"testing"

	"lobx-feature-lab/internal/domain"
)

const horizonMs = 30_000

func TestForwardMid_PicksLatestInsideWindow(t *testing.T) {
	points := []domain.MidPoint{
		{TsMs: 60_000, Mid: 100}, // at bucket start, excluded
		{TsMs: 70_000, Mid: 101},
		{TsMs: 85_000, Mid: 102},
		{TsMs: 95_000, Mid: 103}, // past bucket+30s, excluded
	}

	mid := ForwardMid(points, 60_000, horizonMs)

	if mid == nil {
		t.Fatal("expected a forward mid, got nil")
	}
	if *mid != 102 {
		t.Errorf("expected latest in-window mid 102, got %f", *mid)
	}
}

func TestForwardMid_WindowStartIsExclusive(t *testing.T) {
	points := []domain.MidPoint{
		{TsMs: 60_000, Mid: 100},
	}

	if mid := ForwardMid(points, 60_000, horizonMs); mid != nil {
		t.Errorf("snapshot at bucket start must not qualify, got %f", *mid)
	}
}

func TestForwardMid_WindowEndIsInclusive(t *testing.T) {
	points := []domain.MidPoint{
		{TsMs: 90_000, Mid: 105},
	}

	mid := ForwardMid(points, 60_000, horizonMs)

	if mid == nil || *mid != 105 {
		t.Fatalf("snapshot exactly at bucket+horizon must qualify, got %v", mid)
	}
}

func TestForwardMid_NoObservationInWindow(t *testing.T) {
	points := []domain.MidPoint{
		{TsMs: 50_000, Mid: 99},
		{TsMs: 95_000, Mid: 103},
	}

	if mid := ForwardMid(points, 60_000, horizonMs); mid != nil {
		t.Errorf("expected nil when window is empty, got %f", *mid)
	}
}

func TestForwardMid_EmptySeries(t *testing.T) {
	if mid := ForwardMid(nil, 60_000, horizonMs); mid != nil {
		t.Errorf("expected nil for empty series, got %f", *mid)
	}
}
