package transform

import "math"

func fptr(v float64) *float64 {
	return &v
}

// safeDiv divides and returns nil instead of a non-finite result.
func safeDiv(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	q := num / den
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return nil
	}
	return &q
}

// safeLog returns nil for non-positive arguments.
func safeLog(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return fptr(math.Log(v))
}

// diff returns cur-prev when both sides are present.
func diff(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return fptr(*cur - *prev)
}
