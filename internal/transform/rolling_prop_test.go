package transform

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// naiveStats recomputes the trailing window statistics from scratch.
func naiveStats(values []float64, end, size, minPeriods int) (mean, std float64, ok bool) {
	start := end - size + 1
	if start < 0 {
		start = 0
	}
	window := values[start : end+1]
	if len(window) < minPeriods {
		return 0, 0, false
	}

	sum := 0.0
	for _, v := range window {
		sum += v
	}
	mean = sum / float64(len(window))

	sq := 0.0
	for _, v := range window {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(window))), true
}

func TestRolling_MatchesNaiveRecomputation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ring buffer equals full recomputation at every step", prop.ForAll(
		func(values []float64, size, minPeriods int) bool {
			if minPeriods > size {
				minPeriods = size
			}
			w := NewRolling(size, minPeriods)
			for i, v := range values {
				w.Push(fptr(v))
				gotMean, gotStd, gotOK := w.Stats()
				wantMean, wantStd, wantOK := naiveStats(values, i, size, minPeriods)
				if gotOK != wantOK {
					return false
				}
				if !gotOK {
					continue
				}
				if math.Abs(gotMean-wantMean) > 1e-9 || math.Abs(gotStd-wantStd) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e3, 1e3)),
		gen.IntRange(1, 30),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}
