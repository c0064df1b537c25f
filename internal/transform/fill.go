package transform

import (
	"sort"

	"lobx-feature-lab/internal/domain"
	"lobx-feature-lab/internal/featset"
)

// FillGaps imputes missing feature values in place, column by column
// over the frozen registry. First pass: per-symbol forward fill in row
// order. Second pass: remaining holes take the global median of the
// column, computed after the forward fill. A column that is null
// everywhere stays null. Index columns and the label are never touched.
func FillGaps(rows []domain.FeatureRow) {
	if len(rows) == 0 {
		return
	}

	for _, col := range featset.Features {
		forwardFill(rows, col)
		medianFill(rows, col)
	}
}

func forwardFill(rows []domain.FeatureRow, col featset.Column) {
	var (
		symbol string
		last   *float64
	)
	for i := range rows {
		if rows[i].Symbol != symbol {
			symbol = rows[i].Symbol
			last = nil
		}
		cell := col.Ptr(&rows[i])
		if *cell != nil {
			last = *cell
		} else if last != nil {
			v := *last
			*cell = &v
		}
	}
}

func medianFill(rows []domain.FeatureRow, col featset.Column) {
	values := make([]float64, 0, len(rows))
	for i := range rows {
		if cell := col.Ptr(&rows[i]); *cell != nil {
			values = append(values, **cell)
		}
	}
	if len(values) == 0 {
		return
	}

	sort.Float64s(values)
	var median float64
	if n := len(values); n%2 == 1 {
		median = values[n/2]
	} else {
		median = (values[n/2-1] + values[n/2]) / 2
	}

	for i := range rows {
		if cell := col.Ptr(&rows[i]); *cell == nil {
			v := median
			*cell = &v
		}
	}
}
