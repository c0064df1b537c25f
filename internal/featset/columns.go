// Package featset freezes the output column registry: names, order,
// dtypes, and field accessors are fixed at compile time so every run
// emits an identical layout regardless of which values are null.
package featset

import (
	"lobx-feature-lab/internal/domain"
)

// Column binds an output column name to its field in the feature row.
type Column struct {
	Name string
	Ptr  func(r *domain.FeatureRow) **float64
}

// IndexColumns identify a row; they are never null and never filled.
var IndexColumns = []string{"symbol", "bucket_start_ms"}

// LabelColumn holds the forward direction target.
const LabelColumn = "direction_next_30s"

// Features lists every feature column in serialization order. Gap-filling
// walks this exact list; anything not here is never filled.
var Features = []Column{
	{"n_trades", func(r *domain.FeatureRow) **float64 { return &r.NTrades }},
	{"qty_sum", func(r *domain.FeatureRow) **float64 { return &r.QtySum }},
	{"vwap", func(r *domain.FeatureRow) **float64 { return &r.VWAP }},
	{"imb", func(r *domain.FeatureRow) **float64 { return &r.Imb }},
	{"spread", func(r *domain.FeatureRow) **float64 { return &r.Spread }},
	{"mid", func(r *domain.FeatureRow) **float64 { return &r.Mid }},
	{"vol5m", func(r *domain.FeatureRow) **float64 { return &r.Vol5m }},
	{"last_price", func(r *domain.FeatureRow) **float64 { return &r.LastPrice }},
	{"spread_bp", func(r *domain.FeatureRow) **float64 { return &r.SpreadBp }},
	{"d_spread_bp", func(r *domain.FeatureRow) **float64 { return &r.DSpreadBp }},
	{"quote_staleness_ms", func(r *domain.FeatureRow) **float64 { return &r.QuoteStalenessMs }},
	{"ret_1m", func(r *domain.FeatureRow) **float64 { return &r.Ret1m }},
	{"ret_2m", func(r *domain.FeatureRow) **float64 { return &r.Ret2m }},
	{"ret_5m", func(r *domain.FeatureRow) **float64 { return &r.Ret5m }},
	{"rv_3m", func(r *domain.FeatureRow) **float64 { return &r.Rv3m }},
	{"rv_10m", func(r *domain.FeatureRow) **float64 { return &r.Rv10m }},
	{"taker_imb", func(r *domain.FeatureRow) **float64 { return &r.TakerImb }},
	{"taker_qty_tot", func(r *domain.FeatureRow) **float64 { return &r.TakerQtyTot }},
	{"taker_qty_z_30", func(r *domain.FeatureRow) **float64 { return &r.TakerQtyZ30 }},
	{"depth_imb_top1", func(r *domain.FeatureRow) **float64 { return &r.DepthImbTop1 }},
	{"microprice_premium_bp", func(r *domain.FeatureRow) **float64 { return &r.MicropricePremiumBp }},
	{"vwap_premium_bp", func(r *domain.FeatureRow) **float64 { return &r.VwapPremiumBp }},
	{"d_imb_1m", func(r *domain.FeatureRow) **float64 { return &r.DImb1m }},
	{"imb_z_30", func(r *domain.FeatureRow) **float64 { return &r.ImbZ30 }},
	{"spread_z_30", func(r *domain.FeatureRow) **float64 { return &r.SpreadZ30 }},
	{"qty_sum_z_30", func(r *domain.FeatureRow) **float64 { return &r.QtySumZ30 }},
	{"min_sin", func(r *domain.FeatureRow) **float64 { return &r.MinSin }},
	{"min_cos", func(r *domain.FeatureRow) **float64 { return &r.MinCos }},
	{"hour_sin", func(r *domain.FeatureRow) **float64 { return &r.HourSin }},
	{"hour_cos", func(r *domain.FeatureRow) **float64 { return &r.HourCos }},
}

// FeatureNames returns the feature column names in registry order.
func FeatureNames() []string {
	names := make([]string, len(Features))
	for i, c := range Features {
		names[i] = c.Name
	}
	return names
}

// Dtypes returns the column-to-dtype mapping for the full output schema.
func Dtypes() map[string]string {
	dtypes := make(map[string]string, len(Features)+3)
	dtypes["symbol"] = "string"
	dtypes["bucket_start_ms"] = "int64"
	for _, c := range Features {
		dtypes[c.Name] = "float64"
	}
	dtypes[LabelColumn] = "int64"
	return dtypes
}
