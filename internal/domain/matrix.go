package domain

// FeatureRow is one row of the output feature matrix. Field order matches
// the frozen column registry; the parquet tags name the on-disk columns for
// both serializations. Feature fields are pointers because a column with no
// observation anywhere stays null even after gap-filling.
type FeatureRow struct {
	Symbol   string `parquet:"symbol"`
	BucketMs int64  `parquet:"bucket_start_ms"`

	NTrades             *float64 `parquet:"n_trades,optional"`
	QtySum              *float64 `parquet:"qty_sum,optional"`
	VWAP                *float64 `parquet:"vwap,optional"`
	Imb                 *float64 `parquet:"imb,optional"`
	Spread              *float64 `parquet:"spread,optional"`
	Mid                 *float64 `parquet:"mid,optional"`
	Vol5m               *float64 `parquet:"vol5m,optional"`
	LastPrice           *float64 `parquet:"last_price,optional"`
	SpreadBp            *float64 `parquet:"spread_bp,optional"`
	DSpreadBp           *float64 `parquet:"d_spread_bp,optional"`
	QuoteStalenessMs    *float64 `parquet:"quote_staleness_ms,optional"`
	Ret1m               *float64 `parquet:"ret_1m,optional"`
	Ret2m               *float64 `parquet:"ret_2m,optional"`
	Ret5m               *float64 `parquet:"ret_5m,optional"`
	Rv3m                *float64 `parquet:"rv_3m,optional"`
	Rv10m               *float64 `parquet:"rv_10m,optional"`
	TakerImb            *float64 `parquet:"taker_imb,optional"`
	TakerQtyTot         *float64 `parquet:"taker_qty_tot,optional"`
	TakerQtyZ30         *float64 `parquet:"taker_qty_z_30,optional"`
	DepthImbTop1        *float64 `parquet:"depth_imb_top1,optional"`
	MicropricePremiumBp *float64 `parquet:"microprice_premium_bp,optional"`
	VwapPremiumBp       *float64 `parquet:"vwap_premium_bp,optional"`
	DImb1m              *float64 `parquet:"d_imb_1m,optional"`
	ImbZ30              *float64 `parquet:"imb_z_30,optional"`
	SpreadZ30           *float64 `parquet:"spread_z_30,optional"`
	QtySumZ30           *float64 `parquet:"qty_sum_z_30,optional"`
	MinSin              *float64 `parquet:"min_sin,optional"`
	MinCos              *float64 `parquet:"min_cos,optional"`
	HourSin             *float64 `parquet:"hour_sin,optional"`
	HourCos             *float64 `parquet:"hour_cos,optional"`

	// Label: sign of the forward mid move, in {-1, 0, 1}.
	Label int64 `parquet:"direction_next_30s"`
}
