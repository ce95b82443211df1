package report

// LowStockQuery holds the low-stock report parameters. A nil Threshold
// uses the configured default.
type LowStockQuery struct {
	Threshold *int64 `form:"threshold"`
}

// SalesSummaryQuery holds the sales summary parameters
type SalesSummaryQuery struct {
	Limit *int `form:"limit"`
}

// PurchaseSummaryQuery holds the purchase summary parameters.
// OnlyReceived defaults to true.
type PurchaseSummaryQuery struct {
	OnlyReceived *bool `form:"only_received"`
	Limit        *int  `form:"limit"`
}

// Defaults are the report parameters used when a caller omits them
type Defaults struct {
	LowStockThreshold int64
	Limit             int
}
