package report

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReportRepository runs the read-only aggregation queries behind reports.
// Implementations return query failures as errors; an empty result is a
// nil or empty slice.
type ReportRepository interface {
	// InventoryRows returns one row per product ordered by product ID.
	// TotalValue is left for NewInventorySummary to compute.
	InventoryRows(ctx context.Context) ([]InventorySummaryRow, error)

	// LowStock returns products whose resolved quantity is <= threshold,
	// lowest quantity first
	LowStock(ctx context.Context, threshold int64) ([]LowStockRow, error)

	// SalesByProduct sums order items of orders in statuses, highest revenue first
	SalesByProduct(ctx context.Context, statuses []string, limit int) ([]SalesSummaryRow, error)

	// PurchasesBySupplier sums purchase order items of orders in status,
	// highest received value first
	PurchasesBySupplier(ctx context.Context, status string, limit int) ([]PurchaseSummaryRow, error)

	// PurchaseOrderStatusCounts counts purchase orders per status
	PurchaseOrderStatusCounts(ctx context.Context) ([]StatusCount, error)

	// StockValue returns the sum of resolved quantity times unit price
	StockValue(ctx context.Context) (decimal.Decimal, int64, error)
}
