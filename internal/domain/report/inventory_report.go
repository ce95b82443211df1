package report

import (
	"github.com/shopspring/decimal"
)

// InventorySummaryRow is the stock position of one product. AvailableQuantity
// is the resolved quantity: the inventory row when present, else the
// product's own counter.
type InventorySummaryRow struct {
	ProductID             int64           `json:"product_id"`
	ProductName           string          `json:"product_name"`
	AvailableQuantity     int64           `json:"available_quantity"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	TotalValue            decimal.Decimal `json:"total_value"`
	TotalOrderedQuantity  int64           `json:"total_ordered_quantity"`
	TotalReceivedQuantity int64           `json:"total_received_quantity"`
}

// InventorySummary is the full stock position with its valuation
type InventorySummary struct {
	Rows            []InventorySummaryRow `json:"rows"`
	TotalStockValue decimal.Decimal       `json:"total_stock_value"`
}

// NewInventorySummary computes row values and the grand total
func NewInventorySummary(rows []InventorySummaryRow) InventorySummary {
	total := decimal.Zero
	for i := range rows {
		rows[i].TotalValue = rows[i].UnitPrice.Mul(decimal.NewFromInt(rows[i].AvailableQuantity)).Round(2)
		total = total.Add(rows[i].TotalValue)
	}
	if rows == nil {
		rows = []InventorySummaryRow{}
	}
	return InventorySummary{Rows: rows, TotalStockValue: total.Round(2)}
}

// LowStockRow is a product at or below the threshold
type LowStockRow struct {
	ProductID         int64  `json:"product_id"`
	ProductName       string `json:"product_name"`
	SKU               string `json:"sku"`
	AvailableQuantity int64  `json:"available_quantity"`
	Threshold         int64  `json:"threshold"`
}

// StockValue is the on-hand valuation of all products
type StockValue struct {
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	ProductCount    int64           `json:"product_count"`
}
