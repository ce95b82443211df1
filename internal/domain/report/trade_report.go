package report

import (
	"github.com/shopspring/decimal"
)

// SalesSummaryRow is realised sales of one product
type SalesSummaryRow struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesSummary is the ranked sales rows with their total revenue
type SalesSummary struct {
	Rows         []SalesSummaryRow `json:"rows"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
}

// NewSalesSummary totals the revenue of the rows
func NewSalesSummary(rows []SalesSummaryRow) SalesSummary {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalRevenue)
	}
	if rows == nil {
		rows = []SalesSummaryRow{}
	}
	return SalesSummary{Rows: rows, TotalRevenue: total.Round(2)}
}

// PurchaseSummaryRow is purchasing activity with one supplier
type PurchaseSummaryRow struct {
	SupplierID            int64           `json:"supplier_id"`
	SupplierName          string          `json:"supplier_name"`
	TotalOrderedQuantity  int64           `json:"total_ordered_quantity"`
	TotalReceivedQuantity int64           `json:"total_received_quantity"`
	TotalReceivedValue    decimal.Decimal `json:"total_received_value"`
	PurchaseOrdersCount   int64           `json:"purchase_orders_count"`
}

// StatusCount is the number of purchase orders in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PurchaseSummary is per-supplier purchasing for one order status
type PurchaseSummary struct {
	Status          string               `json:"status"`
	StatusSummary   []StatusCount        `json:"status_summary"`
	SupplierSummary []PurchaseSummaryRow `json:"supplier_summary"`
}

// SupplierOrderSummary totals outstanding and received goods for a supplier
type SupplierOrderSummary struct {
	SupplierID            int64           `json:"supplier_id"`
	SupplierName          string          `json:"supplier_name"`
	TotalPendingQuantity  int64           `json:"total_pending_quantity"`
	TotalReceivedQuantity int64           `json:"total_received_quantity"`
	TotalPendingValue     decimal.Decimal `json:"total_pending_value"`
	TotalReceivedValue    decimal.Decimal `json:"total_received_value"`
	GrandTotalValue       decimal.Decimal `json:"grand_total_value"`
}
