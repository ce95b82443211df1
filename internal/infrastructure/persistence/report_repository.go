package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/report"
	"gorm.io/gorm"
)

// resolvedQuantity is the on-hand quantity of product p: its inventory row
// when one exists, else the product counter
const resolvedQuantity = "COALESCE(i.quantity, p.quantity)"

// GormReportRepository implements ReportRepository with SQL aggregation
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// InventoryRows returns the stock position of every product with its
// cumulative purchase-order quantities
func (r *GormReportRepository) InventoryRows(ctx context.Context) ([]report.InventorySummaryRow, error) {
	var rows []report.InventorySummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       p.name AS product_name,
		       `+resolvedQuantity+` AS available_quantity,
		       p.unit_price AS unit_price,
		       COALESCE(po.ordered, 0) AS total_ordered_quantity,
		       COALESCE(po.received, 0) AS total_received_quantity
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id
		LEFT JOIN (
		    SELECT product_id, SUM(quantity) AS ordered, SUM(received_quantity) AS received
		    FROM purchase_order_items
		    GROUP BY product_id
		) po ON po.product_id = p.id
		ORDER BY p.id ASC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("inventory summary query: %w", err)
	}
	return rows, nil
}

// LowStock returns products at or below threshold, lowest first
func (r *GormReportRepository) LowStock(ctx context.Context, threshold int64) ([]report.LowStockRow, error) {
	var rows []report.LowStockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       p.name AS product_name,
		       p.sku AS sku,
		       `+resolvedQuantity+` AS available_quantity
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id
		WHERE `+resolvedQuantity+` <= ?
		ORDER BY available_quantity ASC, p.id ASC`, threshold).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("low stock query: %w", err)
	}
	for i := range rows {
		rows[i].Threshold = threshold
	}
	return rows, nil
}

// SalesByProduct ranks products by revenue over orders in the given statuses
func (r *GormReportRepository) SalesByProduct(ctx context.Context, statuses []string, limit int) ([]report.SalesSummaryRow, error) {
	var rows []report.SalesSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       p.name AS product_name,
		       COALESCE(SUM(oi.quantity), 0) AS total_sold,
		       COALESCE(SUM(oi.quantity * oi.price), 0) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status IN ?
		GROUP BY p.id, p.name
		ORDER BY total_revenue DESC, p.id ASC
		LIMIT ?`, statuses, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales summary query: %w", err)
	}
	return rows, nil
}

// PurchasesBySupplier ranks suppliers by received value over orders in status
func (r *GormReportRepository) PurchasesBySupplier(ctx context.Context, status string, limit int) ([]report.PurchaseSummaryRow, error) {
	var rows []report.PurchaseSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id AS supplier_id,
		       s.name AS supplier_name,
		       COALESCE(SUM(poi.quantity), 0) AS total_ordered_quantity,
		       COALESCE(SUM(poi.received_quantity), 0) AS total_received_quantity,
		       COALESCE(SUM(poi.received_quantity * poi.unit_cost), 0) AS total_received_value,
		       COUNT(DISTINCT po.id) AS purchase_orders_count
		FROM purchase_orders po
		JOIN suppliers s ON s.id = po.supplier_id
		JOIN purchase_order_items poi ON poi.order_id = po.id
		WHERE po.status = ?
		GROUP BY s.id, s.name
		ORDER BY total_received_value DESC, s.id ASC
		LIMIT ?`, status, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("purchase summary query: %w", err)
	}
	return rows, nil
}

// PurchaseOrderStatusCounts counts purchase orders per status
func (r *GormReportRepository) PurchaseOrderStatusCounts(ctx context.Context) ([]report.StatusCount, error) {
	var rows []report.StatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM purchase_orders
		GROUP BY status
		ORDER BY status ASC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("purchase status query: %w", err)
	}
	return rows, nil
}

// StockValue sums resolved quantity times unit price over all products
func (r *GormReportRepository) StockValue(ctx context.Context) (decimal.Decimal, int64, error) {
	var result struct {
		TotalValue   decimal.Decimal
		ProductCount int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(` + resolvedQuantity + ` * p.unit_price), 0) AS total_value,
		       COUNT(p.id) AS product_count
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id`).Scan(&result).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("stock value query: %w", err)
	}
	return result.TotalValue.Round(2), result.ProductCount, nil
}

var _ report.ReportRepository = (*GormReportRepository)(nil)
