package report

import (
	"context"

	"github.com/wms/backend/internal/domain/report"
	"github.com/wms/backend/internal/domain/trade"
	"github.com/wms/backend/internal/infrastructure/telemetry"
)

// ReportService builds read-only reports from current stock and order
// state. Query failures are returned to the caller; an empty store yields
// empty rows and zero totals.
type ReportService struct {
	repo     report.ReportRepository
	defaults Defaults
	metrics  *telemetry.BusinessMetrics
}

// NewReportService creates a new ReportService. Zero defaults fall back to
// the domain defaults.
func NewReportService(repo report.ReportRepository, defaults Defaults) *ReportService {
	if defaults.LowStockThreshold == 0 {
		defaults.LowStockThreshold = report.MinLowStockThreshold
	}
	if defaults.Limit == 0 {
		defaults.Limit = report.DefaultLimit
	}
	return &ReportService{repo: repo, defaults: defaults}
}

// InventorySummary values every product at its resolved quantity
func (s *ReportService) InventorySummary(ctx context.Context) (report.InventorySummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "inventory_summary")
	defer span.End()

	rows, err := s.repo.InventoryRows(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.InventorySummary{}, err
	}
	summary := report.NewInventorySummary(rows)
	telemetry.SetAttributes(span, telemetry.SpanAttrItemCount, len(summary.Rows))
	return summary, nil
}

// SetBusinessMetrics enables the low-stock gauge. A nil value turns it off.
func (s *ReportService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// LowStock lists products whose resolved quantity is at or below the threshold
func (s *ReportService) LowStock(ctx context.Context, query LowStockQuery) ([]report.LowStockRow, error) {
	threshold := s.defaults.LowStockThreshold
	if query.Threshold != nil {
		threshold = *query.Threshold
	}
	if err := report.ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "low_stock", "threshold", threshold)
	defer span.End()

	rows, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if rows == nil {
		rows = []report.LowStockRow{}
	}
	if s.metrics != nil {
		s.metrics.RecordLowStockCount(ctx, int64(len(rows)))
	}
	return rows, nil
}

// SalesSummary ranks products by revenue over shipped and delivered orders
func (s *ReportService) SalesSummary(ctx context.Context, query SalesSummaryQuery) (report.SalesSummary, error) {
	limit, err := s.limit(query.Limit)
	if err != nil {
		return report.SalesSummary{}, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "sales_summary", "limit", limit)
	defer span.End()

	statuses := make([]string, len(trade.RevenueStatuses))
	for i, status := range trade.RevenueStatuses {
		statuses[i] = string(status)
	}
	rows, err := s.repo.SalesByProduct(ctx, statuses, limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.SalesSummary{}, err
	}
	return report.NewSalesSummary(rows), nil
}

// PurchaseSummary ranks suppliers by received value over received orders,
// or over pending orders when OnlyReceived is false
func (s *ReportService) PurchaseSummary(ctx context.Context, query PurchaseSummaryQuery) (report.PurchaseSummary, error) {
	limit, err := s.limit(query.Limit)
	if err != nil {
		return report.PurchaseSummary{}, err
	}
	status := trade.ReceiptStatusReceived
	if query.OnlyReceived != nil && !*query.OnlyReceived {
		status = trade.ReceiptStatusPending
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "purchase_summary",
		"status", status.String(),
		"limit", limit,
	)
	defer span.End()

	counts, err := s.repo.PurchaseOrderStatusCounts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.PurchaseSummary{}, err
	}
	rows, err := s.repo.PurchasesBySupplier(ctx, status.String(), limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.PurchaseSummary{}, err
	}

	if counts == nil {
		counts = []report.StatusCount{}
	}
	if rows == nil {
		rows = []report.PurchaseSummaryRow{}
	}
	return report.PurchaseSummary{
		Status:          status.String(),
		StatusSummary:   counts,
		SupplierSummary: rows,
	}, nil
}

// TotalStockValue returns the on-hand valuation, zero for an empty catalog
func (s *ReportService) TotalStockValue(ctx context.Context) (report.StockValue, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "total_stock_value")
	defer span.End()

	total, count, err := s.repo.StockValue(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.StockValue{}, err
	}
	return report.StockValue{TotalStockValue: total.Round(2), ProductCount: count}, nil
}

func (s *ReportService) limit(requested *int) (int, error) {
	limit := s.defaults.Limit
	if requested != nil {
		limit = *requested
	}
	if err := report.ValidateLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}
