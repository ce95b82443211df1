package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/wms/backend/internal/application/report"
	"github.com/wms/backend/internal/infrastructure/export"
)

// ReportHandler serves the read-only reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// InventorySummary handles GET /reports/inventory-summary
func (h *ReportHandler) InventorySummary(c *gin.Context) {
	summary, err := h.reportService.InventorySummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ExportInventorySummary handles GET /reports/inventory-summary/export and
// answers with an xlsx attachment
func (h *ReportHandler) ExportInventorySummary(c *gin.Context) {
	summary, err := h.reportService.InventorySummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInventorySummary(&buf, summary); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("inventory-summary-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

// LowStock handles GET /reports/low-stock?threshold=
func (h *ReportHandler) LowStock(c *gin.Context) {
	var query reportapp.LowStockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	rows, err := h.reportService.LowStock(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// SalesSummary handles GET /reports/sales-summary?limit=
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	var query reportapp.SalesSummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// PurchaseSummary handles GET /reports/purchase-summary?only_received=&limit=
func (h *ReportHandler) PurchaseSummary(c *gin.Context) {
	var query reportapp.PurchaseSummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.reportService.PurchaseSummary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// TotalStockValue handles GET /reports/total-stock-value
func (h *ReportHandler) TotalStockValue(c *gin.Context) {
	value, err := h.reportService.TotalStockValue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, value)
}
