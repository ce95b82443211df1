package handler

import (
	"github.com/gin-gonic/gin"

	appshared "github.com/wms/backend/internal/application/shared"
	tradeapp "github.com/wms/backend/internal/application/trade"
)

// SalesOrderHandler handles customer sales orders
type SalesOrderHandler struct {
	BaseHandler
	orderService *tradeapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(orderService *tradeapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter appshared.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *SalesOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}
	var req tradeapp.UpdateSalesOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
