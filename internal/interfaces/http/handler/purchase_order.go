package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/wms/backend/internal/application/trade"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler handles purchase order creation and receiving
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// Create handles POST /purchase-orders. Answers 200 with the order and its
// items; validation stops at the first failing field.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
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

// List handles GET /purchase-orders?status=
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
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

// Receive handles PUT /purchase-orders/:id/tracking
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}
	var req tradeapp.ReceiveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if len(req.ReceivedItems) == 0 {
		h.Error(c, dto.ErrCodeInvalidInput, "No items provided to mark as received.")
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ItemsByStatus handles GET /purchase-orders/:id/items?status=
func (h *PurchaseOrderHandler) ItemsByStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id", "order")
	if !ok {
		return
	}

	resp, err := h.orderService.ItemsByStatus(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
