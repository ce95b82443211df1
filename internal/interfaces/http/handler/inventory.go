package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	appshared "github.com/wms/backend/internal/application/shared"
)

// InventoryHandler exposes stock levels
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	var filter appshared.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByProduct handles GET /inventory/:product_id
func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	id, ok := h.pathID(c, "product_id", "product")
	if !ok {
		return
	}

	stock, err := h.inventoryService.GetByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
