package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateProductRequest represents a request to create a product.
// Quantity is the opening stock and is booked through the stock ledger.
type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required,max=200"`
	SKU        string          `json:"sku" binding:"required,max=50"`
	CategoryID *int64          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity" binding:"min=0"`
	LocationID *int64          `json:"location_id"`
}

// UpdateProductRequest represents a request to update a product's details.
// Stock is changed through AdjustStockRequest only.
type UpdateProductRequest struct {
	Name       string          `json:"name" binding:"required,max=200"`
	SKU        string          `json:"sku" binding:"required,max=50"`
	CategoryID *int64          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LocationID *int64          `json:"location_id"`
}

// AdjustStockRequest moves a product's stock by Adjustment, which may be
// negative for damage or loss
type AdjustStockRequest struct {
	Adjustment int64  `json:"adjustment"`
	Reason     string `json:"reason" binding:"max=255"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	CategoryID *int64          `json:"category_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	LocationID *int64          `json:"location_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		CategoryID: p.CategoryID,
		UnitPrice:  p.UnitPrice,
		Quantity:   p.Quantity,
		LocationID: p.LocationID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// StockAdjustmentResponse reports both stock counters after an adjustment
type StockAdjustmentResponse struct {
	inventory.StockLevel
	Adjustment int64  `json:"adjustment"`
	Reason     string `json:"reason,omitempty"`
}
