package inventory

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// InventoryRepository defines the interface for inventory row persistence
type InventoryRepository interface {
	// FindByProduct returns shared.ErrNotFound when the product has no row
	FindByProduct(ctx context.Context, productID int64) (*Inventory, error)

	// FindByProductForUpdate is FindByProduct holding a row lock
	FindByProductForUpdate(ctx context.Context, productID int64) (*Inventory, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]StockView, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, inv *Inventory) error
}

// StockView is an inventory row joined with its product name
type StockView struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Quantity    int64     `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}
