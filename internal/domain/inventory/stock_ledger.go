package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// StockLevel is the state of both stock counters after a movement
type StockLevel struct {
	ProductID         int64     `json:"product_id"`
	ProductQuantity   int64     `json:"product_quantity"`
	InventoryQuantity int64     `json:"inventory_quantity"`
	LastUpdated       time.Time `json:"last_updated"`
}

// StockLedger is the single writer of on-hand stock. Product.Quantity and
// the product's Inventory row only change through Apply, which moves both
// counters by the same delta.
//
// The repositories must be bound to the caller's transaction so that the
// row locks taken here last until commit.
type StockLedger struct {
	products  catalog.ProductRepository
	inventory InventoryRepository
}

// NewStockLedger creates a ledger over transaction-scoped repositories
func NewStockLedger(products catalog.ProductRepository, inventory InventoryRepository) *StockLedger {
	return &StockLedger{products: products, inventory: inventory}
}

// Apply moves the product's stock by delta. A missing inventory row is
// opened at the product's current quantity before the delta is applied.
// If either counter would go negative nothing is written.
func (l *StockLedger) Apply(ctx context.Context, productID, delta int64) (*StockLevel, error) {
	if delta == 0 {
		return nil, shared.InvalidInputf("Adjustment cannot be 0")
	}

	product, err := l.products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundf("Product with ID %d does not exist.", productID)
		}
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}

	inv, err := l.inventory.FindByProductForUpdate(ctx, productID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		inv, err = NewInventory(productID, product.Quantity)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load inventory for product %d: %w", productID, err)
	}

	newProductQuantity := product.Quantity + delta
	if newProductQuantity < 0 {
		return nil, shared.ErrInsufficientStock
	}
	if err := inv.Apply(delta); err != nil {
		return nil, err
	}

	if err := l.products.UpdateQuantity(ctx, productID, newProductQuantity); err != nil {
		return nil, fmt.Errorf("update product %d quantity: %w", productID, err)
	}
	if err := l.inventory.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save inventory for product %d: %w", productID, err)
	}

	return &StockLevel{
		ProductID:         productID,
		ProductQuantity:   newProductQuantity,
		InventoryQuantity: inv.Quantity,
		LastUpdated:       inv.LastUpdated,
	}, nil
}
