package inventory

import (
	"context"
	"errors"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// InventoryService exposes read access to stock rows. Writes go through
// the stock ledger in the product and purchase order services.
type InventoryService struct {
	inventoryRepo inventory.InventoryRepository
	productRepo   catalog.ProductRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(inventoryRepo inventory.InventoryRepository, productRepo catalog.ProductRepository) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

// List returns one page of inventory rows with their product names
func (s *InventoryService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[inventory.StockView], error) {
	domainFilter := filter.ToDomain()

	rows, err := s.inventoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[inventory.StockView]{}, err
	}
	total, err := s.inventoryRepo.Count(ctx)
	if err != nil {
		return shared.Paginated[inventory.StockView]{}, err
	}
	if rows == nil {
		rows = []inventory.StockView{}
	}
	return shared.NewPaginated(rows, total, domainFilter.Page, domainFilter.PageSize), nil
}

// GetByProduct returns the resolved on-hand quantity of a product
func (s *InventoryService) GetByProduct(ctx context.Context, productID int64) (*StockResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, appshared.NotFound(err, "Product with ID %d not found", productID)
	}

	inv, err := s.inventoryRepo.FindByProduct(ctx, productID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		inv = nil
	case err != nil:
		return nil, err
	}

	resp := &StockResponse{
		ProductID:   product.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Quantity:    inventory.ResolveQuantity(inv, product.Quantity),
		Tracked:     inv != nil,
	}
	if inv != nil {
		lastUpdated := inv.LastUpdated
		resp.LastUpdated = &lastUpdated
	}
	return resp, nil
}
