package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByProduct finds the inventory row of a product
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID int64) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

// FindByProductForUpdate selects the inventory row FOR UPDATE
func (r *GormInventoryRepository) FindByProductForUpdate(ctx context.Context, productID int64) (*inventory.Inventory, error) {
	var inv inventory.Inventory
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "product_id = ?", productID).Error; err != nil {
		return nil, translateError(err)
	}
	return &inv, nil
}

// FindAll lists inventory rows joined with their product
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockView, error) {
	var rows []inventory.StockView
	query := r.db.WithContext(ctx).
		Table("inventory AS i").
		Select("i.id, i.product_id, p.name AS product_name, p.sku, i.quantity, i.last_updated").
		Joins("JOIN products p ON p.id = i.product_id").
		Order("i.id ASC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count counts inventory rows
func (r *GormInventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.Inventory{}).Count(&count).Error
	return count, err
}

// Save inserts a new row or updates an existing one
func (r *GormInventoryRepository) Save(ctx context.Context, inv *inventory.Inventory) error {
	return translateError(r.db.WithContext(ctx).Save(inv).Error)
}

var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
