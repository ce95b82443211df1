package persistence

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDForUpdate selects the product row FOR UPDATE
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := paginate(r.filtered(ctx, filter), filter, ProductSortFields)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	return query
}

// ExistsBySKU checks for another product with the same SKU
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountByCategory counts products referencing the category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if product.ID == 0 {
		return translateError(r.db.WithContext(ctx).Create(product).Error)
	}
	// The stock counter is owned by UpdateQuantity
	return translateError(r.db.WithContext(ctx).Omit("quantity").Save(product).Error)
}

// UpdateQuantity writes only the quantity column
func (r *GormProductRepository) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
