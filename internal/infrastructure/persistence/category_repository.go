package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := paginate(r.filtered(ctx, filter), filter, CategorySortFields)
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormCategoryRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.Category{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", searchPattern(filter.Search))
	}
	return query
}

// ExistsByName checks for another category with the same name, ignoring case
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Category{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
