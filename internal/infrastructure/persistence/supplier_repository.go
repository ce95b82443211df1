package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

// FindAll finds all suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := paginate(r.filtered(ctx, filter), filter, PartnerSortFields)
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Count counts suppliers matching the filter
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormSupplierRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", searchPattern(filter.Search))
	}
	return query
}

// ExistsByName checks for a supplier with the same name, ignoring case
func (r *GormSupplierRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&partner.Supplier{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return translateError(r.db.WithContext(ctx).Save(supplier).Error)
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
