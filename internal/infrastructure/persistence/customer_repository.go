package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := paginate(r.filtered(ctx, filter), filter, PartnerSortFields)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormCustomerRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&partner.Customer{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	return query
}

// ExistsByPhone checks for another customer with the same phone number
func (r *GormCustomerRepository) ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(customer).Error)
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&partner.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
