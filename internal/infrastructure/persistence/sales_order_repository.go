package persistence

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id int64) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindAll lists sales orders
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	query := paginate(r.db.WithContext(ctx).Model(&trade.SalesOrder{}), filter, OrderSortFields)
	if err := query.Preload("Items", orderedItems).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts sales orders
func (r *GormSalesOrderRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.SalesOrder{}).Count(&count).Error
	return count, err
}

// Create inserts the order and its items
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error)
}

// UpdateStatus writes the order status only
func (r *GormSalesOrderRepository) UpdateStatus(ctx context.Context, order *trade.SalesOrder) error {
	result := r.db.WithContext(ctx).Model(&trade.SalesOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{"status": order.Status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
