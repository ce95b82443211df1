package persistence

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id int64) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row; items are read in the same
// transaction and only change while the order lock is held
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll lists purchase orders, optionally restricted to one status
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter, status trade.ReceiptStatus) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := paginate(r.filtered(ctx, status), filter, OrderSortFields)
	if err := query.Preload("Items", orderedItems).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts purchase orders, optionally restricted to one status
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, _ shared.Filter, status trade.ReceiptStatus) (int64, error) {
	var count int64
	err := r.filtered(ctx, status).Count(&count).Error
	return count, err
}

func (r *GormPurchaseOrderRepository) filtered(ctx context.Context, status trade.ReceiptStatus) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

// FindBySupplier lists every order of a supplier with its items
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID int64) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("id ASC").
		Preload("Items", orderedItems).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts the order and its items in one statement batch
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error)
}

// SaveReceipt writes the received quantities and the derived order status.
// It must run inside the transaction that loaded the order for update.
func (r *GormPurchaseOrderRepository) SaveReceipt(ctx context.Context, order *trade.PurchaseOrder, items []*trade.PurchaseOrderItem) error {
	now := time.Now()
	db := r.db.WithContext(ctx)

	for _, item := range items {
		if err := db.Model(&trade.PurchaseOrderItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"received_quantity": item.ReceivedQuantity,
				"updated_at":        now,
			}).Error; err != nil {
			return err
		}
	}

	return db.Model(&trade.PurchaseOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{"status": order.Status, "updated_at": now}).Error
}

var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
