package persistence

import (
	"context"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Inventory() inventory.InventoryRepository {
	return NewGormInventoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

var (
	_ appshared.TransactionScope          = (*GormTransactionScope)(nil)
	_ appshared.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
