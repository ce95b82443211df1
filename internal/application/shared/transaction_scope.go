package shared

import (
	"context"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work in one database transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories that all share the
// surrounding transaction. Row locks taken through them are held until the
// scope ends.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Inventory() inventory.InventoryRepository
	Suppliers() partner.SupplierRepository
	PurchaseOrders() trade.PurchaseOrderRepository
}

// StockLedger returns the stock ledger bound to the transaction
func StockLedger(repos TransactionalRepositories) *inventory.StockLedger {
	return inventory.NewStockLedger(repos.Products(), repos.Inventory())
}

// NoOpTransactionScope runs fn against plain repositories without a
// transaction. Used in tests with in-memory fakes.
type NoOpTransactionScope struct {
	products       catalog.ProductRepository
	inventory      inventory.InventoryRepository
	suppliers      partner.SupplierRepository
	purchaseOrders trade.PurchaseOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	inventory inventory.InventoryRepository,
	suppliers partner.SupplierRepository,
	purchaseOrders trade.PurchaseOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products:       products,
		inventory:      inventory,
		suppliers:      suppliers,
		purchaseOrders: purchaseOrders,
	}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

func (s *NoOpTransactionScope) Inventory() inventory.InventoryRepository {
	return s.inventory
}

func (s *NoOpTransactionScope) Suppliers() partner.SupplierRepository {
	return s.suppliers
}

func (s *NoOpTransactionScope) PurchaseOrders() trade.PurchaseOrderRepository {
	return s.purchaseOrders
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
