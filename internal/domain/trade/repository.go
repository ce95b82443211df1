package trade

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id int64) (*PurchaseOrder, error)

	// FindByIDForUpdate loads the order with its items and locks the order
	// row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*PurchaseOrder, error)

	FindAll(ctx context.Context, filter shared.Filter, status ReceiptStatus) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter, status ReceiptStatus) (int64, error)
	FindBySupplier(ctx context.Context, supplierID int64) ([]PurchaseOrder, error)

	// Create inserts the order and all of its items
	Create(ctx context.Context, order *PurchaseOrder) error

	// SaveReceipt persists the received quantities of items and the order status
	SaveReceipt(ctx context.Context, order *PurchaseOrder, items []*PurchaseOrderItem) error
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	FindByID(ctx context.Context, id int64) (*SalesOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, order *SalesOrder) error
	UpdateStatus(ctx context.Context, order *SalesOrder) error
}
