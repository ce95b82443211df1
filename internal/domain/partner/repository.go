package partner

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, supplier *Supplier) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}
