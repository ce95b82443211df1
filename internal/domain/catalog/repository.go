package catalog

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks name uniqueness case-insensitively, ignoring excludeID
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDForUpdate loads the product and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID int64) (bool, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)

	Save(ctx context.Context, product *Product) error

	// UpdateQuantity writes the on-hand counter only
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error

	Delete(ctx context.Context, id int64) error
}
