package catalog

import (
	"context"

	"go.uber.org/zap"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/telemetry"
)

// ProductService handles product-related business operations. Stock
// changes go through the stock ledger inside a transaction.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	txScope      appshared.TransactionScope
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	txScope appshared.TransactionScope,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		txScope:      txScope,
	}
}

// Create creates a product and books its opening stock
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Quantity < 0 {
		return nil, shared.InvalidInputf("Quantity cannot be negative")
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.CategoryID, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	product.LocationID = req.LocationID

	if err := s.checkReferences(ctx, product, 0); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if req.Quantity == 0 {
			return nil
		}
		level, err := appshared.StockLedger(repos).Apply(ctx, product.ID, req.Quantity)
		if err != nil {
			return err
		}
		product.Quantity = level.ProductQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Product with ID %d not found", id)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns one page of products
func (s *ProductService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[ProductResponse], error) {
	domainFilter := filter.ToDomain()

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes a product's descriptive fields. The stock counter is
// left untouched.
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Product with ID %d not found", id)
	}

	if err := product.Update(req.Name, req.SKU, req.CategoryID, req.UnitPrice); err != nil {
		return nil, err
	}
	product.LocationID = req.LocationID

	if err := s.checkReferences(ctx, product, id); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return appshared.NotFound(s.productRepo.Delete(ctx, id), "Product with ID %d not found", id)
}

// AdjustStock moves both stock counters of a product by req.Adjustment
func (s *ProductService) AdjustStock(ctx context.Context, id int64, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "adjust_stock",
		telemetry.SpanAttrProductID, id,
		telemetry.SpanAttrQuantity, req.Adjustment,
	)
	defer span.End()

	var resp *StockAdjustmentResponse
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		level, err := appshared.StockLedger(repos).Apply(ctx, id, req.Adjustment)
		if err != nil {
			return err
		}
		resp = &StockAdjustmentResponse{
			StockLevel: *level,
			Adjustment: req.Adjustment,
			Reason:     req.Reason,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("Stock adjusted",
		zap.Int64("product_id", id),
		zap.Int64("adjustment", req.Adjustment),
		zap.String("reason", req.Reason),
		zap.Int64("quantity", resp.ProductQuantity),
	)
	return resp, nil
}

// checkReferences verifies the category exists and the SKU is free
func (s *ProductService) checkReferences(ctx context.Context, product *catalog.Product, excludeID int64) error {
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *product.CategoryID); err != nil {
			return appshared.NotFound(err, "Category with ID %d not found", *product.CategoryID)
		}
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, product.SKU, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExistsf("Product with SKU '%s' already exists.", product.SKU)
	}
	return nil
}
