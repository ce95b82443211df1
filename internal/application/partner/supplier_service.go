package partner

import (
	"context"

	"github.com/shopspring/decimal"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/report"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/trade"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	orderRepo    trade.PurchaseOrderRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, orderRepo trade.PurchaseOrderRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
	}
}

// Create validates and stores a supplier with a unique name
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Contact, req.Address)
	if err != nil {
		return nil, err
	}

	exists, err := s.supplierRepo.ExistsByName(ctx, supplier.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExistsf("Supplier with name '%s' already exists.", supplier.Name)
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id int64) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Supplier with ID %d does not exist.", id)
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns one page of suppliers
func (s *SupplierService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[SupplierResponse], error) {
	domainFilter := filter.ToDomain()

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}

	items := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		items[i] = ToSupplierResponse(&suppliers[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// OrderSummary totals outstanding and received goods across all of the
// supplier's purchase orders
func (s *SupplierService) OrderSummary(ctx context.Context, supplierID int64) (*report.SupplierOrderSummary, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, appshared.NotFound(err, "Supplier with ID %d does not exist.", supplierID)
	}

	orders, err := s.orderRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	summary := &report.SupplierOrderSummary{
		SupplierID:         supplier.ID,
		SupplierName:       supplier.Name,
		TotalPendingValue:  decimal.Zero,
		TotalReceivedValue: decimal.Zero,
	}
	for _, order := range orders {
		for i := range order.Items {
			item := &order.Items[i]
			summary.TotalPendingQuantity += item.RemainingQuantity()
			summary.TotalReceivedQuantity += item.ReceivedQuantity
			summary.TotalPendingValue = summary.TotalPendingValue.Add(item.PendingValue())
			summary.TotalReceivedValue = summary.TotalReceivedValue.Add(item.ReceivedValue())
		}
	}
	summary.TotalPendingValue = summary.TotalPendingValue.Round(2)
	summary.TotalReceivedValue = summary.TotalReceivedValue.Round(2)
	summary.GrandTotalValue = summary.TotalPendingValue.Add(summary.TotalReceivedValue)
	return summary, nil
}
