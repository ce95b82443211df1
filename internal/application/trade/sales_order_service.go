package trade

import (
	"context"

	"go.uber.org/zap"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/trade"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/telemetry"
)

// SalesOrderService handles customer orders. Orders record what was sold
// and at which price; they do not move stock.
type SalesOrderService struct {
	orderRepo    trade.SalesOrderRepository
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	metrics      *telemetry.BusinessMetrics
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// SetBusinessMetrics enables the order counters. A nil value turns them off.
func (s *SalesOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create places a pending order, capturing each product's current unit price
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	order, err := trade.NewSalesOrder(req.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return nil, appshared.NotFound(err, "Customer with ID %d not found", req.CustomerID)
	}
	if len(req.Items) == 0 {
		return nil, shared.InvalidInputf("Please enter at least one product item for the order.")
	}

	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, shared.InvalidInputf("Item %d: Enter a valid Product ID.", i+1)
		}
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, appshared.NotFound(err, "Item %d: Product with ID %d not found.", i+1, item.ProductID)
		}
		if err := order.AddItem(product.ID, item.Quantity, product.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, telemetry.OrderTypeSales, order.TotalAmount)
	}
	logger.L(ctx).Info("Sales order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves a sales order with its items
func (s *SalesOrderService) GetByID(ctx context.Context, id int64) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Order %d not found.", id)
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// List returns one page of sales orders
func (s *SalesOrderService) List(ctx context.Context, filter appshared.ListFilter) (shared.Paginated[SalesOrderResponse], error) {
	domainFilter := filter.ToDomain()

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[SalesOrderResponse]{}, err
	}

	items := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToSalesOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateStatus advances the order along Pending -> Shipped -> Delivered,
// or cancels a pending order
func (s *SalesOrderService) UpdateStatus(ctx context.Context, id int64, req UpdateSalesOrderStatusRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Order %d not found.", id)
	}

	from := order.Status
	if err := order.TransitionTo(trade.SalesOrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Sales order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
	)

	resp := ToSalesOrderResponse(order)
	return &resp, nil
}
