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

const receivedMessage = "Selected items successfully marked as received."

// PurchaseOrderService handles purchase order creation and receiving
type PurchaseOrderService struct {
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
	orderRepo    trade.PurchaseOrderRepository
	txScope      appshared.TransactionScope
	metrics      *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.PurchaseOrderRepository,
	txScope appshared.TransactionScope,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		txScope:      txScope,
	}
}

// SetBusinessMetrics enables order and receipt counters. A nil value turns
// them off.
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create validates the request and stores a pending order with its items.
// Checks run in a fixed order and stop at the first failure, so the caller
// sees exactly one message naming the offending field or line.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create",
		telemetry.SpanAttrSupplierID, req.SupplierID,
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	order, err := s.build(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, telemetry.OrderTypePurchase, order.TotalCost())
	}
	logger.L(ctx).Info("Purchase order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("supplier_id", order.SupplierID),
		zap.Int("items", len(order.Items)),
	)

	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

func (s *PurchaseOrderService) build(ctx context.Context, req CreatePurchaseOrderRequest) (*trade.PurchaseOrder, error) {
	if req.isBlank() {
		return nil, shared.InvalidInputf("Please enter valid purchase order information before submitting.")
	}
	if req.SupplierID <= 0 {
		return nil, shared.InvalidInputf("Enter a valid Supplier ID (must be a positive number).")
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, appshared.NotFound(err, "Supplier with ID %d does not exist.", req.SupplierID)
	}
	if len(req.Items) == 0 {
		return nil, shared.InvalidInputf("Please enter at least one product item for the purchase order.")
	}

	lines := make([]trade.OrderLine, len(req.Items))
	for i, item := range req.Items {
		index := i + 1
		if item.ProductID <= 0 {
			return nil, shared.InvalidInputf("Item %d: Enter a valid Product ID.", index)
		}
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, appshared.NotFound(err, "Item %d: Product with ID %d not found.", index, item.ProductID)
		}
		line := trade.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		}
		if err := trade.ValidateOrderLine(index, line); err != nil {
			return nil, err
		}
		lines[i] = line
	}

	return trade.NewPurchaseOrder(req.SupplierID, lines)
}

// GetByID retrieves a purchase order with its items
func (s *PurchaseOrderService) GetByID(ctx context.Context, id int64) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, appshared.NotFound(err, "Purchase order %d not found.", id)
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List returns one page of purchase orders, optionally in one status
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) (shared.Paginated[PurchaseOrderResponse], error) {
	var status trade.ReceiptStatus
	if filter.Status != "" {
		parsed, err := trade.ParseReceiptStatus(filter.Status)
		if err != nil {
			return shared.Paginated[PurchaseOrderResponse]{}, err
		}
		status = parsed
	}
	domainFilter := filter.ToDomain()

	orders, err := s.orderRepo.FindAll(ctx, domainFilter, status)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter, status)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}

	items := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Receive books arrivals against an order. The order row is locked for the
// whole receipt and every entry moves stock through the ledger in the same
// transaction, so either all entries apply or none do.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID int64, req ReceiveOrderRequest) (*ReceiveResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "receive",
		telemetry.SpanAttrOrderID, orderID,
		telemetry.SpanAttrItemCount, len(req.ReceivedItems),
	)
	defer span.End()

	var (
		result *ReceiveResult
		units  int64
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		units = 0
		order, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return appshared.NotFound(err, "Purchase order %d not found.", orderID)
		}

		ledger := appshared.StockLedger(repos)
		touched := make([]*trade.PurchaseOrderItem, 0, len(req.ReceivedItems))
		seen := make(map[int64]bool, len(req.ReceivedItems))
		updated := 0

		for _, received := range req.ReceivedItems {
			if received.ReceivedQuantity <= 0 {
				return shared.InvalidInputf("Received quantity must be greater than 0 for product %d.", received.ProductID)
			}
			if _, err := repos.Products().FindByID(ctx, received.ProductID); err != nil {
				return appshared.NotFound(err, "Product with ID %d does not exist.", received.ProductID)
			}

			item, err := order.ReceiveLine(received.ProductID, received.ReceivedQuantity)
			if err != nil {
				return err
			}
			if _, err := ledger.Apply(ctx, received.ProductID, received.ReceivedQuantity); err != nil {
				return err
			}

			if !seen[item.ID] {
				seen[item.ID] = true
				touched = append(touched, item)
			}
			updated++
			units += received.ReceivedQuantity
		}

		if updated == 0 {
			return shared.InvalidInputf("No valid items were updated.")
		}

		order.RefreshStatus()
		if err := repos.PurchaseOrders().SaveReceipt(ctx, order, touched); err != nil {
			return err
		}

		result = &ReceiveResult{
			OrderID:      order.ID,
			Status:       order.Status,
			UpdatedItems: updated,
			Message:      receivedMessage,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordReceipt(ctx, result.Status.String(), units)
	}
	logger.L(ctx).Info("Purchase order received",
		zap.Int64("order_id", result.OrderID),
		zap.String("status", result.Status.String()),
		zap.Int("updated_items", result.UpdatedItems),
	)
	return result, nil
}

// ItemsByStatus lists the order's lines whose derived status matches status
func (s *PurchaseOrderService) ItemsByStatus(ctx context.Context, orderID int64, status string) (*ItemsByStatusResponse, error) {
	selected, err := trade.ParseReceiptStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, appshared.NotFound(err, "Purchase order %d not found.", orderID)
	}

	matching := order.ItemsByStatus(selected)
	resp := &ItemsByStatusResponse{
		OrderID:        order.ID,
		SelectedStatus: selected,
		TotalItems:     len(matching),
	}
	if len(matching) == 0 {
		resp.Message = "No items found for status '" + selected.String() + "'."
		return resp, nil
	}

	resp.Items = make([]ItemStatusResponse, len(matching))
	for i := range matching {
		item := &matching[i]
		resp.Items[i] = ItemStatusResponse{
			ProductID:        item.ProductID,
			OrderedQuantity:  item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			Status:           item.Status(),
		}
	}
	return resp, nil
}
