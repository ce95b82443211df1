package trade

import (
	"time"

	"github.com/shopspring/decimal"

	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/domain/trade"
)

// PurchaseOrderItemRequest is one line of a purchase order create request.
// Field rules are checked by the service so the messages carry the line number.
type PurchaseOrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID int64                      `json:"supplier_id"`
	Items      []PurchaseOrderItemRequest `json:"items"`
}

// isBlank reports whether the request is the untouched form a client
// submits by default: no supplier and a single all-zero line
func (r CreatePurchaseOrderRequest) isBlank() bool {
	if r.SupplierID != 0 || len(r.Items) != 1 {
		return false
	}
	item := r.Items[0]
	return item.ProductID == 0 && item.Quantity == 0 && item.UnitCost.IsZero()
}

// ReceivedItemRequest books an arrival for one product of an order
type ReceivedItemRequest struct {
	ProductID        int64 `json:"product_id"`
	ReceivedQuantity int64 `json:"received_quantity"`
}

// ReceiveOrderRequest is the body of the purchase tracking endpoint
type ReceiveOrderRequest struct {
	ReceivedItems []ReceivedItemRequest `json:"received_items"`
}

// PurchaseOrderListFilter adds the receipt status filter to the list options
type PurchaseOrderListFilter struct {
	appshared.ListFilter
	Status string `form:"status" binding:"omitempty,oneof=pending partial received"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID               int64               `json:"id"`
	ProductID        int64               `json:"product_id"`
	Quantity         int64               `json:"quantity"`
	UnitCost         decimal.Decimal     `json:"unit_cost"`
	ReceivedQuantity int64               `json:"received_quantity"`
	Status           trade.ReceiptStatus `json:"status"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID         int64                       `json:"id"`
	SupplierID int64                       `json:"supplier_id"`
	Status     trade.ReceiptStatus         `json:"status"`
	TotalCost  decimal.Decimal             `json:"total_cost"`
	Items      []PurchaseOrderItemResponse `json:"items"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = PurchaseOrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitCost:         item.UnitCost,
			ReceivedQuantity: item.ReceivedQuantity,
			Status:           item.Status(),
		}
	}
	return PurchaseOrderResponse{
		ID:         o.ID,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		TotalCost:  o.TotalCost(),
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// ReceiveResult is returned after a successful receipt
type ReceiveResult struct {
	OrderID      int64               `json:"order_id"`
	Status       trade.ReceiptStatus `json:"status"`
	UpdatedItems int                 `json:"updated_items"`
	Message      string              `json:"message"`
}

// ItemStatusResponse is a purchase order line seen through its receipt status
type ItemStatusResponse struct {
	ProductID        int64               `json:"product_id"`
	OrderedQuantity  int64               `json:"ordered_quantity"`
	ReceivedQuantity int64               `json:"received_quantity"`
	UnitCost         decimal.Decimal     `json:"unit_cost"`
	Status           trade.ReceiptStatus `json:"status"`
}

// ItemsByStatusResponse lists the lines of an order in one receipt status.
// Message is set only when no line matches.
type ItemsByStatusResponse struct {
	OrderID        int64                `json:"order_id"`
	SelectedStatus trade.ReceiptStatus  `json:"selected_status"`
	TotalItems     int                  `json:"total_items"`
	Items          []ItemStatusResponse `json:"items,omitempty"`
	Message        string               `json:"message,omitempty"`
}

// SalesOrderItemRequest is one line of a sales order. The price is taken
// from the product at order time.
type SalesOrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreateSalesOrderRequest represents a request to place a sales order
type CreateSalesOrderRequest struct {
	CustomerID int64                   `json:"customer_id"`
	Items      []SalesOrderItemRequest `json:"items"`
}

// UpdateSalesOrderStatusRequest moves a sales order through its lifecycle
type UpdateSalesOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SalesOrderItemResponse represents a sales order line in API responses
type SalesOrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID          int64                    `json:"id"`
	CustomerID  int64                    `json:"customer_id"`
	Status      trade.SalesOrderStatus   `json:"status"`
	TotalAmount decimal.Decimal          `json:"total_amount"`
	Items       []SalesOrderItemResponse `json:"items"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = SalesOrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Amount:    item.Amount(),
		}
	}
	return SalesOrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
