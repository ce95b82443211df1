package trade

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// ReceiptStatus classifies how much of an order or line has arrived
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusPartial  ReceiptStatus = "partial"
	ReceiptStatusReceived ReceiptStatus = "received"
)

// IsValid checks if the status is one of the known values
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusPartial, ReceiptStatusReceived:
		return true
	}
	return false
}

// String returns the string representation
func (s ReceiptStatus) String() string {
	return string(s)
}

// ParseReceiptStatus validates a caller-supplied status filter
func ParseReceiptStatus(s string) (ReceiptStatus, error) {
	status := ReceiptStatus(s)
	if !status.IsValid() {
		return "", shared.InvalidInputf("Status must be one of pending, partial, received.")
	}
	return status, nil
}

// PurchaseOrderItem is one product line of a purchase order.
// Invariant: 0 <= ReceivedQuantity <= Quantity.
type PurchaseOrderItem struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	OrderID          int64           `gorm:"not null;index"`
	ProductID        int64           `gorm:"not null;index"`
	Quantity         int64           `gorm:"not null"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() int64 {
	return i.Quantity - i.ReceivedQuantity
}

// IsFullyReceived returns true if every ordered unit has arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// Status derives the line's receipt status
func (i *PurchaseOrderItem) Status() ReceiptStatus {
	switch {
	case i.ReceivedQuantity == i.Quantity:
		return ReceiptStatusReceived
	case i.ReceivedQuantity > 0:
		return ReceiptStatusPartial
	default:
		return ReceiptStatusPending
	}
}

// ReceivedValue returns received quantity multiplied by unit cost
func (i *PurchaseOrderItem) ReceivedValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.ReceivedQuantity))
}

// PendingValue returns outstanding quantity multiplied by unit cost
func (i *PurchaseOrderItem) PendingValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(i.RemainingQuantity()))
}

// AddReceivedQuantity books an arrival against the line
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.InvalidInputf("Received quantity must be greater than 0 for product %d.", i.ProductID)
	}
	if i.ReceivedQuantity+quantity > i.Quantity {
		return shared.InvalidInputf("Received quantity cannot exceed ordered quantity for product %d.", i.ProductID)
	}

	i.ReceivedQuantity += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// PurchaseOrder is the aggregate root for supplier purchases.
// Status is derived from the items and never set directly after creation.
type PurchaseOrder struct {
	ID         int64               `gorm:"primaryKey;autoIncrement"`
	SupplierID int64               `gorm:"not null;index"`
	Status     ReceiptStatus       `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time           `gorm:"not null"`
	UpdatedAt  time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// OrderLine is the input for one purchase order item
type OrderLine struct {
	ProductID int64
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ValidateOrderLine checks a line's own fields. index is 1-based and is
// included in the message so callers can locate the offending line.
// Product existence is checked separately by the caller.
// The cost is checked at the stored precision of 2 decimal places.
func ValidateOrderLine(index int, line OrderLine) error {
	if line.Quantity <= 0 {
		return shared.InvalidInputf("Item %d: Quantity must be greater than 0.", index)
	}
	if !line.UnitCost.Round(2).IsPositive() {
		return shared.InvalidInputf("Item %d: Unit cost must be greater than 0.", index)
	}
	return nil
}

// NewPurchaseOrder creates a pending order with one item per line.
// Lines must already have passed ValidateOrderLine.
func NewPurchaseOrder(supplierID int64, lines []OrderLine) (*PurchaseOrder, error) {
	if supplierID <= 0 {
		return nil, shared.InvalidInputf("Enter a valid Supplier ID (must be a positive number).")
	}
	if len(lines) == 0 {
		return nil, shared.InvalidInputf("Please enter at least one product item for the purchase order.")
	}

	now := time.Now()
	order := &PurchaseOrder{
		SupplierID: supplierID,
		Status:     ReceiptStatusPending,
		Items:      make([]PurchaseOrderItem, 0, len(lines)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, line := range lines {
		if err := ValidateOrderLine(i+1, line); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, PurchaseOrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost.Round(2),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return order, nil
}

// GetItemByProduct returns the first line for the product, or nil
func (o *PurchaseOrder) GetItemByProduct(productID int64) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ReceiveLine books quantity against the order's line for productID and
// returns the updated line. The order status is not refreshed; call
// RefreshStatus once all lines of a receipt are applied.
func (o *PurchaseOrder) ReceiveLine(productID, quantity int64) (*PurchaseOrderItem, error) {
	if quantity <= 0 {
		return nil, shared.InvalidInputf("Received quantity must be greater than 0 for product %d.", productID)
	}

	item := o.GetItemByProduct(productID)
	if item == nil {
		return nil, shared.NotFoundf("Product %d is not part of this purchase order.", productID)
	}
	if err := item.AddReceivedQuantity(quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// RefreshStatus recomputes the status from the items
func (o *PurchaseOrder) RefreshStatus() ReceiptStatus {
	o.Status = DeriveStatus(o.Items)
	o.UpdatedAt = time.Now()
	return o.Status
}

// DeriveStatus returns received iff every item is fully received, partial
// iff any item has arrivals, and pending otherwise
func DeriveStatus(items []PurchaseOrderItem) ReceiptStatus {
	if len(items) == 0 {
		return ReceiptStatusPending
	}

	allReceived := true
	anyReceived := false
	for idx := range items {
		if !items[idx].IsFullyReceived() {
			allReceived = false
		}
		if items[idx].ReceivedQuantity > 0 {
			anyReceived = true
		}
	}

	switch {
	case allReceived:
		return ReceiptStatusReceived
	case anyReceived:
		return ReceiptStatusPartial
	default:
		return ReceiptStatusPending
	}
}

// ItemsByStatus filters items by their derived status
func (o *PurchaseOrder) ItemsByStatus(status ReceiptStatus) []PurchaseOrderItem {
	result := make([]PurchaseOrderItem, 0)
	for _, item := range o.Items {
		if item.Status() == status {
			result = append(result, item)
		}
	}
	return result
}

// TotalOrderedQuantity returns the sum of ordered quantities
func (o *PurchaseOrder) TotalOrderedQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalReceivedQuantity returns the sum of received quantities
func (o *PurchaseOrder) TotalReceivedQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.ReceivedQuantity
	}
	return total
}

// TotalCost returns the ordered value of the order
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}
