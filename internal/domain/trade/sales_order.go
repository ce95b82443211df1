package trade

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// SalesOrderStatus represents the lifecycle of a customer order
type SalesOrderStatus string

const (
	SalesOrderStatusPending   SalesOrderStatus = "Pending"
	SalesOrderStatusShipped   SalesOrderStatus = "Shipped"
	SalesOrderStatusDelivered SalesOrderStatus = "Delivered"
	SalesOrderStatusCancelled SalesOrderStatus = "Cancelled"
)

// RevenueStatuses are the order statuses counted as realised sales
var RevenueStatuses = []SalesOrderStatus{SalesOrderStatusShipped, SalesOrderStatusDelivered}

// IsValid checks if the status is valid
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusPending, SalesOrderStatusShipped, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusPending:
		return target == SalesOrderStatusShipped || target == SalesOrderStatusCancelled
	case SalesOrderStatusShipped:
		return target == SalesOrderStatusDelivered
	}
	return false
}

// OrderItem is a product line of a sales order. Price is the unit price
// captured when the order was placed.
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null;index"`
	Quantity  int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Amount returns price multiplied by quantity
func (i *OrderItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// SalesOrder is a customer order
type SalesOrder struct {
	ID          int64            `gorm:"primaryKey;autoIncrement"`
	CustomerID  int64            `gorm:"not null;index"`
	Status      SalesOrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Items       []OrderItem      `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "orders"
}

// NewSalesOrder creates a pending order for the customer
func NewSalesOrder(customerID int64) (*SalesOrder, error) {
	if customerID <= 0 {
		return nil, shared.InvalidInputf("Enter a valid Customer ID (must be a positive number).")
	}
	now := time.Now()
	return &SalesOrder{
		CustomerID:  customerID,
		Status:      SalesOrderStatusPending,
		TotalAmount: decimal.Zero,
		Items:       make([]OrderItem, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddItem appends a line at the given unit price and updates the total
func (o *SalesOrder) AddItem(productID, quantity int64, price decimal.Decimal) error {
	index := len(o.Items) + 1
	if productID <= 0 {
		return shared.InvalidInputf("Item %d: Enter a valid Product ID.", index)
	}
	if quantity <= 0 {
		return shared.InvalidInputf("Item %d: Quantity must be greater than 0.", index)
	}

	item := OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price.Round(2),
	}
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.Amount())
	return nil
}

// TransitionTo moves the order to the target status
func (o *SalesOrder) TransitionTo(target SalesOrderStatus) error {
	if !target.IsValid() {
		return shared.InvalidInputf("Unknown order status '%s'.", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change order status from %s to %s.", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}
