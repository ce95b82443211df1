package inventory

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Inventory is the authoritative on-hand stock row for a product.
// There is at most one row per product; it is created on the first stock
// movement.
type Inventory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ProductID   int64     `gorm:"not null;uniqueIndex"`
	Quantity    int64     `gorm:"not null;default:0"`
	LastUpdated time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "inventory"
}

// NewInventory opens a stock row for the product at the given quantity
func NewInventory(productID, quantity int64) (*Inventory, error) {
	if productID <= 0 {
		return nil, shared.InvalidInputf("Enter a valid Product ID.")
	}
	if quantity < 0 {
		return nil, shared.ErrInsufficientStock
	}
	return &Inventory{
		ProductID:   productID,
		Quantity:    quantity,
		LastUpdated: time.Now(),
	}, nil
}

// Apply adds delta to the quantity. The row is unchanged on error.
func (i *Inventory) Apply(delta int64) error {
	if i.Quantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	i.Quantity += delta
	i.LastUpdated = time.Now()
	return nil
}

// ResolveQuantity returns the inventory quantity when a row exists and the
// product's own counter otherwise
func ResolveQuantity(inv *Inventory, productQuantity int64) int64 {
	if inv != nil {
		return inv.Quantity
	}
	return productQuantity
}
