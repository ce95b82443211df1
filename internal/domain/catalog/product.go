package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// Product represents a stock keeping unit.
//
// Quantity is the on-hand counter mirrored by the product's inventory row.
// It is written only through inventory.StockLedger; Update never touches it.
type Product struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	Name       string          `gorm:"type:varchar(200);not null"`
	SKU        string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	CategoryID *int64          `gorm:"index"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Quantity   int64           `gorm:"not null;default:0"`
	LocationID *int64
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with zero stock. Initial stock is booked
// separately so that both stock counters stay in step.
func NewProduct(name, sku string, categoryID *int64, unitPrice decimal.Decimal) (*Product, error) {
	p := &Product{}
	if err := p.apply(name, sku, categoryID, unitPrice); err != nil {
		return nil, err
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// Update changes the descriptive fields of the product
func (p *Product) Update(name, sku string, categoryID *int64, unitPrice decimal.Decimal) error {
	if err := p.apply(name, sku, categoryID, unitPrice); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) apply(name, sku string, categoryID *int64, unitPrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)

	if name == "" {
		return shared.InvalidInputf("Product name is required.")
	}
	if sku == "" {
		return shared.InvalidInputf("Product SKU is required.")
	}
	if categoryID != nil && *categoryID <= 0 {
		return shared.InvalidInputf("Category ID must be greater than 0")
	}
	if unitPrice.IsNegative() {
		return shared.InvalidInputf("Unit price cannot be negative")
	}

	p.Name = name
	p.SKU = sku
	p.CategoryID = categoryID
	p.UnitPrice = unitPrice.Round(2)
	return nil
}

// StockValue returns quantity multiplied by unit price
func (p *Product) StockValue(quantity int64) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}
