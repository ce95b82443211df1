package partner

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Customer places sales orders
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Phone     string    `gorm:"type:varchar(10);uniqueIndex"`
	Address   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer after validating name and phone
func NewCustomer(name, phone, address string) (*Customer, error) {
	c := &Customer{}
	if err := c.apply(name, phone, address); err != nil {
		return nil, err
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

// Update replaces the customer's details
func (c *Customer) Update(name, phone, address string) error {
	if err := c.apply(name, phone, address); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Customer) apply(name, phone, address string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	if name == "" || isPlaceholder(name) {
		return shared.InvalidInputf("Customer name is required.")
	}
	if phone == "" {
		return shared.InvalidInputf("Customer phone number is required.")
	}
	if err := ValidateContact(phone); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Address = strings.TrimSpace(address)
	return nil
}
