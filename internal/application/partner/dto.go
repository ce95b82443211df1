package partner

import (
	"time"

	"github.com/wms/backend/internal/domain/partner"
)

// CreateSupplierRequest represents a request to create a supplier.
// Field rules live in partner.NewSupplier so the messages stay exact.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

// CustomerRequest is the body of customer create and update
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"max=2000"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
