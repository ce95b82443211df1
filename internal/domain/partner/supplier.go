package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// placeholderValue is the literal that generated API clients send for
// untouched string fields
const placeholderValue = "string"

var contactPattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// Supplier is a vendor that purchase orders are raised against.
// Suppliers are immutable once created.
type Supplier struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Contact   string    `gorm:"type:varchar(10);not null"`
	Address   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier validates and creates a supplier. All fields are trimmed
// before validation.
func NewSupplier(name, contact, address string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)
	address = strings.TrimSpace(address)

	if isPlaceholder(name) && isPlaceholder(contact) && isPlaceholder(address) {
		return nil, shared.InvalidInputf("Please enter valid supplier information before submitting.")
	}

	switch {
	case name == "":
		return nil, shared.InvalidInputf("Supplier name is required.")
	case isPlaceholder(name):
		return nil, shared.InvalidInputf("Enter a valid supplier name, not a placeholder like 'string'.")
	case address == "":
		return nil, shared.InvalidInputf("Supplier address is required.")
	case isPlaceholder(address):
		return nil, shared.InvalidInputf("Enter a valid address, not a placeholder like 'string'.")
	case contact == "":
		return nil, shared.InvalidInputf("Supplier contact number is required.")
	}
	if err := ValidateContact(contact); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Supplier{
		Name:      name,
		Contact:   contact,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateContact checks a 10-digit mobile number starting with 6-9
func ValidateContact(contact string) error {
	if !contactPattern.MatchString(contact) {
		return shared.InvalidInputf("Enter a valid 10-digit mobile number starting with 6, 7, 8, or 9.")
	}
	return nil
}

func isPlaceholder(v string) bool {
	return strings.EqualFold(v, placeholderValue)
}
