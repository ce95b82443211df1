package partner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/shared"
)

func TestNewSupplier(t *testing.T) {
	t.Run("trims and creates supplier", func(t *testing.T) {
		s, err := NewSupplier(" Acme Traders ", " 9876543210 ", " 12 Dock Road ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Traders", s.Name)
		assert.Equal(t, "9876543210", s.Contact)
		assert.Equal(t, "12 Dock Road", s.Address)
	})

	cases := []struct {
		name    string
		sName   string
		contact string
		address string
		message string
	}{
		{"all placeholders", "string", "string", "string", "Please enter valid supplier information before submitting."},
		{"missing name", "", "9876543210", "Road", "Supplier name is required."},
		{"placeholder name", "String", "9876543210", "Road", "Enter a valid supplier name, not a placeholder like 'string'."},
		{"missing address", "Acme", "9876543210", "  ", "Supplier address is required."},
		{"placeholder address", "Acme", "9876543210", "string", "Enter a valid address, not a placeholder like 'string'."},
		{"missing contact", "Acme", "", "Road", "Supplier contact number is required."},
		{"contact starts with 5", "Acme", "5876543210", "Road", "Enter a valid 10-digit mobile number starting with 6, 7, 8, or 9."},
		{"contact too short", "Acme", "987654321", "Road", "Enter a valid 10-digit mobile number starting with 6, 7, 8, or 9."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSupplier(tc.sName, tc.contact, tc.address)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer("Ravi", "9123456780", "Main St")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)

	_, err = NewCustomer("Ravi", "12345", "")
	require.Error(t, err)

	_, err = NewCustomer("", "9123456780", "")
	require.Error(t, err)

	require.NoError(t, c.Update("Ravi K", "8123456780", "Side St"))
	assert.Equal(t, "8123456780", c.Phone)
}
