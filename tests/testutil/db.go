// Package testutil provides common test utilities for the WMS backend:
// in-memory and mocked databases, seed helpers and HTTP request helpers.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/trade"
)

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&catalog.Category{},
		&catalog.Product{},
		&partner.Supplier{},
		&partner.Customer{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&trade.SalesOrder{},
		&trade.OrderItem{},
		&inventory.Inventory{},
		&identity.User{},
	}
}

// NewSQLiteDB opens an in-memory SQLite database with the full schema.
// One connection keeps every statement, including transactions, on the
// same in-memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...), "Failed to migrate schema")
	return db
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates GORM over sqlmock with the PostgreSQL dialect.
// The connection is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// SeedProduct inserts a product with the given on-hand quantity and no inventory row
func SeedProduct(t *testing.T, db *gorm.DB, name, sku, price string, quantity int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, sku, nil, decimal.RequireFromString(price))
	require.NoError(t, err)
	p.Quantity = quantity
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedCategory inserts a category
func SeedCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(c).Error)
	return c
}

// SeedSupplier inserts a supplier with a valid contact number
func SeedSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(name, "9876543210", "12 Dock Road")
	require.NoError(t, err)
	require.NoError(t, db.Create(s).Error)
	return s
}

// SeedCustomer inserts a customer
func SeedCustomer(t *testing.T, db *gorm.DB, name, phone string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, phone, "7 Market Street")
	require.NoError(t, err)
	require.NoError(t, db.Create(c).Error)
	return c
}

// SeedInventory inserts an inventory row for a product
func SeedInventory(t *testing.T, db *gorm.DB, productID, quantity int64) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.NewInventory(productID, quantity)
	require.NoError(t, err)
	require.NoError(t, db.Create(inv).Error)
	return inv
}

// SeedPurchaseOrder inserts a pending order with its items
func SeedPurchaseOrder(t *testing.T, db *gorm.DB, supplierID int64, lines ...trade.OrderLine) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder(supplierID, lines)
	require.NoError(t, err)
	require.NoError(t, db.Create(order).Error)
	return order
}

// SeedUser inserts a user with the given role and password "password123"
func SeedUser(t *testing.T, db *gorm.DB, name string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, name+"@example.com", "password123", role)
	require.NoError(t, err)
	require.NoError(t, db.Create(u).Error)
	return u
}

// Line builds an order line from string cost for brevity in tests
func Line(productID, quantity int64, unitCost string) trade.OrderLine {
	return trade.OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  decimal.RequireFromString(unitCost),
	}
}

// ContextWithTimeout creates a context with timeout that is cancelled when the test ends.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
