package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/trade"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the full schema. A single
// connection keeps every statement on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

// newMockDB opens GORM over go-sqlmock with the PostgreSQL dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku string, price string, quantity int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, sku, nil, decimal.RequireFromString(price))
	require.NoError(t, err)
	p.Quantity = quantity
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(name, "9876543210", "12 Dock Road")
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(context.Background(), s))
	return s
}

func seedPurchaseOrder(t *testing.T, db *gorm.DB, supplierID int64, lines ...trade.OrderLine) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder(supplierID, lines)
	require.NoError(t, err)
	require.NoError(t, NewGormPurchaseOrderRepository(db).Create(context.Background(), order))
	return order
}
