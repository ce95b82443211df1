package integration

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/infrastructure/migration"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestMigrations_DownAndUp(t *testing.T) {
	tdb := NewTestDB(t)

	sqlDB, err := sql.Open("postgres", tdb.DSN)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, findMigrationsPath(), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Applying again is a no-op
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	for _, table := range []string{"products", "purchase_orders", "purchase_order_items", "inventory", "users"} {
		assert.False(t, tableExists(t, tdb.SqlDB, table), table)
	}

	require.NoError(t, m.Up())
	for _, table := range []string{"categories", "products", "suppliers", "customers",
		"purchase_orders", "purchase_order_items", "orders", "order_items", "inventory", "users"} {
		assert.True(t, tableExists(t, tdb.SqlDB, table), table)
	}
}

func TestMigrations_CheckConstraints(t *testing.T) {
	tdb := NewTestDB(t)

	_, err := tdb.SqlDB.Exec(`INSERT INTO suppliers (name, contact, address, created_at, updated_at)
		VALUES ('Acme', '9876543210', 'Dock Road', now(), now())`)
	require.NoError(t, err)
	_, err = tdb.SqlDB.Exec(`INSERT INTO products (name, sku, unit_price, quantity, created_at, updated_at)
		VALUES ('Widget', 'W-1', 10, 0, now(), now())`)
	require.NoError(t, err)
	_, err = tdb.SqlDB.Exec(`INSERT INTO purchase_orders (supplier_id, status, created_at, updated_at)
		VALUES (1, 'pending', now(), now())`)
	require.NoError(t, err)

	// received_quantity may never exceed the ordered quantity
	_, err = tdb.SqlDB.Exec(`INSERT INTO purchase_order_items
		(order_id, product_id, quantity, unit_cost, received_quantity, created_at, updated_at)
		VALUES (1, 1, 5, 1, 6, now(), now())`)
	assert.Error(t, err)

	// unit_cost must be strictly positive
	_, err = tdb.SqlDB.Exec(`INSERT INTO purchase_order_items
		(order_id, product_id, quantity, unit_cost, received_quantity, created_at, updated_at)
		VALUES (1, 1, 5, 0, 0, now(), now())`)
	assert.Error(t, err)

	_, err = tdb.SqlDB.Exec(`INSERT INTO inventory (product_id, quantity, last_updated)
		VALUES (1, -1, now())`)
	assert.Error(t, err)
}
