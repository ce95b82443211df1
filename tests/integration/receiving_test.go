package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	tradeapp "github.com/wms/backend/internal/application/trade"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/trade"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/tests/testutil"
)

func newPurchaseOrderService(db *gorm.DB) *tradeapp.PurchaseOrderService {
	return tradeapp.NewPurchaseOrderService(
		persistence.NewGormSupplierRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormPurchaseOrderRepository(db),
		persistence.NewGormTransactionScope(db),
	)
}

// stockOf returns both stock counters for a product; inventoryQty is -1
// when the product has no inventory row yet
func stockOf(t *testing.T, db *gorm.DB, productID int64) (productQty, inventoryQty int64) {
	t.Helper()
	var p catalog.Product
	require.NoError(t, db.First(&p, productID).Error)
	var inv inventory.Inventory
	err := db.Where("product_id = ?", productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p.Quantity, -1
	}
	require.NoError(t, err)
	return p.Quantity, inv.Quantity
}

func TestReceiving_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	svc := newPurchaseOrderService(tdb.DB)

	t.Run("partial then full receipt", func(t *testing.T) {
		tdb.CleanTables()
		supplier := testutil.SeedSupplier(t, tdb.DB, "Acme Supplies")
		widget := testutil.SeedProduct(t, tdb.DB, "Widget", "W-1", "10", 50)
		gadget := testutil.SeedProduct(t, tdb.DB, "Gadget", "G-1", "4", 0)
		testutil.SeedInventory(t, tdb.DB, gadget.ID, 0)

		order, err := svc.Create(ctx, tradeapp.CreatePurchaseOrderRequest{
			SupplierID: supplier.ID,
			Items: []tradeapp.PurchaseOrderItemRequest{
				{ProductID: widget.ID, Quantity: 30, UnitCost: decimal.RequireFromString("9.50")},
				{ProductID: gadget.ID, Quantity: 10, UnitCost: decimal.RequireFromString("3")},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptStatusPending, order.Status)

		result, err := svc.Receive(ctx, order.ID, tradeapp.ReceiveOrderRequest{
			ReceivedItems: []tradeapp.ReceivedItemRequest{{ProductID: widget.ID, ReceivedQuantity: 20}},
		})
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptStatusPartial, result.Status)

		// The missing inventory row is seeded from the product counter first
		productQty, inventoryQty := stockOf(t, tdb.DB, widget.ID)
		assert.Equal(t, int64(70), productQty)
		assert.Equal(t, int64(70), inventoryQty)

		result, err = svc.Receive(ctx, order.ID, tradeapp.ReceiveOrderRequest{
			ReceivedItems: []tradeapp.ReceivedItemRequest{
				{ProductID: widget.ID, ReceivedQuantity: 10},
				{ProductID: gadget.ID, ReceivedQuantity: 10},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptStatusReceived, result.Status)
		assert.Equal(t, 2, result.UpdatedItems)

		productQty, inventoryQty = stockOf(t, tdb.DB, gadget.ID)
		assert.Equal(t, int64(10), productQty)
		assert.Equal(t, int64(10), inventoryQty)
	})

	t.Run("rejected receipt leaves nothing behind", func(t *testing.T) {
		tdb.CleanTables()
		supplier := testutil.SeedSupplier(t, tdb.DB, "Acme Supplies")
		widget := testutil.SeedProduct(t, tdb.DB, "Widget", "W-1", "10", 5)
		gadget := testutil.SeedProduct(t, tdb.DB, "Gadget", "G-1", "4", 5)
		order := testutil.SeedPurchaseOrder(t, tdb.DB, supplier.ID,
			testutil.Line(widget.ID, 10, "1"),
			testutil.Line(gadget.ID, 2, "1"),
		)

		// The second entry over-receives, so the first must be rolled back too
		_, err := svc.Receive(ctx, order.ID, tradeapp.ReceiveOrderRequest{
			ReceivedItems: []tradeapp.ReceivedItemRequest{
				{ProductID: widget.ID, ReceivedQuantity: 4},
				{ProductID: gadget.ID, ReceivedQuantity: 3},
			},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)

		productQty, inventoryQty := stockOf(t, tdb.DB, widget.ID)
		assert.Equal(t, int64(5), productQty)
		assert.Equal(t, int64(-1), inventoryQty)

		reloaded, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.ReceiptStatusPending, reloaded.Status)
		for _, item := range reloaded.Items {
			assert.Zero(t, item.ReceivedQuantity)
		}
	})
}

func TestReceiving_ConcurrentReceiptsOnOneOrder(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	svc := newPurchaseOrderService(tdb.DB)

	supplier := testutil.SeedSupplier(t, tdb.DB, "Acme Supplies")
	widget := testutil.SeedProduct(t, tdb.DB, "Widget", "W-1", "10", 100)
	order := testutil.SeedPurchaseOrder(t, tdb.DB, supplier.ID, testutil.Line(widget.ID, 10, "2"))

	const workers = 10
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		rejected  atomic.Int64
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Receive(ctx, order.ID, tradeapp.ReceiveOrderRequest{
				ReceivedItems: []tradeapp.ReceivedItemRequest{{ProductID: widget.ID, ReceivedQuantity: 2}},
			})
			if err != nil {
				rejected.Add(1)
				return
			}
			succeeded.Add(1)
		}()
	}
	close(start)
	wg.Wait()

	// Receipts on one order are serialized, so exactly the ordered amount lands
	assert.Equal(t, int64(5), succeeded.Load())
	assert.Equal(t, int64(5), rejected.Load())

	productQty, inventoryQty := stockOf(t, tdb.DB, widget.ID)
	assert.Equal(t, int64(110), productQty)
	assert.Equal(t, int64(110), inventoryQty)

	reloaded, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.ReceiptStatusReceived, reloaded.Status)
	assert.Equal(t, int64(10), reloaded.Items[0].ReceivedQuantity)
}

func TestReceiving_ConcurrentOrdersForOneProduct(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	svc := newPurchaseOrderService(tdb.DB)

	supplier := testutil.SeedSupplier(t, tdb.DB, "Acme Supplies")
	widget := testutil.SeedProduct(t, tdb.DB, "Widget", "W-1", "10", 0)

	const orders = 8
	ids := make([]int64, orders)
	for i := range ids {
		ids[i] = testutil.SeedPurchaseOrder(t, tdb.DB, supplier.ID, testutil.Line(widget.ID, 5, "1")).ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, orders)
	for _, id := range ids {
		wg.Add(1)
		go func(orderID int64) {
			defer wg.Done()
			_, err := svc.Receive(ctx, orderID, tradeapp.ReceiveOrderRequest{
				ReceivedItems: []tradeapp.ReceivedItemRequest{{ProductID: widget.ID, ReceivedQuantity: 5}},
			})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Row locks on the product prevent lost updates across orders
	productQty, inventoryQty := stockOf(t, tdb.DB, widget.ID)
	assert.Equal(t, int64(orders*5), productQty)
	assert.Equal(t, int64(orders*5), inventoryQty)
}
