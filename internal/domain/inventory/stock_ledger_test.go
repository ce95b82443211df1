package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

type mockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepository) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type mockInventoryRepository struct {
	mock.Mock
	InventoryRepository
}

func (m *mockInventoryRepository) FindByProductForUpdate(ctx context.Context, productID int64) (*Inventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Inventory), args.Error(1)
}

func (m *mockInventoryRepository) Save(ctx context.Context, inv *Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func TestStockLedger_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("moves both counters together", func(t *testing.T) {
		products := new(mockProductRepository)
		stock := new(mockInventoryRepository)
		products.On("FindByIDForUpdate", ctx, int64(1)).Return(&catalog.Product{ID: 1, Quantity: 50}, nil)
		stock.On("FindByProductForUpdate", ctx, int64(1)).Return(&Inventory{ID: 4, ProductID: 1, Quantity: 50}, nil)
		products.On("UpdateQuantity", ctx, int64(1), int64(70)).Return(nil)
		stock.On("Save", ctx, mock.MatchedBy(func(inv *Inventory) bool { return inv.Quantity == 70 })).Return(nil)

		level, err := NewStockLedger(products, stock).Apply(ctx, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(70), level.ProductQuantity)
		assert.Equal(t, int64(70), level.InventoryQuantity)
		products.AssertExpectations(t)
		stock.AssertExpectations(t)
	})

	t.Run("opens missing inventory row at product quantity", func(t *testing.T) {
		products := new(mockProductRepository)
		stock := new(mockInventoryRepository)
		products.On("FindByIDForUpdate", ctx, int64(1)).Return(&catalog.Product{ID: 1, Quantity: 50}, nil)
		stock.On("FindByProductForUpdate", ctx, int64(1)).Return(nil, shared.ErrNotFound)
		products.On("UpdateQuantity", ctx, int64(1), int64(45)).Return(nil)
		stock.On("Save", ctx, mock.MatchedBy(func(inv *Inventory) bool {
			return inv.ID == 0 && inv.ProductID == 1 && inv.Quantity == 45
		})).Return(nil)

		level, err := NewStockLedger(products, stock).Apply(ctx, 1, -5)
		require.NoError(t, err)
		assert.Equal(t, int64(45), level.InventoryQuantity)
		stock.AssertExpectations(t)
	})

	t.Run("rejects movement below zero without writes", func(t *testing.T) {
		products := new(mockProductRepository)
		stock := new(mockInventoryRepository)
		products.On("FindByIDForUpdate", ctx, int64(1)).Return(&catalog.Product{ID: 1, Quantity: 3}, nil)
		stock.On("FindByProductForUpdate", ctx, int64(1)).Return(&Inventory{ID: 4, ProductID: 1, Quantity: 3}, nil)

		_, err := NewStockLedger(products, stock).Apply(ctx, 1, -4)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, "Quantity cannot go below zero.", err.Error())
		products.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
		stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects when either counter would go negative", func(t *testing.T) {
		products := new(mockProductRepository)
		stock := new(mockInventoryRepository)
		products.On("FindByIDForUpdate", ctx, int64(1)).Return(&catalog.Product{ID: 1, Quantity: 10}, nil)
		stock.On("FindByProductForUpdate", ctx, int64(1)).Return(&Inventory{ID: 4, ProductID: 1, Quantity: 2}, nil)

		_, err := NewStockLedger(products, stock).Apply(ctx, 1, -5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("unknown product", func(t *testing.T) {
		products := new(mockProductRepository)
		stock := new(mockInventoryRepository)
		products.On("FindByIDForUpdate", ctx, int64(9)).Return(nil, shared.ErrNotFound)

		_, err := NewStockLedger(products, stock).Apply(ctx, 9, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, "Product with ID 9 does not exist.", err.Error())
	})

	t.Run("zero delta", func(t *testing.T) {
		_, err := NewStockLedger(new(mockProductRepository), new(mockInventoryRepository)).Apply(ctx, 1, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestResolveQuantity(t *testing.T) {
	assert.Equal(t, int64(7), ResolveQuantity(&Inventory{Quantity: 7}, 50))
	assert.Equal(t, int64(50), ResolveQuantity(nil, 50))
}
