package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogapp "github.com/wms/backend/internal/application/catalog"
	identityapp "github.com/wms/backend/internal/application/identity"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	partnerapp "github.com/wms/backend/internal/application/partner"
	reportapp "github.com/wms/backend/internal/application/report"
	tradeapp "github.com/wms/backend/internal/application/trade"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/report"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/export"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/interfaces/http/dto"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"github.com/wms/backend/tests/testutil"
)

type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
	jwt    *auth.JWTService
}

func newTestAPI(t *testing.T, readiness map[string]handler.Check) *testAPI {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "wms-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	userRepo := persistence.NewGormUserRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db)
	inventoryRepo := persistence.NewGormInventoryRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	database := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	h := router.Handlers{
		Health: handler.NewHealthHandler(database, readiness),
		Auth:   handler.NewAuthHandler(identityapp.NewAuthService(userRepo, jwtService, blacklist, log)),
		User: handler.NewUserHandler(identityapp.NewUserService(
			userRepo, blacklist, jwtService.RefreshTokenExpiration(), log)),
		Category:      handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo, productRepo)),
		Product:       handler.NewProductHandler(catalogapp.NewProductService(productRepo, categoryRepo, txScope)),
		Supplier:      handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo)),
		Customer:      handler.NewCustomerHandler(partnerapp.NewCustomerService(customerRepo)),
		PurchaseOrder: handler.NewPurchaseOrderHandler(tradeapp.NewPurchaseOrderService(supplierRepo, productRepo, purchaseOrderRepo, txScope)),
		SalesOrder:    handler.NewSalesOrderHandler(tradeapp.NewSalesOrderService(salesOrderRepo, customerRepo, productRepo)),
		Inventory:     handler.NewInventoryHandler(inventoryapp.NewInventoryService(inventoryRepo, productRepo)),
		Report:        handler.NewReportHandler(reportapp.NewReportService(persistence.NewGormReportRepository(db), reportapp.Defaults{})),
	}

	engine := router.New(router.Options{
		Logger:   log,
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 20},
		JWT:      middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist},
		Security: middleware.DefaultSecurityConfig(),
	}, h)

	return &testAPI{engine: engine, db: db, jwt: jwtService}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (a *testAPI) token(t *testing.T, role identity.Role) string {
	t.Helper()
	user := testutil.SeedUser(t, a.db, "user_"+string(role), role)
	pair, err := a.jwt.GenerateTokenPair(user)
	require.NoError(t, err)
	return pair.AccessToken
}

func (a *testAPI) do(t *testing.T, req testutil.Request) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, a.engine, req)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		api := newTestAPI(t, nil)

		w := api.do(t, testutil.Request{Path: "/health"})
		require.Equal(t, http.StatusOK, w.Code)
		body := testutil.DecodeData[handler.HealthResponse](t, w)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "up", body.Checks["database"])
	})

	t.Run("readiness failure answers 503", func(t *testing.T) {
		api := newTestAPI(t, map[string]handler.Check{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})

		assert.Equal(t, http.StatusOK, api.do(t, testutil.Request{Path: "/health"}).Code)

		w := api.do(t, testutil.Request{Path: "/health/ready"})
		testutil.AssertError(t, w, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable)
	})
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body:   identityapp.RegisterRequest{Name: "owner", Email: "owner@example.com", Password: "secret123"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := testutil.DecodeData[identityapp.UserResponse](t, w)
	assert.Equal(t, identity.RoleAdmin, registered.Role)

	w = api.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   identityapp.LoginRequest{UsernameOrEmail: "owner", Password: "secret123"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := testutil.DecodeData[identityapp.LoginResponse](t, w)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "Bearer", login.TokenType)

	w = api.do(t, testutil.Request{Path: "/api/v1/users/me", Token: login.AccessToken})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", testutil.DecodeData[identityapp.UserResponse](t, w).Name)

	w = api.do(t, testutil.Request{Method: http.MethodPost, Path: "/api/v1/auth/logout", Token: login.AccessToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, testutil.Request{Path: "/api/v1/users/me", Token: login.AccessToken})
	testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenRevoked)
}

func TestAuthorization(t *testing.T) {
	api := newTestAPI(t, nil)
	staff := api.token(t, identity.RoleStaff)
	manager := api.token(t, identity.RoleManager)

	t.Run("missing token", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/total-stock-value"})
		env := testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("malformed token", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/products", Token: "not-a-jwt"})
		testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeTokenInvalid)
	})

	t.Run("staff cannot list users", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/users", Token: staff})
		env := testutil.AssertError(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
		assert.Equal(t, "Manager or Admin access required", env.Error.Message)
	})

	t.Run("manager lists users", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/users", Token: manager})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := testutil.DecodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(2), env.Meta.Total)
	})

	t.Run("only admin deletes users", func(t *testing.T) {
		w := api.do(t, testutil.Request{Method: http.MethodDelete, Path: "/api/v1/users/1", Token: manager})
		env := testutil.AssertError(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
		assert.Equal(t, "Only admin can delete users", env.Error.Message)
	})

	t.Run("staff reads reports", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/total-stock-value", Token: staff})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestPurchaseOrderReceiving(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.token(t, identity.RoleStaff)

	supplier := testutil.SeedSupplier(t, api.db, "Acme")
	widget := testutil.SeedProduct(t, api.db, "Widget", "W-1", "10", 50)
	gadget := testutil.SeedProduct(t, api.db, "Gadget", "G-1", "4", 0)

	w := api.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/purchase-orders",
		Token:  token,
		Body: tradeapp.CreatePurchaseOrderRequest{
			SupplierID: supplier.ID,
			Items: []tradeapp.PurchaseOrderItemRequest{
				{ProductID: widget.ID, Quantity: 30, UnitCost: decimal.RequireFromString("9.50")},
				{ProductID: gadget.ID, Quantity: 10, UnitCost: decimal.RequireFromString("3")},
			},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	order := testutil.DecodeData[tradeapp.PurchaseOrderResponse](t, w)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "pending", string(order.Status))

	orderPath := "/api/v1/purchase-orders/" + itoa(order.ID)

	t.Run("empty receipt is rejected", func(t *testing.T) {
		w := api.do(t, testutil.Request{
			Method: http.MethodPut,
			Path:   orderPath + "/tracking",
			Token:  token,
			Body:   tradeapp.ReceiveOrderRequest{},
		})
		env := testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
		assert.Equal(t, "No items provided to mark as received.", env.Error.Message)
	})

	t.Run("partial receipt updates stock", func(t *testing.T) {
		w := api.do(t, testutil.Request{
			Method: http.MethodPut,
			Path:   orderPath + "/tracking",
			Token:  token,
			Body: tradeapp.ReceiveOrderRequest{ReceivedItems: []tradeapp.ReceivedItemRequest{
				{ProductID: widget.ID, ReceivedQuantity: 20},
			}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := testutil.DecodeData[tradeapp.ReceiveResult](t, w)
		assert.Equal(t, "partial", string(result.Status))
		assert.Equal(t, 1, result.UpdatedItems)
		assert.Equal(t, "Selected items successfully marked as received.", result.Message)

		w = api.do(t, testutil.Request{Path: "/api/v1/inventory/" + itoa(widget.ID), Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"quantity":70`)
	})

	t.Run("over receipt is rejected", func(t *testing.T) {
		w := api.do(t, testutil.Request{
			Method: http.MethodPut,
			Path:   orderPath + "/tracking",
			Token:  token,
			Body: tradeapp.ReceiveOrderRequest{ReceivedItems: []tradeapp.ReceivedItemRequest{
				{ProductID: widget.ID, ReceivedQuantity: 11},
			}},
		})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})

	t.Run("items filtered by status", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: orderPath + "/items?status=pending", Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		items := testutil.DecodeData[tradeapp.ItemsByStatusResponse](t, w)
		require.Equal(t, 1, items.TotalItems)
		assert.Equal(t, gadget.ID, items.Items[0].ProductID)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/purchase-orders/999", Token: token})
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/purchase-orders/abc", Token: token})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})
}

func TestReports(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.token(t, identity.RoleStaff)
	testutil.SeedProduct(t, api.db, "Widget", "W-1", "2.50", 4)
	testutil.SeedProduct(t, api.db, "Gadget", "G-1", "10", 100)

	t.Run("low stock rejects threshold under minimum", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/low-stock?threshold=5", Token: token})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	})

	t.Run("low stock uses default threshold", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/low-stock", Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		rows := testutil.DecodeData[[]report.LowStockRow](t, w)
		require.Len(t, rows, 1)
		assert.Equal(t, "Widget", rows[0].ProductName)
	})

	t.Run("total stock value", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/total-stock-value", Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		value := testutil.DecodeData[report.StockValue](t, w)
		assert.True(t, decimal.RequireFromString("1010").Equal(value.TotalStockValue), value.TotalStockValue.String())
	})

	t.Run("inventory summary export", func(t *testing.T) {
		w := api.do(t, testutil.Request{Path: "/api/v1/reports/inventory-summary/export", Token: token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="inventory-summary-`))
		assert.NotZero(t, w.Body.Len())
	})
}

func TestValidationDetails(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.token(t, identity.RoleStaff)

	w := api.do(t, testutil.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/categories",
		Token:  token,
		Body:   map[string]string{"description": "no name"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp struct {
		Error struct {
			Code    string                 `json:"code"`
			Details []dto.ValidationDetail `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}

func TestProductStockAdjustment(t *testing.T) {
	api := newTestAPI(t, nil)
	token := api.token(t, identity.RoleStaff)
	product := testutil.SeedProduct(t, api.db, "Widget", "W-1", "1", 5)
	path := "/api/v1/products/" + itoa(product.ID) + "/stock"

	w := api.do(t, testutil.Request{
		Method: http.MethodPatch,
		Path:   path,
		Token:  token,
		Body:   catalogapp.AdjustStockRequest{Adjustment: -3, Reason: "damaged"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	level := testutil.DecodeData[catalogapp.StockAdjustmentResponse](t, w)
	assert.Equal(t, int64(2), level.ProductQuantity)
	assert.Equal(t, int64(2), level.InventoryQuantity)

	w = api.do(t, testutil.Request{
		Method: http.MethodPatch,
		Path:   path,
		Token:  token,
		Body:   catalogapp.AdjustStockRequest{Adjustment: -3},
	})
	testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeInsufficientStock)
}
