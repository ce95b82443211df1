package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	stock := NewDomainGroup("stock", "/stock")
	stock.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "v1")
		c.Next()
	})
	r.Register(stock).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/stock/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "v1", w.Header().Get("X-Api"))

	// API middleware does not leak onto routes outside the prefix
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("products", "/products")
		assert.Equal(t, "products", g.Name())
		assert.Equal(t, "/products", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("products", "/products")
		g.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "get") }).
			POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated") }).
			PATCH("/:id/stock", func(c *gin.Context) { c.String(http.StatusOK, "adjusted") }).
			DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			status int
		}{
			{http.MethodGet, "/api/v1/products/1", http.StatusOK},
			{http.MethodPost, "/api/v1/products", http.StatusCreated},
			{http.MethodPut, "/api/v1/products/1", http.StatusOK},
			{http.MethodPatch, "/api/v1/products/1/stock", http.StatusOK},
			{http.MethodDelete, "/api/v1/products/1", http.StatusNoContent},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.status, serve(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("group middleware is scoped to the group", func(t *testing.T) {
		engine := gin.New()
		guarded := NewDomainGroup("reports", "/reports").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		guarded.GET("/low-stock", func(c *gin.Context) { c.Status(http.StatusOK) })
		open := NewDomainGroup("auth", "/auth")
		open.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api/v1")
		guarded.RegisterRoutes(api)
		open.RegisterRoutes(api)

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/reports/low-stock").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		reports := NewDomainGroup("reports", "/reports")
		summary := reports.Group("inventory-summary", "/inventory-summary")
		summary.GET("/export", func(c *gin.Context) { c.String(http.StatusOK, "xlsx") })
		reports.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/reports/inventory-summary/export")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "xlsx", w.Body.String())
	})
}

func TestAPIGroups_RouteTable(t *testing.T) {
	engine := gin.New()
	h := Handlers{
		Health:        &handler.HealthHandler{},
		Auth:          &handler.AuthHandler{},
		User:          &handler.UserHandler{},
		Category:      &handler.CategoryHandler{},
		Product:       &handler.ProductHandler{},
		Supplier:      &handler.SupplierHandler{},
		Customer:      &handler.CustomerHandler{},
		PurchaseOrder: &handler.PurchaseOrderHandler{},
		SalesOrder:    &handler.SalesOrderHandler{},
		Inventory:     &handler.InventoryHandler{},
		Report:        &handler.ReportHandler{},
	}
	r := NewRouter(engine)
	for _, g := range APIGroups(h, func(c *gin.Context) { c.Next() }) {
		r.Register(g)
	}
	r.Setup()

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	want := []string{
		"DELETE /api/v1/categories/:id",
		"DELETE /api/v1/customers/:id",
		"DELETE /api/v1/products/:id",
		"DELETE /api/v1/users/:id",
		"GET /api/v1/categories",
		"GET /api/v1/categories/:id",
		"GET /api/v1/customers",
		"GET /api/v1/customers/:id",
		"GET /api/v1/inventory",
		"GET /api/v1/inventory/:product_id",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/purchase-orders",
		"GET /api/v1/purchase-orders/:id",
		"GET /api/v1/purchase-orders/:id/items",
		"GET /api/v1/reports/inventory-summary",
		"GET /api/v1/reports/inventory-summary/export",
		"GET /api/v1/reports/low-stock",
		"GET /api/v1/reports/purchase-summary",
		"GET /api/v1/reports/sales-summary",
		"GET /api/v1/reports/total-stock-value",
		"GET /api/v1/suppliers",
		"GET /api/v1/suppliers/:id",
		"GET /api/v1/suppliers/:id/order-summary",
		"GET /api/v1/users",
		"GET /api/v1/users/:id",
		"GET /api/v1/users/me",
		"PATCH /api/v1/orders/:id/status",
		"PATCH /api/v1/products/:id/stock",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/register",
		"POST /api/v1/categories",
		"POST /api/v1/customers",
		"POST /api/v1/orders",
		"POST /api/v1/products",
		"POST /api/v1/purchase-orders",
		"POST /api/v1/suppliers",
		"PUT /api/v1/categories/:id",
		"PUT /api/v1/customers/:id",
		"PUT /api/v1/products/:id",
		"PUT /api/v1/purchase-orders/:id/tracking",
		"PUT /api/v1/users/:id",
	}
	require.Len(t, got, len(want))
	assert.Equal(t, want, got)
}
