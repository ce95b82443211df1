package router

import (
	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Supplier      *handler.SupplierHandler
	Customer      *handler.CustomerHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	SalesOrder    *handler.SalesOrderHandler
	Inventory     *handler.InventoryHandler
	Report        *handler.ReportHandler
}

// APIGroups builds the versioned route groups. authn guards everything
// except registration, login and refresh.
func APIGroups(h Handlers, authn gin.HandlerFunc) []*DomainGroup {
	guarded := func(name, prefix string, kind identity.ResourceKind) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(authn, middleware.RequireAccess(kind))
	}

	authGroup := NewDomainGroup("auth", "/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", authn, h.Auth.Logout)

	// Per-user rules are decided in the service against the target user
	users := NewDomainGroup("users", "/users").Use(authn)
	users.GET("/me", h.User.Me)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Delete)

	categories := guarded("categories", "/categories", identity.ResourceCatalog)
	categories.POST("", h.Category.Create)
	categories.GET("", h.Category.List)
	categories.GET("/:id", h.Category.GetByID)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	products := guarded("products", "/products", identity.ResourceCatalog)
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.PATCH("/:id/stock", h.Product.AdjustStock)

	suppliers := guarded("suppliers", "/suppliers", identity.ResourcePartner)
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("", h.Supplier.List)
	suppliers.GET("/:id", h.Supplier.GetByID)
	suppliers.GET("/:id/order-summary", h.Supplier.OrderSummary)

	customers := guarded("customers", "/customers", identity.ResourcePartner)
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.DELETE("/:id", h.Customer.Delete)

	purchaseOrders := guarded("purchase-orders", "/purchase-orders", identity.ResourceTrade)
	purchaseOrders.POST("", h.PurchaseOrder.Create)
	purchaseOrders.GET("", h.PurchaseOrder.List)
	purchaseOrders.GET("/:id", h.PurchaseOrder.GetByID)
	purchaseOrders.PUT("/:id/tracking", h.PurchaseOrder.Receive)
	purchaseOrders.GET("/:id/items", h.PurchaseOrder.ItemsByStatus)

	salesOrders := guarded("orders", "/orders", identity.ResourceTrade)
	salesOrders.POST("", h.SalesOrder.Create)
	salesOrders.GET("", h.SalesOrder.List)
	salesOrders.GET("/:id", h.SalesOrder.GetByID)
	salesOrders.PATCH("/:id/status", h.SalesOrder.UpdateStatus)

	inventory := guarded("inventory", "/inventory", identity.ResourceInventory)
	inventory.GET("", h.Inventory.List)
	inventory.GET("/:product_id", h.Inventory.GetByProduct)

	reports := guarded("reports", "/reports", identity.ResourceReport)
	reports.GET("/inventory-summary", h.Report.InventorySummary)
	reports.GET("/inventory-summary/export", h.Report.ExportInventorySummary)
	reports.GET("/low-stock", h.Report.LowStock)
	reports.GET("/sales-summary", h.Report.SalesSummary)
	reports.GET("/purchase-summary", h.Report.PurchaseSummary)
	reports.GET("/total-stock-value", h.Report.TotalStockValue)

	return []*DomainGroup{
		authGroup, users, categories, products, suppliers, customers,
		purchaseOrders, salesOrders, inventory, reports,
	}
}
