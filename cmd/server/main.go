package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/wms/backend/internal/application/catalog"
	identityapp "github.com/wms/backend/internal/application/identity"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	partnerapp "github.com/wms/backend/internal/application/partner"
	reportapp "github.com/wms/backend/internal/application/report"
	tradeapp "github.com/wms/backend/internal/application/trade"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting WMS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = logger.WithCore(log, loggerProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Token blacklist: redis when configured, otherwise process-local
	var blacklist auth.TokenBlacklist
	readiness := map[string]handler.Check{}
	if cfg.Redis.Enabled {
		redisClient, err := auth.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer func(client *redis.Client) {
			_ = client.Close()
		}(redisClient)
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		readiness["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Token blacklist backed by redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocation is local to this process")
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, jwtService.RefreshTokenExpiration(), log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, txScope)
	supplierService := partnerapp.NewSupplierService(supplierRepo, purchaseOrderRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(supplierRepo, productRepo, purchaseOrderRepo, txScope)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, customerRepo, productRepo)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, productRepo)
	reportService := reportapp.NewReportService(reportRepo, reportapp.Defaults{
		LowStockThreshold: cfg.Report.LowStockThreshold,
		Limit:             cfg.Report.DefaultLimit,
	})

	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("wms.business"))
		if err != nil {
			log.Fatal("Failed to register business metrics", zap.Error(err))
		}
		purchaseOrderService.SetBusinessMetrics(businessMetrics)
		salesOrderService.SetBusinessMetrics(businessMetrics)
		reportService.SetBusinessMetrics(businessMetrics)
	}

	handlers := router.Handlers{
		Health:        handler.NewHealthHandler(db.Ping, readiness),
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Category:      handler.NewCategoryHandler(categoryService),
		Product:       handler.NewProductHandler(productService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Customer:      handler.NewCustomerHandler(customerService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		SalesOrder:    handler.NewSalesOrderHandler(salesOrderService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Report:        handler.NewReportHandler(reportService),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engine := router.New(router.Options{
		Logger: log,
		HTTP:   cfg.HTTP,
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
		},
		Security: security,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}

	log.Info("Server exited")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}
}
