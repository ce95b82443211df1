package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// Options configures the engine built by New
type Options struct {
	Logger   *zap.Logger
	HTTP     config.HTTPConfig
	JWT      middleware.JWTMiddlewareConfig
	Tracing  middleware.TracingConfig
	Metrics  middleware.HTTPMetricsConfig
	Security middleware.SecurityConfig
}

// New builds the gin engine with the global middleware stack, the health
// endpoints and the versioned API.
//
// Middleware order:
//  1. RequestID, so recovery and the access log can report it
//  2. Recovery and the access log
//  3. HTTP metrics, so rejected requests are counted too
//  4. Security headers and CORS
//  5. Body limit and rate limit
//  6. Tracing, enriched with request and user IDs
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if opts.Metrics.Enabled {
		engine.Use(middleware.HTTPMetrics(opts.Metrics))
	}
	engine.Use(middleware.SecureWithConfig(opts.Security))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}
	if opts.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(opts.HTTP.RateLimitRequests, opts.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", opts.HTTP.RateLimitRequests),
			zap.Duration("window", opts.HTTP.RateLimitWindow),
		)
	}

	if opts.Tracing.Enabled {
		engine.Use(middleware.TracingWithConfig(opts.Tracing), middleware.SpanEnricher())
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/health/ready", h.Health.Ready)

	if opts.JWT.Logger == nil {
		opts.JWT.Logger = log
	}
	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, group := range APIGroups(h, middleware.JWTAuth(opts.JWT)) {
		r.Register(group)
	}
	r.Setup()

	return engine
}
