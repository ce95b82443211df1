package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wms/backend/internal/infrastructure/logger"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logger.GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	t.Run("generates an ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", nil)
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})

	t.Run("keeps the caller's ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: "abc-123"})
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("truncates long IDs", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/test", map[string]string{RequestIDHeader: strings.Repeat("x", 500)})
		assert.Len(t, rec.Header().Get(RequestIDHeader), MaxRequestIDLength)
	})
}

func TestCORSWithConfig(t *testing.T) {
	newRouter := func(origins ...string) *gin.Engine {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = origins
		router := gin.New()
		router.Use(CORSWithConfig(cfg))
		router.GET("/test", okHandler)
		return router
	}

	t.Run("allowed origin", func(t *testing.T) {
		rec := serve(newRouter("https://app.example.com"), http.MethodGet, "/test",
			map[string]string{"Origin": "https://app.example.com"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		rec := serve(newRouter("https://app.example.com"), http.MethodGet, "/test",
			map[string]string{"Origin": "https://evil.example.com"})
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		rec := serve(newRouter("*"), http.MethodGet, "/test",
			map[string]string{"Origin": "https://any.example.com"})
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origins configured answers preflight", func(t *testing.T) {
		rec := serve(newRouter(), http.MethodOptions, "/test",
			map[string]string{"Origin": "https://app.example.com"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecureWithConfig(t *testing.T) {
	router := gin.New()
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	router.Use(SecureWithConfig(cfg))
	router.GET("/test", okHandler)

	rec := serve(router, http.MethodGet, "/test", nil)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
