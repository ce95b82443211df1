package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		l.Info("hello")
		require.NoError(t, l.Sync())
		assert.FileExists(t, path)
	})

	t.Run("unwritable file is an error", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		assert.Error(t, err)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
}

func TestWithCore(t *testing.T) {
	baseCore, base := observer.New(zapcore.InfoLevel)
	extraCore, extra := observer.New(zapcore.WarnLevel)

	log := WithCore(zap.New(baseCore), extraCore)
	log.Info("stock adjusted", zap.Int64("product_id", 3))
	log.Warn("low stock", zap.Int64("product_id", 3))

	assert.Equal(t, 2, base.Len())
	require.Equal(t, 1, extra.Len())
	entry := extra.All()[0]
	assert.Equal(t, "low stock", entry.Message)
	assert.Equal(t, int64(3), entry.ContextMap()["product_id"])
}

func TestContextLogger_InjectsFields(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, 42)

	L(ctx).Info("stock adjusted", zap.Int64("product_id", 7))

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(42), fields["user_id"])
	assert.Equal(t, int64(7), fields["product_id"])
}

func TestFromContext_NoLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.Equal(t, int64(0), GetUserID(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) {
		L(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	for _, path := range []string{"/ok", "/bad"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	var levels []zapcore.Level
	for _, e := range recorded.FilterMessage("HTTP Request").All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel}, levels)
	assert.Equal(t, 1, recorded.FilterMessage("inside handler").Len())
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, recorded.Len(), "record not found is ignored")

	gl.Trace(context.Background(), time.Now(), sql, errors.New("syntax error"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, recorded.FilterLevelExact(zapcore.WarnLevel).Len())

	gl.Trace(context.Background(), time.Now(), sql, nil)
	assert.Equal(t, 0, recorded.FilterMessage("SQL Query").Len(), "plain queries need info level")

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("ignored"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info-ish"))
}
