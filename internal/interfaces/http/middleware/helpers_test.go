package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "wms-test",
		MaxRefreshCount:        3,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, id int64, role identity.Role) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(&identity.User{ID: id, Name: "user", Role: role})
	require.NoError(t, err)
	return pair
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func serve(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
