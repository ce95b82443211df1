package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

func newJWTRouter(svc *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist}))
	router.GET("/test", okHandler)
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair := issueToken(t, svc, 7, identity.RoleManager)

	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, identity.Actor{UserID: 7, Role: identity.RoleManager}, GetActor(c))
		assert.Equal(t, int64(7), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	rec := serve(router, http.MethodGet, "/test", map[string]string{AuthHeaderKey: "Bearer " + pair.AccessToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair := issueToken(t, svc, 7, identity.RoleStaff)
	expired := issueToken(t, newTestJWTService(-time.Minute), 7, identity.RoleStaff)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage", "Bearer not-a-token", dto.ErrCodeTokenInvalid},
		{"refresh token", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
		{"expired", "Bearer " + expired.AccessToken, dto.ErrCodeTokenExpired},
	}

	router := newJWTRouter(svc, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[AuthHeaderKey] = tt.header
			}
			rec := serve(router, http.MethodGet, "/test", headers)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			errInfo := decodeError(t, rec)
			assert.Equal(t, tt.code, errInfo.Code)
			assert.NotEmpty(t, errInfo.RequestID)
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newJWTRouter(svc, blacklist)
	ctx := context.Background()

	t.Run("revoked jti", func(t *testing.T) {
		pair := issueToken(t, svc, 7, identity.RoleStaff)
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(ctx, claims.ID, time.Minute))

		rec := serve(router, http.MethodGet, "/test", map[string]string{AuthHeaderKey: "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, rec).Code)
	})

	t.Run("user invalidated", func(t *testing.T) {
		pair := issueToken(t, svc, 8, identity.RoleStaff)
		require.NoError(t, blacklist.InvalidateUser(ctx, 8, time.Hour))

		rec := serve(router, http.MethodGet, "/test", map[string]string{AuthHeaderKey: "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("other users unaffected", func(t *testing.T) {
		pair := issueToken(t, svc, 9, identity.RoleStaff)
		rec := serve(router, http.MethodGet, "/test", map[string]string{AuthHeaderKey: "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAccess(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/reports", RequireAccess(identity.ResourceReport), okHandler)
	router.GET("/users", RequireAccess(identity.ResourceUser), okHandler)

	staff := issueToken(t, svc, 1, identity.RoleStaff)
	manager := issueToken(t, svc, 2, identity.RoleManager)

	rec := serve(router, http.MethodGet, "/reports", map[string]string{AuthHeaderKey: "Bearer " + staff.AccessToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/users", map[string]string{AuthHeaderKey: "Bearer " + staff.AccessToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, dto.ErrCodeForbidden, errInfo.Code)
	assert.Equal(t, "Manager or Admin access required", errInfo.Message)

	rec = serve(router, http.MethodGet, "/users", map[string]string{AuthHeaderKey: "Bearer " + manager.AccessToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAccess_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.GET("/inventory", RequireAccess(identity.ResourceInventory), okHandler)

	rec := serve(router, http.MethodGet, "/inventory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, identity.ActionRead, actionFor(http.MethodGet))
	assert.Equal(t, identity.ActionRead, actionFor(http.MethodHead))
	assert.Equal(t, identity.ActionDelete, actionFor(http.MethodDelete))
	assert.Equal(t, identity.ActionWrite, actionFor(http.MethodPost))
	assert.Equal(t, identity.ActionWrite, actionFor(http.MethodPatch))
}
